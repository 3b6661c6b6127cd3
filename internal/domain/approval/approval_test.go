package approval

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	to, err := Transition(StatusPending, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, to)

	to, err = Transition(StatusPending, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, to)

	for _, from := range []Status{StatusApproved, StatusRejected} {
		for _, d := range []Decision{DecisionApprove, DecisionReject} {
			_, err := Transition(from, d)
			assert.ErrorIs(t, err, ErrAlreadyDecided, "from=%s decision=%s", from, d)
		}
	}

	_, err = Transition(StatusPending, Decision("maybe"))
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestParseDecision(t *testing.T) {
	for in, want := range map[string]Decision{
		"approve":  DecisionApprove,
		"approved": DecisionApprove,
		"reject":   DecisionReject,
		"rejected": DecisionReject,
	} {
		got, err := ParseDecision(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseDecision("pending")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecide(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	out, err := Decide(StatusPending, DecisionApprove, "mgr-1", "", now)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, out.Status)
	require.NotNil(t, out.ApprovedBy)
	assert.Equal(t, "mgr-1", *out.ApprovedBy)
	assert.Nil(t, out.RejectionReason)

	out, err = Decide(StatusPending, DecisionReject, "mgr-1", "team offsite", now)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, out.Status)
	assert.Nil(t, out.ApprovedBy)
	require.NotNil(t, out.RejectionReason)
	assert.Equal(t, "team offsite", *out.RejectionReason)

	_, err = Decide(StatusRejected, DecisionApprove, "mgr-1", "", now)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.False(t, Status("cancelled").IsValid())
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestDecideRequest_Validate(t *testing.T) {
	reject := DecideRequest{ID: "req-1", ActorID: "mgr-1", Decision: "rejected"}
	require.NoError(t, reject.Validate(), "reason is optional")
	assert.Equal(t, DecisionReject, reject.ParsedDecision())

	bad := DecideRequest{ID: "req-1", ActorID: "mgr-1", Decision: "maybe", RejectionReason: strings.Repeat("x", 1001)}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
	assert.Contains(t, err.Error(), "rejection_reason")
}

func TestRejectionMessage(t *testing.T) {
	assert.Equal(t, "Leave rejected", RejectionMessage("Leave rejected", ""))
	assert.Equal(t, "Leave rejected: peak season", RejectionMessage("Leave rejected", "peak season"))
}
