// Package approval is the pending -> approved | rejected state machine shared
// by leave applications, attendance regularizations and overtime requests.
package approval

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

var (
	ErrAlreadyDecided  = errors.New("request has already been decided")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
)

// ParseDecision accepts both verb and status forms ("approve"/"approved").
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "approve", "approved":
		return DecisionApprove, nil
	case "reject", "rejected":
		return DecisionReject, nil
	}
	return "", ErrInvalidDecision
}

// Transition returns the status a request in state from moves to under d.
func Transition(from Status, d Decision) (Status, error) {
	if from != StatusPending {
		return from, ErrAlreadyDecided
	}
	switch d {
	case DecisionApprove:
		return StatusApproved, nil
	case DecisionReject:
		return StatusRejected, nil
	}
	return from, ErrInvalidDecision
}

// Outcome is what a status-guarded update persists for a decided request.
// ApprovedBy is set only for approvals and RejectionReason only for
// rejections, where it may be empty.
type Outcome struct {
	Status          Status
	ActorID         string
	ApprovedBy      *string
	RejectionReason *string
	DecidedAt       time.Time
}

// Decide builds the Outcome for decision d taken by actorID at now.
func Decide(from Status, d Decision, actorID string, rejectionReason string, now time.Time) (Outcome, error) {
	to, err := Transition(from, d)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Status: to, ActorID: actorID, DecidedAt: now}
	if to == StatusApproved {
		out.ApprovedBy = &actorID
	} else {
		out.RejectionReason = &rejectionReason
	}
	return out, nil
}

// RejectionMessage appends reason to msg when one was given.
func RejectionMessage(msg, reason string) string {
	if reason == "" {
		return msg
	}
	return msg + ": " + reason
}
