package approval

import "github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"

// DecideRequest is the approver's verdict on a pending request. ID and
// ActorID come from the URL and the token, not from the body.
type DecideRequest struct {
	ID              string `json:"-"`
	ActorID         string `json:"-"`
	Decision        string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if validator.IsEmpty(r.ActorID) {
		errs.Add("actor_id", "actor_id is required")
	}

	if _, err := ParseDecision(r.Decision); err != nil {
		errs.Add("status", "status must be approved or rejected")
	}
	if len(r.RejectionReason) > 1000 {
		errs.Add("rejection_reason", "rejection_reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// ParsedDecision returns the decision; call Validate first.
func (r *DecideRequest) ParsedDecision() Decision {
	d, _ := ParseDecision(r.Decision)
	return d
}
