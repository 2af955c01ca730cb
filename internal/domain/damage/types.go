package damage

import "car-rental-api/internal/pkg/errs"

var ErrInvalidStatus = errs.Sentinel("invalid damage report status", errs.ErrValidation)

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusResolved    Status = "resolved"
)

// Approved reports only move on to resolved once the extra charge is
// settled. Rejected and resolved reports never change again.
var transitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {StatusResolved},
	StatusRejected:    {},
	StatusResolved:    {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsDecided is true once an admin approved or rejected the report.
func (s Status) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusResolved
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
