package damage

import (
	"strings"
	"time"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrReportNotFound      = errs.Sentinel("damage report not found", errs.ErrNotFound)
	ErrInvalidTransition   = errs.Sentinel("damage report transition not allowed", errs.ErrInvalidState)
	ErrNegativeCost        = errs.Sentinel("cost cannot be negative", errs.ErrValidation)
	ErrDescriptionTooLong  = errs.Sentinel("description is too long (max 2000 characters)", errs.ErrValidation)
	ErrNotesTooLong        = errs.Sentinel("admin notes are too long (max 2000 characters)", errs.ErrValidation)
	ErrBookingNotCompleted = errs.Sentinel("damage can only be reported for a completed booking", errs.ErrInvalidState)
)

const MaxTextLength = 2000

// Report is a post-rental damage claim against a completed booking.
type Report struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	carID         uuid.UUID
	reportedBy    uuid.UUID
	description   string
	estimatedCost money.Money
	actualCost    *money.Money
	status        Status
	adminNotes    string
	resolvedAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewReport(
	id, bookingID, carID, reportedBy uuid.UUID,
	description string,
	estimatedCost money.Money,
	now time.Time,
) (*Report, error) {
	if estimatedCost.IsNegative() {
		return nil, ErrNegativeCost
	}
	description = strings.TrimSpace(description)
	if len([]rune(description)) > MaxTextLength {
		return nil, ErrDescriptionTooLong
	}
	return &Report{
		id:            id,
		bookingID:     bookingID,
		carID:         carID,
		reportedBy:    reportedBy,
		description:   description,
		estimatedCost: estimatedCost,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

type Snapshot struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	CarID         uuid.UUID
	ReportedBy    uuid.UUID
	Description   string
	EstimatedCost money.Money
	ActualCost    *money.Money
	Status        Status
	AdminNotes    string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Reconstruct(s Snapshot) *Report {
	return &Report{
		id:            s.ID,
		bookingID:     s.BookingID,
		carID:         s.CarID,
		reportedBy:    s.ReportedBy,
		description:   s.Description,
		estimatedCost: s.EstimatedCost,
		actualCost:    s.ActualCost,
		status:        s.Status,
		adminNotes:    s.AdminNotes,
		resolvedAt:    s.ResolvedAt,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

func (r *Report) Snapshot() Snapshot {
	return Snapshot{
		ID:            r.id,
		BookingID:     r.bookingID,
		CarID:         r.carID,
		ReportedBy:    r.reportedBy,
		Description:   r.description,
		EstimatedCost: r.estimatedCost,
		ActualCost:    r.actualCost,
		Status:        r.status,
		AdminNotes:    r.adminNotes,
		ResolvedAt:    r.resolvedAt,
		CreatedAt:     r.createdAt,
		UpdatedAt:     r.updatedAt,
	}
}

func (r *Report) MarkUnderReview(now time.Time) error {
	return r.transition(StatusUnderReview, now)
}

// Approve records the actual cost. It is the only place actualCost is set.
func (r *Report) Approve(actualCost money.Money, notes string, now time.Time) error {
	if err := r.ensureTransition(StatusApproved); err != nil {
		return err
	}
	if actualCost.IsNegative() {
		return ErrNegativeCost
	}
	notes, err := normalizeNotes(notes)
	if err != nil {
		return err
	}
	cost := actualCost
	r.actualCost = &cost
	r.adminNotes = notes
	return r.transition(StatusApproved, now)
}

func (r *Report) Reject(notes string, now time.Time) error {
	if err := r.ensureTransition(StatusRejected); err != nil {
		return err
	}
	notes, err := normalizeNotes(notes)
	if err != nil {
		return err
	}
	r.adminNotes = notes
	return r.transition(StatusRejected, now)
}

// Resolve closes an approved report after the extra charge was settled.
func (r *Report) Resolve(now time.Time) error {
	if err := r.transition(StatusResolved, now); err != nil {
		return err
	}
	r.resolvedAt = &now
	return nil
}

func (r *Report) ensureTransition(next Status) error {
	if !r.status.CanTransitionTo(next) {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", r.status, next)
	}
	return nil
}

func (r *Report) transition(next Status, now time.Time) error {
	if err := r.ensureTransition(next); err != nil {
		return err
	}
	r.status = next
	r.updatedAt = now
	return nil
}

func normalizeNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > MaxTextLength {
		return "", ErrNotesTooLong
	}
	return notes, nil
}

func (r *Report) ID() uuid.UUID              { return r.id }
func (r *Report) BookingID() uuid.UUID       { return r.bookingID }
func (r *Report) CarID() uuid.UUID           { return r.carID }
func (r *Report) ReportedBy() uuid.UUID      { return r.reportedBy }
func (r *Report) Description() string        { return r.description }
func (r *Report) EstimatedCost() money.Money { return r.estimatedCost }
func (r *Report) ActualCost() *money.Money   { return r.actualCost }
func (r *Report) Status() Status             { return r.status }
func (r *Report) AdminNotes() string         { return r.adminNotes }
func (r *Report) ResolvedAt() *time.Time     { return r.resolvedAt }
func (r *Report) CreatedAt() time.Time       { return r.createdAt }
func (r *Report) UpdatedAt() time.Time       { return r.updatedAt }
