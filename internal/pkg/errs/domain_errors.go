package errs

import cr "github.com/cockroachdb/errors"

// Taxonomy kinds. Domain sentinels are marked with one of these so the
// transport layer can map them without knowing every domain package.
var (
	ErrNotFound          = cr.New("not found")
	ErrInvalidState      = cr.New("invalid state")
	ErrConflict          = cr.New("conflict")
	ErrValidation        = cr.New("validation error")
	ErrPromotionRejected = cr.New("promotion rejected")
	ErrPaymentFailed     = cr.New("payment failed")
	ErrUnauthorized      = cr.New("unauthorized")
)

// Kinds are checked in order, so errors marked twice resolve to the more
// specific one: Conflict over InvalidState, PromotionRejected over NotFound.
var kinds = []error{
	ErrPromotionRejected,
	ErrNotFound,
	ErrConflict,
	ErrInvalidState,
	ErrValidation,
	ErrPaymentFailed,
	ErrUnauthorized,
}

// Sentinel creates a new error marked with kind.
func Sentinel(msg string, kind error) error {
	return cr.Mark(cr.New(msg), kind)
}

var (
	// Idempotency errors
	ErrIdempotencyInProgress  = Sentinel("idempotency key is being processed", ErrConflict)
	ErrIdempotencyKeyMismatch = Sentinel("idempotency key reused with a different request", ErrValidation)

	ErrDatabaseOperationFailed = cr.New("database operation failed")
)
