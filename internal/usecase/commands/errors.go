package commands

import (
	"car-rental-api/internal/infra"
	"car-rental-api/internal/pkg/errs"
)

var (
	ErrAdminOnly             = errs.Sentinel("operation requires an admin", errs.ErrUnauthorized)
	ErrMissingSourceToken    = errs.Sentinel("payment source token is required", errs.ErrValidation)
	ErrInvalidAttempt        = errs.Sentinel("payment attempt is out of sequence", errs.ErrValidation)
	ErrAttemptAlreadyFailed  = errs.Sentinel("payment attempt already failed; start a new attempt", errs.ErrInvalidState)
	ErrAttemptOutstanding    = errs.Sentinel("an earlier payment attempt is still awaiting its outcome; retry it instead", errs.ErrInvalidState)
	ErrPaymentMismatch       = errs.Sentinel("payment does not belong to this booking", errs.ErrValidation)
	ErrPaymentDeclined       = errs.Sentinel("payment was declined", errs.ErrPaymentFailed)
	ErrPaymentOutcomeUnknown = errs.New("payment outcome unknown; booking stays pending until confirmed")
)

// notFoundAs replaces a repository not-found error with the domain
// sentinel and passes any other error through.
func notFoundAs(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return sentinel
	}
	return err
}
