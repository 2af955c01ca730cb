package commands

import (
	"context"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/pkg/money"
)

//go:generate mockgen -source=ports.go -destination=../../testutil/mock/commandsmock/ports.go -package=commandsmock

// ErrGatewayTimeout is returned by gateways that gave up waiting for the
// provider. The charge may or may not have happened.
var ErrGatewayTimeout = errs.New("payment gateway timed out")

type ChargeRequest struct {
	Amount         money.Money
	SourceToken    string
	IdempotencyKey string
}

type ChargeResult struct {
	Succeeded     bool
	TransactionID string
	FailureReason string
}

// PaymentGateway charges money at an external provider. Implementations
// must return the original result when an idempotency key is reused.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
