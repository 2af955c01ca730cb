// Package paygateway holds payment provider adapters.
package paygateway

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"car-rental-api/internal/pkg/errs"
	"car-rental-api/internal/usecase/commands"

	"github.com/google/uuid"
)

// Source tokens with these prefixes steer the sandbox outcome.
const (
	TokenDeclinePrefix = "tok_decline"
	TokenTimeoutPrefix = "tok_timeout"
)

// Sandbox is an in-process provider. Like a real provider it remembers
// settled charges by idempotency key and answers repeats with the stored
// result.
type Sandbox struct {
	mu      sync.Mutex
	settled map[string]commands.ChargeResult
}

func NewSandbox() *Sandbox {
	return &Sandbox{settled: map[string]commands.ChargeResult{}}
}

var _ commands.PaymentGateway = (*Sandbox)(nil)

func (s *Sandbox) Charge(ctx context.Context, req commands.ChargeRequest) (commands.ChargeResult, error) {
	if req.IdempotencyKey == "" {
		return commands.ChargeResult{}, errs.New("sandbox: idempotency key is required")
	}

	s.mu.Lock()
	if res, ok := s.settled[req.IdempotencyKey]; ok {
		s.mu.Unlock()
		return res, nil
	}
	s.mu.Unlock()

	if strings.HasPrefix(req.SourceToken, TokenTimeoutPrefix) {
		<-ctx.Done()
		slog.DebugContext(ctx, "sandbox charge timed out", "idempotency_key", req.IdempotencyKey)
		return commands.ChargeResult{}, errs.Wrap(commands.ErrGatewayTimeout, ctx.Err().Error())
	}

	res := commands.ChargeResult{TransactionID: "sbx_" + uuid.NewString()}
	switch {
	case strings.HasPrefix(req.SourceToken, TokenDeclinePrefix):
		res.FailureReason = "card_declined"
	case req.Amount.IsNegative():
		res.FailureReason = "invalid_amount"
	default:
		res.Succeeded = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.settled[req.IdempotencyKey]; ok {
		return prev, nil
	}
	s.settled[req.IdempotencyKey] = res
	return res, nil
}
