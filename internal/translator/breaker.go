package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// breakerBackend stops calling the wrapped backend after a run of
// consecutive failures, until the breaker's timeout elapses.
type breakerBackend struct {
	Backend
	cb *gobreaker.CircuitBreaker
}

// WithBreaker wraps b in a circuit breaker that opens after threshold
// consecutive failures. A zero threshold returns b unchanged.
func WithBreaker(b Backend, threshold uint32, timeout time.Duration) Backend {
	if threshold == 0 {
		return b
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    b.Name(),
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
	return &breakerBackend{Backend: b, cb: cb}
}

func (b *breakerBackend) Generate(ctx context.Context, req GenerateRequest) (*ServiceResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.Backend.Generate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%s circuit open: %w", b.Name(), err)
		}
		return &ServiceResult{ServiceName: b.Name(), Error: err.Error()}, err
	}
	return out.(*ServiceResult), nil
}
