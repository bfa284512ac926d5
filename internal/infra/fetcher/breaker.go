package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ForgeClient/internal/domain"
	"github.com/sony/gobreaker"
)

// BreakerFetcher fails fast once the wrapped fetcher has failed too many times in a row.
// It does not retry: a call either reaches the inner fetcher once or is rejected.
type BreakerFetcher struct {
	inner domain.Fetcher
	cb    *gobreaker.CircuitBreaker
}

var _ domain.Fetcher = (*BreakerFetcher)(nil)

func NewBreakerFetcher(name string, inner domain.Fetcher, maxFailures uint32) *BreakerFetcher {
	if maxFailures == 0 {
		maxFailures = 3
	}
	cbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A 404 is a caller error and does not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || domain.IsNotFound(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
		},
	}
	return &BreakerFetcher{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(cbSettings),
	}
}

func (b *BreakerFetcher) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Fetch(ctx, path)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("circuit breaker rejected %s: %w: %w", path, domain.ErrTransport, err)
		}
		return nil, err
	}
	return out.(json.RawMessage), nil
}

// State exposes the breaker state for health reporting.
func (b *BreakerFetcher) State() gobreaker.State {
	return b.cb.State()
}
