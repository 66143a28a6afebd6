package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Generator is the narrow contract to an LLM provider.
type Generator interface {
	// GenerateJSON asks for a JSON-object-constrained completion and returns it unparsed.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// GenerateText asks for a free-form completion.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// rateSlots is a token bucket bounding concurrent provider calls.
type rateSlots chan struct{}

func newRateSlots(n int) rateSlots {
	if n < 1 {
		n = 1
	}
	slots := make(rateSlots, n)
	for i := 0; i < n; i++ {
		slots <- struct{}{}
	}
	return slots
}

// acquire blocks until a slot is available or ctx is done.
func (s rateSlots) acquire(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return newError(ErrProvider, "AI provider is busy, please try again", ctx.Err())
	}
}

func (s rateSlots) release() {
	s <- struct{}{}
}

// withCallTimeout bounds one provider call. A non-positive timeout leaves ctx unchanged.
func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func providerError(ctx context.Context, provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(ErrProvider, "AI generation timed out", err)
	}
	return newError(ErrProvider, "AI generation failed", fmt.Errorf("%s: %w", provider, err))
}
