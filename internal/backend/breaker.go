package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerClient wraps a Client in a circuit breaker. After maxFailures
// consecutive failures calls fail fast with ErrCircuitOpen until openTimeout
// has passed. Calls are never retried.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps next.
func NewBreakerClient(next Client, maxFailures uint32, openTimeout time.Duration, logger *zap.SugaredLogger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if maxFailures == 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state changed", "backend", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerClient{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Name returns the wrapped backend name
func (b *BreakerClient) Name() string {
	return b.next.Name()
}

// State reports the breaker state ("closed", "half-open" or "open").
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}

// countsAsHealthy keeps client-side problems from tripping the breaker:
// rejected input (4xx) and calls the caller cancelled.
func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode >= 400 && remoteErr.StatusCode < 500
	}
	return false
}

func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return zero, err
	}
	return res.(T), nil
}

// Translate implements Client.
func (b *BreakerClient) Translate(ctx context.Context, text string) (string, error) {
	return execute(b, func() (string, error) { return b.next.Translate(ctx, text) })
}

// POS implements Client.
func (b *BreakerClient) POS(ctx context.Context, text string) ([]POSTag, error) {
	return execute(b, func() ([]POSTag, error) { return b.next.POS(ctx, text) })
}

// TranslateKeywords implements Client.
func (b *BreakerClient) TranslateKeywords(ctx context.Context, text string) ([]Keyword, error) {
	return execute(b, func() ([]Keyword, error) { return b.next.TranslateKeywords(ctx, text) })
}

// ProcessAudio implements Client.
func (b *BreakerClient) ProcessAudio(ctx context.Context, job AudioJob) (TranscriptResult, error) {
	return execute(b, func() (TranscriptResult, error) { return b.next.ProcessAudio(ctx, job) })
}

// TranslateMultiple implements Client.
func (b *BreakerClient) TranslateMultiple(ctx context.Context, text1, text2, direction string) (MultiTranslationResult, error) {
	return execute(b, func() (MultiTranslationResult, error) {
		return b.next.TranslateMultiple(ctx, text1, text2, direction)
	})
}

// ProcessText implements Client.
func (b *BreakerClient) ProcessText(ctx context.Context, text string) (TextAnalysis, error) {
	return execute(b, func() (TextAnalysis, error) { return b.next.ProcessText(ctx, text) })
}
