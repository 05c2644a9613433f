package gen

import (
	"context"
)

// Generator produces text for a single prompt against a remote
// text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TransientError marks an error as retryable.
//
// The retry decorator backs off and retries transient failures rather than
// surfacing them to callers immediately.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e == nil || e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RateLimitError marks a backend rate-limit response (HTTP 429). Rate limits
// get backoff treatment distinct from other transient failures: the retry
// decorator sleeps on them even when no attempts remain.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	if e == nil || e.Err == nil {
		return "rate limited"
	}
	return e.Err.Error()
}

func (e *RateLimitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
