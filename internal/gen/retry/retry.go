package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shpitdev/syllabus-catalog/internal/gen"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Options struct {
	// MaxAttempts is the total attempt ceiling per call, rate-limited
	// attempts included.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff: base * 2^attempt, no jitter.
	BaseDelay time.Duration

	// RequestTimeout bounds each individual attempt.
	RequestTimeout time.Duration

	// RateLimitRPS is a global limit across all concurrent calls through
	// this client. Set to <=0 to disable.
	RateLimitRPS float64
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 1 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	return o
}

// Client decorates a gen.Generator with bounded retries.
//
// Every failure mode is absorbed here: after the attempt ceiling the caller
// gets an empty string plus the last error, never a panic or a raised
// transport failure. Callers are expected to degrade, not propagate.
type Client struct {
	next    gen.Generator
	opts    Options
	limiter *rate.Limiter
	log     *logrus.Entry

	sleep func(ctx context.Context, d time.Duration) error
}

func New(next gen.Generator, log *logrus.Entry, opts Options) *Client {
	opts = opts.withDefaults()
	c := &Client{
		next:  next,
		opts:  opts,
		log:   log,
		sleep: sleepContext,
	}
	if opts.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}
	return c
}

// Generate retries the wrapped generator up to MaxAttempts times.
//
// A rate-limit response consumes an attempt and always backs off, even after
// the final attempt. Any other error backs off only when attempts remain.
// Exhaustion returns ("", lastErr).
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.BaseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = c.opts.BaseDelay << uint(c.opts.MaxAttempts)
	bo.MaxElapsedTime = 0
	bo.Reset()

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
		text, err := c.next.Generate(reqCtx, prompt)
		cancel()
		if err == nil {
			return text, nil
		}
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err

		var rle *gen.RateLimitError
		if errors.As(err, &rle) {
			delay := bo.NextBackOff()
			c.log.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"delay":   delay.String(),
			}).Warn("generation rate limited, backing off")
			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}
			continue
		}

		c.log.WithField("attempt", attempt+1).WithError(err).Error("generation attempt failed")
		if attempt < c.opts.MaxAttempts-1 {
			if err := c.sleep(ctx, bo.NextBackOff()); err != nil {
				return "", err
			}
		}
	}
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	}
}
