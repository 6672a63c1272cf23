package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/alert/domain"
	"github.com/reshetovitsme/keyword-monitor/internal/shared/metrics"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxAttempts   = 5
	DefaultRetryDelay    = 10 * time.Second
	DefaultRatePerMinute = 20
)

// Sender delivers an HTML message to a chat. Implementations translate
// provider errors into the alert domain errors.
type Sender interface {
	Send(ctx context.Context, chatID int64, html string) error
}

// Config tunes retry and pacing behaviour.
type Config struct {
	MaxAttempts   int
	RetryDelay    time.Duration
	RatePerMinute int
}

// Notifier sends alerts with provider-aware retry and per-target pacing.
type Notifier struct {
	sender  Sender
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSleep replaces the context-aware sleep, used by tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(n *Notifier) {
		n.sleep = sleep
	}
}

// New creates a new notifier
func New(sender Sender, cfg Config, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Notifier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	n := &Notifier{
		sender:   sender,
		cfg:      cfg,
		logger:   logger.With("component", "notifier"),
		metrics:  m,
		sleep:    sleepContext,
		limiters: make(map[int64]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify delivers html to targetID.
//
// A rate-limit reply is waited out exactly once and the retry's outcome is
// final. Forbidden is returned immediately. Transient failures are retried
// with a fixed delay up to MaxAttempts. Anything else is not retried.
func (n *Notifier) Notify(ctx context.Context, targetID int64, html string) error {
	if err := n.pace(ctx, targetID); err != nil {
		return oops.With("target_id", targetID, "context", "waiting for send slot").Wrap(err)
	}

	for attempt := 1; ; attempt++ {
		err := n.sender.Send(ctx, targetID, html)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return oops.With("target_id", targetID, "attempt", attempt).Wrap(err)
		}

		var rl *domain.RateLimitedError
		var tr *domain.TransientError
		switch {
		case errors.As(err, &rl):
			return n.retryAfterRateLimit(ctx, targetID, html, rl)

		case errors.Is(err, domain.ErrForbidden):
			n.logger.Error("Bot is not allowed to post to target", "target_id", targetID, "error", err)
			return oops.With("target_id", targetID).Wrap(err)

		case errors.As(err, &tr):
			if attempt >= n.cfg.MaxAttempts {
				n.logger.Error("Giving up after transient failures", "target_id", targetID, "attempts", attempt, "error", err)
				return oops.With("target_id", targetID, "attempts", attempt).Wrap(err)
			}
			n.logger.Warn("Transient send failure, retrying",
				"target_id", targetID,
				"attempt", attempt,
				"max_attempts", n.cfg.MaxAttempts,
				"retry_in", n.cfg.RetryDelay,
				"error", err,
			)
			n.metrics.Retried()
			if err := n.sleep(ctx, n.cfg.RetryDelay); err != nil {
				return oops.With("target_id", targetID, "context", "waiting to retry").Wrap(err)
			}

		default:
			return oops.With("target_id", targetID).Wrap(err)
		}
	}
}

func (n *Notifier) retryAfterRateLimit(ctx context.Context, targetID int64, html string, rl *domain.RateLimitedError) error {
	n.logger.Warn("Rate limited by provider, pausing", "target_id", targetID, "retry_after", rl.RetryAfter)
	n.metrics.RateLimited()

	if err := n.sleep(ctx, rl.RetryAfter); err != nil {
		return oops.With("target_id", targetID, "context", "waiting out rate limit").Wrap(err)
	}

	if err := n.sender.Send(ctx, targetID, html); err != nil {
		return oops.With("target_id", targetID, "context", "retry after rate limit").Wrap(err)
	}
	return nil
}

// pace blocks until targetID may receive another message.
func (n *Notifier) pace(ctx context.Context, targetID int64) error {
	limiter := n.limiterFor(targetID)
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (n *Notifier) limiterFor(targetID int64) *rate.Limiter {
	if n.cfg.RatePerMinute <= 0 {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	l, ok := n.limiters[targetID]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n.cfg.RatePerMinute)), n.cfg.RatePerMinute)
		n.limiters[targetID] = l
	}
	return l
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
