package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrForbidden means the bot may not post to the target. It is never retried.
var ErrForbidden = errors.New("bot is not allowed to post to the target chat")

// RateLimitedError asks the caller to wait RetryAfter before sending again.
type RateLimitedError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
}

func (e *RateLimitedError) Unwrap() error { return e.Err }

// TransientError is a provider failure that may succeed on retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Failure reasons, used as metric labels and log attributes.
const (
	ReasonRateLimited = "rate_limited"
	ReasonForbidden   = "forbidden"
	ReasonTransient   = "transient"
	ReasonCanceled    = "canceled"
	ReasonPermanent   = "permanent"
)

// Reason classifies a send error.
func Reason(err error) string {
	var rl *RateLimitedError
	var tr *TransientError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.Is(err, ErrForbidden):
		return ReasonForbidden
	case errors.As(err, &rl):
		return ReasonRateLimited
	case errors.As(err, &tr):
		return ReasonTransient
	default:
		return ReasonPermanent
	}
}
