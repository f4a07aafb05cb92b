// Package invoke wraps calls to the AI provider with timeout, bounded retry,
// and failure classification. It is the only path through which the provider
// is reached, so every feature gets the same discipline.
package invoke

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/jobreach/internal/model"
)

const (
	defaultBudget         = 60 * time.Second
	defaultAttemptTimeout = 30 * time.Second
	defaultMaxAttempts    = 3
	defaultBaseDelay      = 2 * time.Second
	minAttempts           = 2
)

// Func is one attempt of a call against the provider.
type Func func(ctx context.Context) (string, error)

// Failure is the terminal outcome of an exhausted or non-retryable invocation.
type Failure struct {
	Op        string
	Kind      model.FailureKind
	Attempts  int  // attempts actually made
	Retryable bool // whether the final error was of a retryable kind
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s after %d attempt(s): %v", f.Op, f.Kind, f.Attempts, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Options configure an Invoker. Zero values fall back to defaults.
type Options struct {
	Budget         time.Duration // overall wall-clock limit across all attempts
	AttemptTimeout time.Duration // per-attempt limit
	MaxAttempts    int           // total attempts, minimum 2
	BaseDelay      time.Duration // delay before the first retry, doubled each retry
}

// Invoker runs calls under a wall-clock budget with bounded retries.
type Invoker struct {
	budget         time.Duration
	attemptTimeout time.Duration
	maxAttempts    int
	baseDelay      time.Duration
	logger         *slog.Logger
}

// New creates an Invoker.
func New(opts Options, logger *slog.Logger) *Invoker {
	if opts.Budget <= 0 {
		opts.Budget = defaultBudget
	}
	if opts.AttemptTimeout <= 0 || opts.AttemptTimeout > opts.Budget {
		opts.AttemptTimeout = min(defaultAttemptTimeout, opts.Budget)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.MaxAttempts < minAttempts {
		opts.MaxAttempts = minAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	return &Invoker{
		budget:         opts.Budget,
		attemptTimeout: opts.AttemptTimeout,
		maxAttempts:    opts.MaxAttempts,
		baseDelay:      opts.BaseDelay,
		logger:         logger,
	}
}

// invocation states, kept explicit so attempt counting and budget accounting
// stay auditable.
type state int

const (
	stateAttempting state = iota
	stateRetryWait
	stateDone
)

// Invoke runs call until it succeeds, turns out to be non-retryable, exhausts
// the attempt budget, or exhausts the wall-clock budget, whichever comes
// first. On failure the returned error is a *Failure; callers must not retry
// further.
func (inv *Invoker) Invoke(ctx context.Context, op string, call Func) (string, error) {
	budgetCtx, cancel := context.WithTimeout(ctx, inv.budget)
	defer cancel()

	var (
		attempts int
		lastErr  error
	)

	for st := stateAttempting; st != stateDone; {
		switch st {
		case stateAttempting:
			attempts++
			result, err := inv.attempt(budgetCtx, call)
			if err == nil {
				return result, nil
			}
			lastErr = err

			switch {
			case !model.Retryable(err):
				st = stateDone
			case attempts >= inv.maxAttempts:
				st = stateDone
			case budgetCtx.Err() != nil:
				st = stateDone
			default:
				st = stateRetryWait
			}

		case stateRetryWait:
			delay := inv.backoffDelay(attempts, lastErr)
			inv.logger.Warn("retrying after transient error",
				"op", op,
				"attempt", attempts,
				"max_attempts", inv.maxAttempts,
				"delay", delay,
				"error", lastErr,
			)

			select {
			case <-budgetCtx.Done():
				// The budget ran out mid-wait; the last error stands.
				st = stateDone
			case <-time.After(delay):
				st = stateAttempting
			}
		}
	}

	return "", &Failure{
		Op:        op,
		Kind:      model.Classify(lastErr),
		Attempts:  attempts,
		Retryable: model.Retryable(lastErr),
		Err:       lastErr,
	}
}

// attempt runs one call bounded by the per-attempt timeout and whatever is
// left of the overall budget. Cancelling the context abandons the underlying
// network call rather than letting it finish in the background.
func (inv *Invoker) attempt(budgetCtx context.Context, call Func) (string, error) {
	attemptCtx, cancel := context.WithTimeout(budgetCtx, inv.attemptTimeout)
	defer cancel()

	result, err := call(attemptCtx)
	if err != nil {
		// Report the caller's cancellation as such, not as an attempt timeout.
		if budgetCtx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("attempt timed out after %v: %w", inv.attemptTimeout, err)
		}
		return "", err
	}
	return result, nil
}

// backoffDelay computes the delay before the next attempt with ±30% jitter.
// A Retry-After duration from the provider (HTTP 429) takes precedence.
func (inv *Invoker) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := inv.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}
