package invoke

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/jobreach/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastInvoker(maxAttempts int) *Invoker {
	return New(Options{
		Budget:      5 * time.Second,
		MaxAttempts: maxAttempts,
		BaseDelay:   5 * time.Millisecond,
	}, discardLogger())
}

// flaky fails with err until attempt succeedOn, then returns "ok".
func flaky(succeedOn int, err error) (Func, *int) {
	calls := new(int)
	return func(_ context.Context) (string, error) {
		*calls++
		if *calls < succeedOn {
			return "", err
		}
		return "ok", nil
	}, calls
}

func TestInvoke_SucceedsFirstAttempt(t *testing.T) {
	call, calls := flaky(1, nil)
	got, err := fastInvoker(3).Invoke(context.Background(), "analyze", call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected result %q", got)
	}
	if *calls != 1 {
		t.Fatalf("expected 1 call, got %d", *calls)
	}
}

func TestInvoke_RetriesTransientThenSucceeds(t *testing.T) {
	transient := &model.HTTPError{StatusCode: 503, Err: errors.New("unavailable")}
	call, calls := flaky(3, transient)

	got, err := fastInvoker(3).Invoke(context.Background(), "analyze", call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected result %q", got)
	}
	if *calls != 3 {
		t.Fatalf("expected 3 calls, got %d", *calls)
	}
}

func TestInvoke_ExhaustsAttemptBudget(t *testing.T) {
	transient := &model.HTTPError{StatusCode: 503, Err: errors.New("unavailable")}
	call, calls := flaky(3, transient)

	_, err := fastInvoker(2).Invoke(context.Background(), "analyze", call)
	if err == nil {
		t.Fatal("expected error")
	}
	if *calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", *calls)
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if failure.Attempts != 2 {
		t.Fatalf("expected 2 attempts recorded, got %d", failure.Attempts)
	}
	if failure.Kind != model.FailureUpstream {
		t.Fatalf("expected upstream failure kind, got %s", failure.Kind)
	}
	if !failure.Retryable {
		t.Fatal("a 503 failure should be marked retryable")
	}
}

func TestInvoke_TerminalErrorNotRetried(t *testing.T) {
	terminal := &model.HTTPError{StatusCode: 400, Err: errors.New("bad request")}
	call, calls := flaky(99, terminal)

	_, err := fastInvoker(3).Invoke(context.Background(), "analyze", call)
	if err == nil {
		t.Fatal("expected error")
	}
	if *calls != 1 {
		t.Fatalf("terminal error must not be retried, got %d calls", *calls)
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if failure.Kind != model.FailureBadRequest {
		t.Fatalf("expected bad_request kind, got %s", failure.Kind)
	}
	if failure.Retryable {
		t.Fatal("a 400 failure must not be marked retryable")
	}
}

func TestInvoke_SchemaMismatchIsTerminal(t *testing.T) {
	schemaErr := &model.SchemaError{Source: "groq", Err: errors.New("truncated json")}
	call, calls := flaky(99, schemaErr)

	_, err := fastInvoker(3).Invoke(context.Background(), "match", call)
	if err == nil {
		t.Fatal("expected error")
	}
	if *calls != 1 {
		t.Fatalf("schema mismatch must not be retried, got %d calls", *calls)
	}
	var failure *Failure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if failure.Kind != model.FailureSchema {
		t.Fatalf("expected schema kind, got %s", failure.Kind)
	}
}

func TestInvoke_RateLimitClassified(t *testing.T) {
	limited := &model.HTTPError{StatusCode: 429, RetryAfter: time.Millisecond, Err: errors.New("slow down")}
	call, _ := flaky(2, limited)

	got, err := fastInvoker(3).Invoke(context.Background(), "analyze", call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestInvoke_BudgetBoundsRetries(t *testing.T) {
	// A large base delay against a tiny budget: the invoker must give up
	// without sleeping past the budget, well before max attempts.
	inv := New(Options{
		Budget:      50 * time.Millisecond,
		MaxAttempts: 10,
		BaseDelay:   time.Second,
	}, discardLogger())

	transient := &model.HTTPError{StatusCode: 503, Err: errors.New("unavailable")}
	call, calls := flaky(99, transient)

	start := time.Now()
	_, err := inv.Invoke(context.Background(), "analyze", call)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error")
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("invocation overran its budget: took %v", elapsed)
	}
	if *calls >= 10 {
		t.Fatalf("expected the budget to cut retries short, got %d calls", *calls)
	}
}

func TestInvoke_CallerCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	call, calls := flaky(99, errors.New("never reached"))
	_, err := fastInvoker(3).Invoke(ctx, "analyze", func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return call(ctx)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if *calls != 0 {
		t.Fatalf("expected no upstream calls after cancellation, got %d", *calls)
	}
}
