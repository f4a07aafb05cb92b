package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies an invocation failure for retry decisions and
// caller-facing reporting.
type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureRateLimited FailureKind = "rate_limited"
	FailureUpstream    FailureKind = "upstream_error" // provider-side 5xx
	FailureBadRequest  FailureKind = "bad_request"    // 4xx other than 429
	FailureSchema      FailureKind = "schema_mismatch"
)

// ErrNoProviders is returned by a search when no job provider has credentials
// configured. Distinct from every provider failing.
var ErrNoProviders = errors.New("no job providers configured")

// ErrAllProvidersFailed is returned when every configured provider errored.
// An empty result from healthy providers is not an error.
var ErrAllProvidersFailed = errors.New("all job providers failed")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// SchemaError marks a response body that could not be parsed into the
// expected shape. Always terminal: retrying the same request cannot help.
type SchemaError struct {
	Source string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: response schema mismatch: %v", e.Source, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Classify maps an error onto the failure taxonomy.
func Classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return FailureSchema
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 429:
			return FailureRateLimited
		case httpErr.StatusCode >= 500:
			return FailureUpstream
		default:
			return FailureBadRequest
		}
	}
	// Network, DNS, connection resets: transient upstream trouble.
	return FailureUpstream
}

// Retryable reports whether an error is worth retrying. Explicit cancellation
// is never retried; neither are 4xx (other than 429) or schema mismatches.
// A deadline on a single attempt is retryable; the invoker separately checks
// whether the overall budget still has room.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch Classify(err) {
	case FailureBadRequest, FailureSchema:
		return false
	}
	return true
}
