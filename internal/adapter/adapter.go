// Package adapter translates external job-listing providers into the unified
// listing model. Each provider lives in its own file and fails in isolation.
package adapter

import (
	"context"
	"strconv"
	"time"

	"github.com/amishk599/jobreach/internal/model"
)

// DefaultTimeout bounds a single provider request. It is deliberately shorter
// than the aggregator's overall search budget so one hung provider cannot
// starve the others.
const DefaultTimeout = 10 * time.Second

// maxProviderResults caps how many raw listings one provider contributes to a
// search before dedup and pagination.
const maxProviderResults = 50

// Provider searches one external job-listing source and normalizes its
// response. Implementations apply their own request timeout inside Search.
type Provider interface {
	Name() string
	Search(ctx context.Context, query model.SearchQuery) ([]model.Listing, error)
}

// withTimeout bounds ctx by the adapter's request timeout.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
