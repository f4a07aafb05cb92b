// Package aggregate fans one search out across every configured job provider
// and merges their output into a single deduplicated, ranked, paginated
// result. Providers fail in isolation: one timing out or erroring never
// aborts the overall search.
package aggregate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/amishk599/jobreach/internal/adapter"
	"github.com/amishk599/jobreach/internal/model"
)

const (
	defaultSearchBudget = 25 * time.Second
	defaultPerPage      = 10
	maxPerPage          = 50
)

// Aggregator orchestrates concurrent provider searches. Provider order is the
// configured priority order: earlier providers win rank interleaving and
// field conflicts.
type Aggregator struct {
	providers []adapter.Provider
	budget    time.Duration
	logger    *slog.Logger
}

// New creates an Aggregator over providers in priority order.
func New(providers []adapter.Provider, budget time.Duration, logger *slog.Logger) *Aggregator {
	if budget <= 0 {
		budget = defaultSearchBudget
	}
	return &Aggregator{providers: providers, budget: budget, logger: logger}
}

// outcome is one provider's result, indexed by its priority position so the
// merge below is deterministic regardless of completion order.
type outcome struct {
	listings []model.Listing
	err      error
}

// Search fans the query out to every provider, waits for all of them within
// the search budget, and merges the results. Re-issuing an identical query
// against unchanged provider state yields an identical result.
//
// With zero providers configured it returns model.ErrNoProviders; when every
// configured provider fails it returns the per-provider errors alongside
// model.ErrAllProvidersFailed. Partial failure is not an error.
func (a *Aggregator) Search(ctx context.Context, query model.SearchQuery) (model.SearchResult, error) {
	query = normalizeQuery(query)

	if len(a.providers) == 0 {
		return model.SearchResult{Page: query.Page}, model.ErrNoProviders
	}

	ctx, cancel := context.WithTimeout(ctx, a.budget)
	defer cancel()

	outcomes := make([]outcome, len(a.providers))
	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p adapter.Provider) {
			defer wg.Done()
			listings, err := p.Search(ctx, query)
			outcomes[i] = outcome{listings: listings, err: err}
		}(i, p)
	}
	wg.Wait()

	result := model.SearchResult{Page: query.Page}
	succeeded := 0
	for i, out := range outcomes {
		if out.err != nil {
			a.logger.Warn("provider search failed",
				"provider", a.providers[i].Name(),
				"error", out.err,
			)
			result.ProviderErrors = append(result.ProviderErrors, model.ProviderError{
				Provider: a.providers[i].Name(),
				Message:  out.err.Error(),
			})
			continue
		}
		succeeded++
	}

	if succeeded == 0 {
		return result, model.ErrAllProvidersFailed
	}

	deduped := dedupe(interleave(outcomes))
	result.Listings, result.HasMore = paginate(deduped, query.Page, query.PerPage)
	return result, nil
}

// normalizeQuery fills pagination defaults.
func normalizeQuery(q model.SearchQuery) model.SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

// ranked pairs a listing with the priority of the provider it came from.
type ranked struct {
	listing  model.Listing
	priority int
}

// interleave merges provider outputs round-robin by priority, preserving each
// provider's original relative order: first result of each provider in
// priority order, then the second of each, and so on.
func interleave(outcomes []outcome) []ranked {
	total := 0
	longest := 0
	for _, out := range outcomes {
		total += len(out.listings)
		if len(out.listings) > longest {
			longest = len(out.listings)
		}
	}

	merged := make([]ranked, 0, total)
	for pos := 0; pos < longest; pos++ {
		for priority, out := range outcomes {
			if out.err != nil || pos >= len(out.listings) {
				continue
			}
			merged = append(merged, ranked{listing: out.listings[pos], priority: priority})
		}
	}
	return merged
}

// dedupe collapses listings sharing a normalized apply link. The merged
// record keeps the rank position of the first occurrence; its fields come
// from the most complete duplicate, with gaps filled from the others and
// conflicts resolved in favor of the higher-priority provider.
func dedupe(merged []ranked) []model.Listing {
	index := make(map[string]int, len(merged))
	out := make([]ranked, 0, len(merged))

	for _, r := range merged {
		key := NormalizeApplyLink(r.listing.ApplyLink)
		if at, ok := index[key]; ok {
			out[at] = mergeDuplicate(out[at], r)
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}

	listings := make([]model.Listing, len(out))
	for i, r := range out {
		listings[i] = r.listing
	}
	return listings
}

// mergeDuplicate combines two records of the same posting. The more complete
// one provides the base; on equal completeness the higher-priority provider
// wins. Optional fields missing from the base are taken from the other.
func mergeDuplicate(a, b ranked) ranked {
	base, other := a, b
	if b.listing.Completeness() > a.listing.Completeness() ||
		(b.listing.Completeness() == a.listing.Completeness() && b.priority < a.priority) {
		base, other = b, a
	}

	if base.listing.SalaryText == "" {
		base.listing.SalaryText = other.listing.SalaryText
	}
	if base.listing.PostedAt == nil {
		base.listing.PostedAt = other.listing.PostedAt
	}
	if base.listing.JobType == "" {
		base.listing.JobType = other.listing.JobType
	}
	if base.priority > other.priority {
		base.priority = other.priority
	}
	return base
}

// paginate slices the deduplicated sequence for the requested page.
func paginate(listings []model.Listing, page, perPage int) ([]model.Listing, bool) {
	start := (page - 1) * perPage
	if start >= len(listings) {
		return []model.Listing{}, false
	}
	end := start + perPage
	if end > len(listings) {
		end = len(listings)
	}
	return listings[start:end], end < len(listings)
}
