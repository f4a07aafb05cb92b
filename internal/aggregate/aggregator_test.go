package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/amishk599/jobreach/internal/adapter"
	"github.com/amishk599/jobreach/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider returns fixed listings, an error, or blocks until the context
// ends.
type fakeProvider struct {
	name     string
	listings []model.Listing
	err      error
	block    bool
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, _ model.SearchQuery) ([]model.Listing, error) {
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.listings, nil
}

func listing(source, id string) model.Listing {
	return model.Listing{
		ID:        id,
		Title:     "Engineer " + id,
		Company:   "Co " + id,
		ApplyLink: fmt.Sprintf("https://example.com/%s/%s", source, id),
		Source:    source,
	}
}

func newTestAggregator(budget time.Duration, fakes ...*fakeProvider) *Aggregator {
	providers := make([]adapter.Provider, len(fakes))
	for i, f := range fakes {
		providers[i] = f
	}
	return New(providers, budget, discardLogger())
}

func TestSearch_NoProvidersConfigured(t *testing.T) {
	agg := newTestAggregator(time.Second)
	_, err := agg.Search(context.Background(), model.SearchQuery{Term: "go"})
	if !errors.Is(err, model.ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestSearch_AllProvidersFailed(t *testing.T) {
	agg := newTestAggregator(time.Second,
		&fakeProvider{name: "a", err: errors.New("down")},
		&fakeProvider{name: "b", err: errors.New("also down")},
	)

	result, err := agg.Search(context.Background(), model.SearchQuery{Term: "go"})
	if !errors.Is(err, model.ErrAllProvidersFailed) {
		t.Fatalf("expected ErrAllProvidersFailed, got %v", err)
	}
	if len(result.ProviderErrors) != 2 {
		t.Fatalf("expected 2 provider errors, got %d", len(result.ProviderErrors))
	}
}

func TestSearch_PartialFailureIsNotFatal(t *testing.T) {
	agg := newTestAggregator(200*time.Millisecond,
		&fakeProvider{name: "a", listings: []model.Listing{listing("a", "1")}},
		&fakeProvider{name: "b", block: true}, // hangs until the budget expires
		&fakeProvider{name: "c", listings: []model.Listing{listing("c", "2")}},
	)

	result, err := agg.Search(context.Background(), model.SearchQuery{Term: "go"})
	if err != nil {
		t.Fatalf("partial failure must not be fatal, got %v", err)
	}
	if len(result.Listings) != 2 {
		t.Fatalf("expected 2 listings from healthy providers, got %d", len(result.Listings))
	}
	if len(result.ProviderErrors) != 1 || result.ProviderErrors[0].Provider != "b" {
		t.Fatalf("expected one provider error for b, got %+v", result.ProviderErrors)
	}
}

func TestSearch_ZeroMatchesIsNotAnError(t *testing.T) {
	agg := newTestAggregator(time.Second,
		&fakeProvider{name: "a"},
		&fakeProvider{name: "b"},
	)

	result, err := agg.Search(context.Background(), model.SearchQuery{Term: "underwater basket weaving architect"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Listings) != 0 || result.HasMore {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestSearch_InterleavesByPriority(t *testing.T) {
	agg := newTestAggregator(time.Second,
		&fakeProvider{name: "a", listings: []model.Listing{listing("a", "1"), listing("a", "2")}},
		&fakeProvider{name: "b", listings: []model.Listing{listing("b", "1"), listing("b", "2")}},
	)

	result, err := agg.Search(context.Background(), model.SearchQuery{Term: "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, l := range result.Listings {
		got = append(got, l.Source+"/"+l.ID)
	}
	want := []string{"a/1", "b/1", "a/2", "b/2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order %v, want %v", got, want)
	}
}

func TestSearch_DeduplicatesAcrossProviders(t *testing.T) {
	posted := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	fromA := model.Listing{
		ID:        "a1",
		Title:     "Backend Engineer",
		Company:   "Acme",
		ApplyLink: "https://jobs.example.com/backend-42?utm_source=a",
		Source:    "a",
	}
	fromB := model.Listing{
		ID:         "b7",
		Title:      "Backend Engineer",
		Company:    "Acme",
		ApplyLink:  "https://jobs.example.com/backend-42/",
		SalaryText: "$120,000 - $150,000 per year",
		PostedAt:   &posted,
		JobType:    "full-time",
		Source:     "b",
	}

	agg := newTestAggregator(time.Second,
		&fakeProvider{name: "a", listings: []model.Listing{fromA}},
		&fakeProvider{name: "b", listings: []model.Listing{fromB}},
	)

	result, err := agg.Search(context.Background(), model.SearchQuery{Term: "backend"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Listings) != 1 {
		t.Fatalf("expected 1 deduplicated listing, got %d", len(result.Listings))
	}

	merged := result.Listings[0]
	// The more complete record wins, carrying the union of optional fields.
	if merged.SalaryText != fromB.SalaryText {
		t.Errorf("expected salary from the more complete record, got %q", merged.SalaryText)
	}
	if merged.PostedAt == nil || !merged.PostedAt.Equal(posted) {
		t.Errorf("expected posted date carried over, got %v", merged.PostedAt)
	}
	if merged.JobType != "full-time" {
		t.Errorf("expected job type carried over, got %q", merged.JobType)
	}
}

func TestSearch_DedupTieBreaksByProviderPriority(t *testing.T) {
	fromA := model.Listing{ID: "a1", Title: "From A", ApplyLink: "https://jobs.example.com/1", Source: "a"}
	fromB := model.Listing{ID: "b1", Title: "From B", ApplyLink: "https://jobs.example.com/1", Source: "b"}

	agg := newTestAggregator(time.Second,
		&fakeProvider{name: "a", listings: []model.Listing{fromA}},
		&fakeProvider{name: "b", listings: []model.Listing{fromB}},
	)

	result, err := agg.Search(context.Background(), model.SearchQuery{Term: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Listings) != 1 || result.Listings[0].Source != "a" {
		t.Fatalf("expected the higher-priority provider to win the tie, got %+v", result.Listings)
	}
}

func TestSearch_Pagination(t *testing.T) {
	var listings []model.Listing
	for i := 0; i < 25; i++ {
		listings = append(listings, listing("a", fmt.Sprintf("%02d", i)))
	}
	prov := &fakeProvider{name: "a", listings: listings}

	page1, err := newTestAggregator(time.Second, prov).Search(context.Background(),
		model.SearchQuery{Term: "go", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page1.Listings) != 10 || !page1.HasMore {
		t.Fatalf("page 1: expected 10 listings and HasMore, got %d / %v", len(page1.Listings), page1.HasMore)
	}

	page3, err := newTestAggregator(time.Second, prov).Search(context.Background(),
		model.SearchQuery{Term: "go", Page: 3, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page3.Listings) != 5 || page3.HasMore {
		t.Fatalf("page 3: expected 5 listings and no HasMore, got %d / %v", len(page3.Listings), page3.HasMore)
	}

	page4, err := newTestAggregator(time.Second, prov).Search(context.Background(),
		model.SearchQuery{Term: "go", Page: 4, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page4.Listings) != 0 || page4.HasMore {
		t.Fatalf("page 4: expected empty page, got %d / %v", len(page4.Listings), page4.HasMore)
	}
}

func TestSearch_Idempotent(t *testing.T) {
	agg := newTestAggregator(time.Second,
		&fakeProvider{name: "a", listings: []model.Listing{listing("a", "1"), listing("a", "2")}},
		&fakeProvider{name: "b", listings: []model.Listing{listing("b", "1")}},
	)
	query := model.SearchQuery{Term: "go", Page: 1, PerPage: 10}

	first, err := agg.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := agg.Search(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical queries produced different results:\n%+v\n%+v", first, second)
	}
}
