package model

import "time"

// Listing is the unified representation of a job posting from any provider.
// Instances are built once by an adapter and never mutated afterwards.
type Listing struct {
	ID         string     `json:"id"`                    // provider-assigned ID, or a generated one
	Title      string     `json:"title"`                 // job title
	Company    string     `json:"company"`               // company name
	Location   string     `json:"location"`              // location string
	SalaryText string     `json:"salary_text,omitempty"` // human-readable salary, empty if unknown
	PostedAt   *time.Time `json:"posted_at,omitempty"`   // nullable (not all APIs provide this)
	ApplyLink  string     `json:"apply_link"`            // direct apply link; dedup identity after normalization
	JobType    string     `json:"job_type,omitempty"`    // full-time, contract, etc.
	Source     string     `json:"source"`                // provider name
}

// Completeness counts how many optional fields are populated. The aggregator
// uses it to pick the winner when two providers return the same listing.
func (l Listing) Completeness() int {
	n := 0
	if l.SalaryText != "" {
		n++
	}
	if l.PostedAt != nil {
		n++
	}
	if l.JobType != "" {
		n++
	}
	return n
}

// SearchQuery describes one job search. Immutable; drives both the cache
// fingerprint and every provider adapter.
type SearchQuery struct {
	Term     string `json:"term"`
	Location string `json:"location,omitempty"`
	JobType  string `json:"job_type,omitempty"` // "full-time", "part-time", "contract", "internship" or empty
	Page     int    `json:"page"`               // 1-based
	PerPage  int    `json:"per_page"`
}

// ProviderError is a non-fatal per-provider failure recorded on a SearchResult.
type ProviderError struct {
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

// SearchResult is the merged, deduplicated, paginated outcome of one search.
type SearchResult struct {
	Listings       []Listing       `json:"listings"`
	Page           int             `json:"page"`
	HasMore        bool            `json:"has_more"`
	ProviderErrors []ProviderError `json:"provider_errors,omitempty"`
}
