package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobreach/internal/model"
)

const adzunaBaseURL = "https://api.adzuna.com"

// adzunaCategories maps the normalized job type filter to Adzuna's category
// parameter.
var adzunaCategories = map[string]string{
	"full-time":  "permanent",
	"part-time":  "part_time",
	"contract":   "contract",
	"internship": "graduate",
}

// adzunaJob represents a single result in the Adzuna API response.
type adzunaJob struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Company      struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	ContractType string  `json:"contract_type"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	Created      string  `json:"created"`
	RedirectURL  string  `json:"redirect_url"`
}

// adzunaResponse is the top-level Adzuna search response.
type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

// AdzunaAdapter queries the Adzuna job search API.
type AdzunaAdapter struct {
	baseURL string
	appID   string
	appKey  string
	timeout time.Duration
	client  *http.Client
}

// NewAdzunaAdapter creates an adapter for the Adzuna API.
func NewAdzunaAdapter(appID, appKey string, timeout time.Duration, client *http.Client) *AdzunaAdapter {
	return &AdzunaAdapter{
		baseURL: adzunaBaseURL,
		appID:   appID,
		appKey:  appKey,
		timeout: timeout,
		client:  client,
	}
}

// Name implements Provider.
func (a *AdzunaAdapter) Name() string { return "adzuna" }

// Search queries Adzuna and normalizes the results.
func (a *AdzunaAdapter) Search(ctx context.Context, query model.SearchQuery) ([]model.Listing, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	country := countryForLocation(query.Location)
	endpoint := fmt.Sprintf("%s/v1/api/jobs/%s/search/1", a.baseURL, country)

	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("what", query.Term)
	params.Set("results_per_page", strconv.Itoa(maxProviderResults))
	params.Set("sort_by", "date")
	if query.Location != "" {
		params.Set("where", query.Location)
	}
	if cat, ok := adzunaCategories[strings.ToLower(query.JobType)]; ok {
		params.Set("category", cat)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("adzuna search"),
		}
	}

	var azResp adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&azResp); err != nil {
		return nil, &model.SchemaError{Source: "adzuna", Err: err}
	}

	listings := make([]model.Listing, 0, len(azResp.Results))
	for _, j := range azResp.Results {
		if j.RedirectURL == "" {
			continue
		}

		listing := model.Listing{
			ID:         j.ID,
			Title:      j.Title,
			Company:    j.Company.DisplayName,
			Location:   j.Location.DisplayName,
			SalaryText: formatSalaryRange(j.SalaryMin, j.SalaryMax, "year"),
			ApplyLink:  j.RedirectURL,
			JobType:    j.ContractType,
			Source:     a.Name(),
		}
		if listing.ID == "" {
			listing.ID = uuid.NewString()
		}
		if j.Created != "" {
			if t, err := time.Parse(time.RFC3339, j.Created); err == nil {
				listing.PostedAt = &t
			}
		}

		listings = append(listings, listing)
	}

	return listings, nil
}

// countryForLocation infers the Adzuna country segment from a free-text
// location. Defaults to the US.
func countryForLocation(location string) string {
	loc := strings.ToLower(location)
	switch {
	case strings.Contains(loc, "united kingdom"), strings.Contains(loc, "uk"):
		return "gb"
	case strings.Contains(loc, "canada"):
		return "ca"
	case strings.Contains(loc, "australia"):
		return "au"
	default:
		return "us"
	}
}
