package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobreach/internal/model"
)

const jsearchBaseURL = "https://jsearch.p.rapidapi.com"

// jsearchEmploymentTypes maps the normalized job type filter to JSearch's
// employment_types parameter.
var jsearchEmploymentTypes = map[string]string{
	"full-time":  "FULLTIME",
	"part-time":  "PARTTIME",
	"contract":   "CONTRACTOR",
	"internship": "INTERN",
}

// jsearchJob represents a single job in the JSearch API response.
type jsearchJob struct {
	ID             string   `json:"job_id"`
	Title          string   `json:"job_title"`
	EmployerName   string   `json:"employer_name"`
	City           string   `json:"job_city"`
	State          string   `json:"job_state"`
	EmploymentType string   `json:"job_employment_type"`
	MinSalary      float64  `json:"job_min_salary"`
	MaxSalary      float64  `json:"job_max_salary"`
	SalaryPeriod   string   `json:"job_salary_period"`
	PostedAt       string   `json:"job_posted_at_datetime_utc"`
	ApplyLink      string   `json:"job_apply_link"`
}

// jsearchResponse is the top-level JSearch API response.
type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

// JSearchAdapter queries the JSearch API (via RapidAPI).
type JSearchAdapter struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

// NewJSearchAdapter creates an adapter for the JSearch API.
func NewJSearchAdapter(apiKey string, timeout time.Duration, client *http.Client) *JSearchAdapter {
	return &JSearchAdapter{
		baseURL: jsearchBaseURL,
		apiKey:  apiKey,
		timeout: timeout,
		client:  client,
	}
}

// Name implements Provider.
func (a *JSearchAdapter) Name() string { return "jsearch" }

// Search queries JSearch and normalizes the results.
func (a *JSearchAdapter) Search(ctx context.Context, query model.SearchQuery) ([]model.Listing, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", strings.TrimSpace(query.Term+" "+query.Location))
	params.Set("page", "1")
	params.Set("num_pages", "1")
	params.Set("date_posted", "all")
	if et, ok := jsearchEmploymentTypes[strings.ToLower(query.JobType)]; ok {
		params.Set("employment_types", et)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jsearch search: %w", err)
	}
	req.Header.Set("x-rapidapi-key", a.apiKey)
	req.Header.Set("x-rapidapi-host", "jsearch.p.rapidapi.com")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("jsearch search"),
		}
	}

	var jsResp jsearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&jsResp); err != nil {
		return nil, &model.SchemaError{Source: "jsearch", Err: err}
	}

	listings := make([]model.Listing, 0, len(jsResp.Data))
	for _, j := range jsResp.Data {
		if len(listings) >= maxProviderResults {
			break
		}
		if j.ApplyLink == "" {
			continue
		}

		period := j.SalaryPeriod
		if period == "" {
			period = "year"
		}

		listing := model.Listing{
			ID:         j.ID,
			Title:      j.Title,
			Company:    j.EmployerName,
			Location:   joinLocation(j.City, j.State),
			SalaryText: formatSalaryRange(j.MinSalary, j.MaxSalary, strings.ToLower(period)),
			ApplyLink:  j.ApplyLink,
			JobType:    j.EmploymentType,
			Source:     a.Name(),
		}
		if listing.ID == "" {
			listing.ID = uuid.NewString()
		}
		if j.PostedAt != "" {
			if t, err := time.Parse(time.RFC3339, j.PostedAt); err == nil {
				listing.PostedAt = &t
			}
		}

		listings = append(listings, listing)
	}

	return listings, nil
}
