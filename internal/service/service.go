// Package service is the boundary the rest of the application calls. Every
// operation is a thin pass through the cache into either the resilient
// invoker (AI features) or the search aggregator.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/jobreach/internal/aggregate"
	"github.com/amishk599/jobreach/internal/ai"
	"github.com/amishk599/jobreach/internal/cache"
	"github.com/amishk599/jobreach/internal/fingerprint"
	"github.com/amishk599/jobreach/internal/invoke"
	"github.com/amishk599/jobreach/internal/model"
)

// ErrAIDisabled is returned by AI-backed operations when no completion
// provider is configured.
var ErrAIDisabled = errors.New("ai features are disabled: no api key configured")

// operation identifiers, used for cache fingerprints and log fields.
const (
	opExtractSkills = "extract_skills"
	opAnalyze       = "analyze_resume"
	opCoverLetter   = "cover_letter"
	opInterview     = "interview_questions"
	opMatch         = "match_score"
	opSearch        = "search_jobs"
)

const maxSkills = 15

// CoverLetterRequest carries the inputs for one cover letter.
type CoverLetterRequest struct {
	Resume         string
	JobTitle       string
	Company        string
	JobDescription string // optional
	Tone           string // defaults to "professional"
}

// MatchReport is the parsed outcome of a resume/job match scoring.
type MatchReport struct {
	Score     int      `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}

// Service wires the cache, invoker, completion provider, and aggregator into
// the product-facing operations. Construct once at process start.
type Service struct {
	cache      *cache.Cache
	invoker    *invoke.Invoker
	completer  ai.Completer // nil when AI is disabled
	aggregator *aggregate.Aggregator
	searchTTL  time.Duration
	aiTTL      time.Duration
	logger     *slog.Logger
}

// New creates the facade. completer may be nil; AI operations then fail with
// ErrAIDisabled while job search remains available.
func New(c *cache.Cache, inv *invoke.Invoker, completer ai.Completer, agg *aggregate.Aggregator,
	searchTTL, aiTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		cache:      c,
		invoker:    inv,
		completer:  completer,
		aggregator: agg,
		searchTTL:  searchTTL,
		aiTTL:      aiTTL,
		logger:     logger,
	}
}

// ExtractSkills pulls job-search keywords out of a resume.
func (s *Service) ExtractSkills(ctx context.Context, resume string) ([]string, error) {
	key := fingerprint.New(opExtractSkills, resume)
	prompt, err := renderPrompt(ai.SkillsTemplate, struct{ Resume string }{resume})
	if err != nil {
		return nil, err
	}

	raw, err := s.cachedCompletion(ctx, opExtractSkills, key,
		"You are an expert at extracting relevant job search keywords from resumes.",
		prompt, 0.3, 200)
	if err != nil {
		return nil, err
	}
	return parseSkills(raw), nil
}

// AnalyzeResume reviews a resume, optionally against a target role.
func (s *Service) AnalyzeResume(ctx context.Context, resume, targetRole string) (string, error) {
	key := fingerprint.New(opAnalyze, resume, fingerprint.Term(targetRole))
	prompt, err := renderPrompt(ai.AnalyzeTemplate, struct{ Resume, TargetRole string }{resume, targetRole})
	if err != nil {
		return "", err
	}
	return s.cachedCompletion(ctx, opAnalyze, key,
		"You are an experienced career advisor and resume reviewer.",
		prompt, 0.7, 1500)
}

// GenerateCoverLetter drafts a cover letter for one job.
func (s *Service) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (string, error) {
	if req.Tone == "" {
		req.Tone = "professional"
	}
	key := fingerprint.New(opCoverLetter,
		req.Resume,
		fingerprint.Term(req.JobTitle),
		fingerprint.Term(req.Company),
		req.JobDescription,
		fingerprint.Term(req.Tone),
	)
	prompt, err := renderPrompt(ai.CoverLetterTemplate, struct {
		Resume, JobTitle, Company, JobDescription, Tone string
	}{req.Resume, req.JobTitle, req.Company, req.JobDescription, req.Tone})
	if err != nil {
		return "", err
	}
	return s.cachedCompletion(ctx, opCoverLetter, key,
		"You are a professional cover letter writer.",
		prompt, 0.7, 1000)
}

// InterviewQuestions generates interview preparation material from a resume.
func (s *Service) InterviewQuestions(ctx context.Context, resume, targetRole string) (string, error) {
	key := fingerprint.New(opInterview, resume, fingerprint.Term(targetRole))
	prompt, err := renderPrompt(ai.InterviewTemplate, struct{ Resume, TargetRole string }{resume, targetRole})
	if err != nil {
		return "", err
	}
	return s.cachedCompletion(ctx, opInterview, key,
		"You are a seasoned technical interviewer.",
		prompt, 0.7, 1200)
}

// MatchScore scores a resume against a job description.
func (s *Service) MatchScore(ctx context.Context, resume, jobDescription string) (MatchReport, error) {
	key := fingerprint.New(opMatch, resume, jobDescription)
	prompt, err := renderPrompt(ai.MatchTemplate, struct{ Resume, JobDescription string }{resume, jobDescription})
	if err != nil {
		return MatchReport{}, err
	}

	raw, err := s.cachedCompletion(ctx, opMatch, key,
		"You are a precise recruiting analyst. You reply with JSON only.",
		prompt, 0.3, 800)
	if err != nil {
		return MatchReport{}, err
	}

	var report MatchReport
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &report); err != nil {
		return MatchReport{}, &model.SchemaError{Source: "match_score", Err: err}
	}
	return report, nil
}

// SearchJobs runs one aggregated job search through the cache.
func (s *Service) SearchJobs(ctx context.Context, query model.SearchQuery) (model.SearchResult, error) {
	key := fingerprint.New(opSearch,
		fingerprint.Term(query.Term),
		fingerprint.Term(query.Location),
		fingerprint.Term(query.JobType),
		strconv.Itoa(query.Page),
		strconv.Itoa(query.PerPage),
	)
	return cache.Resolve(ctx, s.cache, string(key), s.searchTTL, func(ctx context.Context) (model.SearchResult, error) {
		return s.aggregator.Search(ctx, query)
	})
}

// SmartSearch extracts skills from a resume and searches jobs for the best
// ones. The skill extraction reuses its own cache entry, so repeated smart
// searches over an unchanged resume cost one AI call total.
func (s *Service) SmartSearch(ctx context.Context, resume, location, jobType string, page, perPage int) (model.SearchResult, error) {
	skills, err := s.ExtractSkills(ctx, resume)
	if err != nil {
		return model.SearchResult{}, fmt.Errorf("extract skills: %w", err)
	}
	if len(skills) == 0 {
		return model.SearchResult{}, fmt.Errorf("no skills could be extracted from the resume")
	}
	if len(skills) > 5 {
		skills = skills[:5]
	}

	return s.SearchJobs(ctx, model.SearchQuery{
		Term:     strings.Join(skills, " OR "),
		Location: location,
		JobType:  jobType,
		Page:     page,
		PerPage:  perPage,
	})
}

// InvalidateSearch drops the cached result for one search query.
func (s *Service) InvalidateSearch(ctx context.Context, query model.SearchQuery) error {
	key := fingerprint.New(opSearch,
		fingerprint.Term(query.Term),
		fingerprint.Term(query.Location),
		fingerprint.Term(query.JobType),
		strconv.Itoa(query.Page),
		strconv.Itoa(query.PerPage),
	)
	return s.cache.Invalidate(ctx, string(key))
}

// cachedCompletion routes one prompt through the cache and the resilient
// invoker. The invoker is the only path to the completion provider.
func (s *Service) cachedCompletion(ctx context.Context, op string, key fingerprint.Key,
	system, prompt string, temperature float64, maxTokens int) (string, error) {
	if s.completer == nil {
		return "", ErrAIDisabled
	}

	return cache.Resolve(ctx, s.cache, string(key), s.aiTTL, func(ctx context.Context) (string, error) {
		return s.invoker.Invoke(ctx, op, func(ctx context.Context) (string, error) {
			return s.completer.Complete(ctx, []ai.Message{
				{Role: "system", Content: system},
				{Role: "user", Content: prompt},
			}, temperature, maxTokens)
		})
	})
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// parseSkills splits a comma-separated keyword list, dropping empties and
// capping at maxSkills.
func parseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if skill := strings.TrimSpace(p); skill != "" {
			skills = append(skills, skill)
		}
		if len(skills) == maxSkills {
			break
		}
	}
	return skills
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON in one despite instructions.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
