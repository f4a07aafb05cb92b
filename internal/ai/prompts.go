package ai

import (
	_ "embed"
	"text/template"
)

// Prompt templates are parsed once at package init and reused on every call.

//go:embed prompts/skills.md
var skillsPromptRaw string

// SkillsTemplate extracts job-search keywords from a resume.
// Fields: Resume.
var SkillsTemplate = template.Must(template.New("skills").Parse(skillsPromptRaw))

//go:embed prompts/analyze.md
var analyzePromptRaw string

// AnalyzeTemplate reviews a resume, optionally against a target role.
// Fields: Resume, TargetRole.
var AnalyzeTemplate = template.Must(template.New("analyze").Parse(analyzePromptRaw))

//go:embed prompts/cover_letter.md
var coverLetterPromptRaw string

// CoverLetterTemplate drafts a cover letter.
// Fields: Resume, JobTitle, Company, JobDescription, Tone.
var CoverLetterTemplate = template.Must(template.New("cover_letter").Parse(coverLetterPromptRaw))

//go:embed prompts/interview.md
var interviewPromptRaw string

// InterviewTemplate generates interview preparation questions.
// Fields: Resume, TargetRole.
var InterviewTemplate = template.Must(template.New("interview").Parse(interviewPromptRaw))

//go:embed prompts/match.md
var matchPromptRaw string

// MatchTemplate scores a resume against a job description, returning JSON.
// Fields: Resume, JobDescription.
var MatchTemplate = template.Must(template.New("match").Parse(matchPromptRaw))
