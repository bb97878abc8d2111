package models

import "time"

// AnalysisType says which activity sequences a result carries.
type AnalysisType string

const (
	AnalysisPRsOnly     AnalysisType = "prs-only"
	AnalysisCommitsOnly AnalysisType = "commits-only"
	AnalysisComplete    AnalysisType = "complete"
)

// SearchScope selects what a search fetches.
type SearchScope string

const (
	ScopePRs     SearchScope = "prs"
	ScopeCommits SearchScope = "commits"
	ScopeBoth    SearchScope = "both"
)

// DateRange is a validated search window.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	DiffDays int       `json:"diffDays"`
}

// DateLabels is the textual form of a date window carried by results.
type DateLabels struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RepoIdentifier is an owner/repo pair.
type RepoIdentifier struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	FullName string `json:"fullName"`
}

// AnalysisResult is the outcome of a completed search.
type AnalysisResult struct {
	Type             AnalysisType  `json:"type"`
	PullRequests     []PullRequest `json:"pullRequests"`
	UserCommits      []Commit      `json:"userCommits"`
	TotalUserCommits int           `json:"totalUserCommits"`
	Repository       string        `json:"repository"`
	Author           string        `json:"author"`
	DateRange        DateLabels    `json:"dateRange"`
}

// AnalysisInputKind tags the shape analysis data arrived in.
type AnalysisInputKind int

const (
	// LegacyPRList is a bare list of pull request records.
	LegacyPRList AnalysisInputKind = iota
	// Structured carries pull requests, user commits and search metadata.
	Structured
)

// AnalysisInput is raw analysis data tagged with its shape.
type AnalysisInput struct {
	Kind             AnalysisInputKind
	PullRequests     []RawRecord
	UserCommits      []RawRecord
	TotalUserCommits int
	Repository       string
	Author           string
	DateRange        DateLabels
}

// NewLegacyInput wraps a bare list of pull request records.
func NewLegacyInput(prs []RawRecord) AnalysisInput {
	return AnalysisInput{Kind: LegacyPRList, PullRequests: prs}
}
