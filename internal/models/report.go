package models

import "time"

// ReportType selects the prompt family used to write a report.
type ReportType string

const (
	ReportExecutive  ReportType = "executive"
	ReportMetrics    ReportType = "metrics"
	ReportEfficiency ReportType = "efficiency"
	ReportWorklog    ReportType = "worklog"
	ReportTechnical  ReportType = "technical"
)

// ReportTypes lists every report type in display order.
var ReportTypes = []ReportType{ReportExecutive, ReportMetrics, ReportEfficiency, ReportWorklog, ReportTechnical}

// ParseReportType returns the report type for s, falling back to executive.
func ParseReportType(s string) ReportType {
	for _, rt := range ReportTypes {
		if string(rt) == s {
			return rt
		}
	}
	return ReportExecutive
}

// Report is a generated report with its parsed block form.
type Report struct {
	Type      ReportType  `json:"type"`
	Language  string      `json:"language"`
	Markdown  string      `json:"markdown"`
	Document  Document    `json:"document"`
	Usage     *TokenUsage `json:"usage,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ProgressEvent is emitted while a long operation advances.
type ProgressEvent struct {
	Step       int    `json:"step"`
	TotalSteps int    `json:"totalSteps"`
	Percent    int    `json:"percent"`
	MessageID  string `json:"messageId"`
	Message    string `json:"message,omitempty"`
	Count      int    `json:"count,omitempty"`
}

// Draft is a saved report document.
type Draft struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Repository string     `json:"repository,omitempty"`
	ReportType ReportType `json:"report_type,omitempty"`
	Language   string     `json:"language,omitempty"`
	Document   Document   `json:"document"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SearchHistoryEntry records a search the user ran.
type SearchHistoryEntry struct {
	Repository  string      `json:"repository"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	Scope       SearchScope `json:"scope"`
	PRCount     int         `json:"pr_count"`
	CommitCount int         `json:"commit_count"`
	Timestamp   time.Time   `json:"timestamp"`
}
