package validation

import (
	"log/slog"
	"time"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

const (
	untitled         = "Sin título"
	untitledFallback = "PR sin título"
	unknownUser      = "Unknown"
	unknownState     = "unknown"
	unknownSHA       = "unknown"
	noMessage        = "Sin mensaje"
	noMessageCommit  = "Commit sin mensaje"
)

func nowISO() string {
	return now().UTC().Format(time.RFC3339)
}

// ValidatePullRequest normalizes a raw pull request. It never fails: records
// without number, title or state get placeholder values and no enrichment.
func ValidatePullRequest(raw models.RawRecord) models.PullRequest {
	if err := ValidateRequired(raw, []string{"number", "title", "state"}, "Pull Request"); err != nil {
		slog.Warn("invalid pull request data", "error", err)
		return models.PullRequest{
			Number:    toInt(raw["number"]),
			Title:     orDefault(str(raw["title"]), untitledFallback),
			State:     orDefault(str(raw["state"]), unknownState),
			User:      loginOf(raw["user"]),
			CreatedAt: orDefault(str(raw["created_at"]), nowISO()),
			Labels:    []string{},
			Commits:   []models.CommitRef{},
			Files:     []models.FileChange{},
		}
	}

	return models.PullRequest{
		Number:    toInt(raw["number"]),
		Title:     orDefault(str(raw["title"]), untitled),
		State:     text(raw["state"]),
		User:      loginOf(raw["user"]),
		CreatedAt: orDefault(str(raw["created_at"]), nowISO()),
		Labels:    labelsOf(raw["labels"]),
		Commits:   commitRefsOf(raw["commits"]),
		Files:     filesOf(raw["files"]),
	}
}

// ValidateCommit normalizes a raw commit as returned by the commits listing.
// It never fails.
func ValidateCommit(raw models.RawRecord) models.Commit {
	inner, _ := asMap(raw["commit"])
	err := ValidateRequired(raw, []string{"sha", "commit"}, "Commit")
	if err == nil {
		err = ValidateRequired(inner, []string{"message"}, "Commit.commit")
	}
	if err != nil {
		slog.Warn("invalid commit data", "error", err)
		return models.Commit{
			SHA:     orDefault(str(raw["sha"]), unknownSHA),
			Message: noMessageCommit,
			Author:  unknownUser,
			Date:    nowISO(),
		}
	}

	author, _ := asMap(inner["author"])
	name := str(author["name"])
	if name == "" {
		name = loginOf(raw["author"])
	}

	return models.Commit{
		SHA:     text(raw["sha"]),
		Message: orDefault(str(inner["message"]), noMessage),
		Author:  name,
		Date:    orDefault(str(author["date"]), nowISO()),
		URL:     str(raw["html_url"]),
	}
}

// ValidateAnalysisData normalizes every record and fails when both
// sequences end up empty.
func ValidateAnalysisData(input models.AnalysisInput) (models.AnalysisResult, error) {
	prs := make([]models.PullRequest, 0, len(input.PullRequests))
	for _, raw := range input.PullRequests {
		prs = append(prs, ValidatePullRequest(raw))
	}

	commits := make([]models.Commit, 0, len(input.UserCommits))
	if input.Kind == models.Structured {
		for _, raw := range input.UserCommits {
			commits = append(commits, ValidateCommit(raw))
		}
	}

	if len(prs) == 0 && len(commits) == 0 {
		return models.AnalysisResult{}, domainErrors.NewValidationError(domainErrors.KindEmptyResult, "",
			"No hay datos para analizar. Verifica el rango de fechas.")
	}

	result := models.AnalysisResult{
		PullRequests: prs,
		UserCommits:  commits,
	}

	if input.Kind == models.LegacyPRList {
		result.Type = models.AnalysisPRsOnly
		return result, nil
	}

	switch {
	case len(prs) > 0 && len(commits) > 0:
		result.Type = models.AnalysisComplete
	case len(prs) > 0:
		result.Type = models.AnalysisPRsOnly
	default:
		result.Type = models.AnalysisCommitsOnly
	}

	result.TotalUserCommits = input.TotalUserCommits
	if result.TotalUserCommits == 0 {
		result.TotalUserCommits = len(commits)
	}
	result.Repository = input.Repository
	result.Author = input.Author
	result.DateRange = input.DateRange
	return result, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func loginOf(v interface{}) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	if m, ok := asMap(v); ok {
		if login := str(m["login"]); login != "" {
			return login
		}
	}
	return unknownUser
}

func labelsOf(v interface{}) []string {
	items, ok := asSlice(v)
	if !ok {
		return []string{}
	}
	labels := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			labels = append(labels, s)
			continue
		}
		if m, ok := asMap(item); ok {
			if name := str(m["name"]); name != "" {
				labels = append(labels, name)
			}
		}
	}
	return labels
}

func commitRefsOf(v interface{}) []models.CommitRef {
	items, ok := asSlice(v)
	if !ok {
		return []models.CommitRef{}
	}
	refs := make([]models.CommitRef, 0, len(items))
	for _, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		ref := models.CommitRef{SHA: str(m["sha"]), Message: str(m["message"])}
		if inner, ok := asMap(m["commit"]); ok {
			ref.Message = orDefault(ref.Message, str(inner["message"]))
			if author, ok := asMap(inner["author"]); ok {
				ref.Author = str(author["name"])
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

func filesOf(v interface{}) []models.FileChange {
	items, ok := asSlice(v)
	if !ok {
		return []models.FileChange{}
	}
	files := make([]models.FileChange, 0, len(items))
	for _, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		files = append(files, models.FileChange{
			Filename:  str(m["filename"]),
			Status:    str(m["status"]),
			Additions: toInt(m["additions"]),
			Deletions: toInt(m["deletions"]),
			Changes:   toInt(m["changes"]),
		})
	}
	return files
}
