package services

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/devrecap/internal/ai"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/markdown"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// draftStore persists report documents.
type draftStore interface {
	SaveDraft(draft models.Draft) (models.Draft, error)
}

type ReportService struct {
	generator ai.ReportGenerator
	drafts    draftStore
	now       func() time.Time
}

type ReportOption func(*ReportService)

func WithReportGenerator(g ai.ReportGenerator) ReportOption {
	return func(s *ReportService) {
		s.generator = g
	}
}

func WithDraftStore(d draftStore) ReportOption {
	return func(s *ReportService) {
		s.drafts = d
	}
}

func WithReportClock(now func() time.Time) ReportOption {
	return func(s *ReportService) {
		s.now = now
	}
}

func NewReportService(opts ...ReportOption) *ReportService {
	s := &ReportService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready returns ErrAPIKeyMissing when no generator is configured.
func (s *ReportService) Ready() error {
	if s.generator == nil {
		return domainErrors.ErrAPIKeyMissing
	}
	return nil
}

// Generate writes a report of type rt in lang about result and parses it
// into blocks.
func (s *ReportService) Generate(ctx context.Context, result models.AnalysisResult, lang string, rt models.ReportType) (models.Report, error) {
	log := logger.FromContext(ctx)

	if err := s.Ready(); err != nil {
		return models.Report{}, err
	}
	if len(result.PullRequests) == 0 && len(result.UserCommits) == 0 {
		return models.Report{}, domainErrors.NewValidationError(domainErrors.KindEmptyResult, "",
			"No hay datos para analizar. Verifica el rango de fechas.")
	}

	lang = ai.NormalizeLanguage(lang)
	rt = models.ParseReportType(string(rt))

	prompt, err := ai.BuildReportPrompt(result, lang, rt)
	if err != nil {
		return models.Report{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error building report prompt", err)
	}

	log.Info("generating report",
		"type", rt,
		"language", lang,
		"prs", len(result.PullRequests),
		"commits", len(result.UserCommits))

	text, usage, err := s.generator.GenerateReport(ctx, prompt)
	if err != nil {
		return models.Report{}, err
	}

	doc := markdown.NewParser(markdown.WithClock(s.now)).Parse(text)

	log.Debug("report parsed",
		"blocks", len(doc.Blocks))

	return models.Report{
		Type:      rt,
		Language:  lang,
		Markdown:  text,
		Document:  doc,
		Usage:     usage,
		CreatedAt: s.now(),
	}, nil
}

// SaveDraft stores report as a draft. An empty title is derived from the
// report type and the repository.
func (s *ReportService) SaveDraft(ctx context.Context, report models.Report, title, repository string) (models.Draft, error) {
	if s.drafts == nil {
		return models.Draft{}, domainErrors.ErrStoreWrite.WithContext("reason", "no draft store configured")
	}

	if strings.TrimSpace(title) == "" {
		title = strings.TrimSpace(ai.ReportTypeName(report.Type, report.Language) + " " + repository)
	}

	draft, err := s.drafts.SaveDraft(models.Draft{
		Title:      title,
		Repository: repository,
		ReportType: report.Type,
		Language:   report.Language,
		Document:   report.Document,
		UpdatedAt:  s.now(),
	})
	if err != nil {
		return models.Draft{}, err
	}

	logger.FromContext(ctx).Info("draft saved",
		"id", draft.ID,
		"title", draft.Title)
	return draft, nil
}
