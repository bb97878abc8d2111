package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thomas-vilte/devrecap/internal/cache"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/retry"
	"github.com/thomas-vilte/devrecap/internal/validation"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxPRs      = 50
	DefaultMaxCommits  = 50
	defaultConcurrency = 8
	searchOperation    = "búsqueda"
)

// Progress message IDs, resolved by the caller's translations.
const (
	ProgressSearchingPRs    = "progress_searching_prs"
	ProgressFetchingDetails = "progress_fetching_details"
	ProgressFetchingCommits = "progress_fetching_commits"
	ProgressDone            = "progress_done"
)

// searchVCSClient defines the methods needed by SearchService from a VCS provider.
type searchVCSClient interface {
	GetAuthenticatedUser(ctx context.Context) (models.User, error)
	SearchPullRequests(ctx context.Context, author, repo string, start, end time.Time) ([]models.RawRecord, error)
	GetPRDetails(ctx context.Context, owner, repo string, number int) (models.PRDetails, error)
	ListCommitsByAuthor(ctx context.Context, owner, repo, author string, start, end time.Time, limit int) ([]models.RawRecord, error)
}

// searchHistory records finished searches.
type searchHistory interface {
	AddSearch(entry models.SearchHistoryEntry) error
}

type SearchService struct {
	vcsClient   searchVCSClient
	cache       *cache.GitHubCache
	history     searchHistory
	retry       retry.Options
	concurrency int
	now         func() time.Time
}

type SearchOption func(*SearchService)

func WithSearchVCSClient(vcs searchVCSClient) SearchOption {
	return func(s *SearchService) {
		s.vcsClient = vcs
	}
}

func WithSearchCache(c *cache.GitHubCache) SearchOption {
	return func(s *SearchService) {
		s.cache = c
	}
}

func WithSearchHistory(h searchHistory) SearchOption {
	return func(s *SearchService) {
		s.history = h
	}
}

func WithSearchRetry(opts retry.Options) SearchOption {
	return func(s *SearchService) {
		s.retry = opts
	}
}

// WithSearchConcurrency bounds the number of PR detail fetches in flight.
func WithSearchConcurrency(n int) SearchOption {
	return func(s *SearchService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewSearchService(opts ...SearchOption) *SearchService {
	s := &SearchService{
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewGitHubCache(cache.New())
	}
	return s
}

// SearchOptions describes one search. Zero values take the defaults: scope
// both, 50 PRs, 50 commits.
type SearchOptions struct {
	Repository string
	StartDate  string
	EndDate    string
	Scope      models.SearchScope
	MaxPRs     int
	MaxCommits int
	Progress   func(models.ProgressEvent)
}

func (o *SearchOptions) applyDefaults() {
	if o.Scope == "" {
		o.Scope = models.ScopeBoth
	}
	if o.MaxPRs == 0 {
		o.MaxPRs = DefaultMaxPRs
	}
	if o.MaxCommits == 0 {
		o.MaxCommits = DefaultMaxCommits
	}
}

// progress tracks the step counter of one search.
type progress struct {
	fn    func(models.ProgressEvent)
	step  int
	total int
}

func (p *progress) emit(percent int, id, msg string, count int, advance bool) {
	if advance {
		p.step++
	}
	if p.fn == nil {
		return
	}
	p.fn(models.ProgressEvent{
		Step:       p.step,
		TotalSteps: p.total,
		Percent:    percent,
		MessageID:  id,
		Message:    msg,
		Count:      count,
	})
}

// SearchPRs returns the enriched pull requests the authenticated user opened
// in repo within [start, end], at most maxCount of them.
func (s *SearchService) SearchPRs(ctx context.Context, repo, start, end string, maxCount int) ([]models.RawRecord, error) {
	ident, dr, err := s.validateTarget(ctx, repo, start, end)
	if err != nil {
		return nil, err
	}
	login, err := s.currentLogin(ctx)
	if err != nil {
		return nil, domainErrors.Wrap(err, searchOperation)
	}
	prs, err := s.searchPRs(ctx, ident, dr, start, end, login, maxCount, &progress{total: 3})
	if err != nil {
		return nil, domainErrors.Wrap(err, searchOperation)
	}
	return prs, nil
}

// SearchCommits returns the raw commits the authenticated user pushed to repo
// within [start, end], at most maxCount of them.
func (s *SearchService) SearchCommits(ctx context.Context, repo, start, end string, maxCount int) ([]models.RawRecord, error) {
	ident, dr, err := s.validateTarget(ctx, repo, start, end)
	if err != nil {
		return nil, err
	}
	login, err := s.currentLogin(ctx)
	if err != nil {
		return nil, domainErrors.Wrap(err, searchOperation)
	}
	commits, err := s.searchCommits(ctx, ident, dr, start, end, login, maxCount, &progress{total: 3})
	if err != nil {
		return nil, domainErrors.Wrap(err, searchOperation)
	}
	return commits, nil
}

// PerformSearch validates opts, fetches what the scope asks for and returns
// the validated analysis. Every failure is normalized before it is returned.
func (s *SearchService) PerformSearch(ctx context.Context, opts SearchOptions) (models.AnalysisResult, error) {
	result, err := s.performSearch(ctx, opts)
	if err != nil {
		return models.AnalysisResult{}, domainErrors.Wrap(err, searchOperation)
	}
	return result, nil
}

func (s *SearchService) performSearch(ctx context.Context, opts SearchOptions) (models.AnalysisResult, error) {
	log := logger.FromContext(ctx)
	opts.applyDefaults()

	ident, dr, err := s.validateTarget(ctx, opts.Repository, opts.StartDate, opts.EndDate)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	if err := validation.ValidateLimits(opts.MaxPRs, opts.MaxCommits); err != nil {
		return models.AnalysisResult{}, err
	}

	wantPRs := opts.Scope == models.ScopePRs || opts.Scope == models.ScopeBoth
	wantCommits := opts.Scope == models.ScopeCommits || opts.Scope == models.ScopeBoth
	if !wantPRs && !wantCommits {
		return models.AnalysisResult{}, domainErrors.NewValidationError(domainErrors.KindInvalidInput, "scope",
			fmt.Sprintf("Alcance de búsqueda inválido: %s", opts.Scope))
	}

	p := &progress{fn: opts.Progress, total: 3}
	if opts.Scope == models.ScopeBoth {
		p.total = 4
	}

	login, err := s.currentLogin(ctx)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	input := models.AnalysisInput{
		Kind:       models.Structured,
		Repository: opts.Repository,
		Author:     login,
		DateRange:  models.DateLabels{Start: opts.StartDate, End: opts.EndDate},
	}

	if wantPRs {
		prs, err := s.searchPRs(ctx, ident, dr, opts.StartDate, opts.EndDate, login, opts.MaxPRs, p)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		if len(prs) == 0 && opts.Scope == models.ScopePRs {
			return models.AnalysisResult{}, domainErrors.NewValidationError(domainErrors.KindNoResults, "",
				"No se encontraron Pull Requests en el rango de fechas seleccionado")
		}
		input.PullRequests = prs
	}

	if wantCommits {
		percent := 50
		if opts.Scope == models.ScopeBoth {
			percent = 65
		}
		p.emit(percent, ProgressFetchingCommits, "Obteniendo commits del usuario...", 0, true)

		commits, err := s.searchCommits(ctx, ident, dr, opts.StartDate, opts.EndDate, login, opts.MaxCommits, p)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		if len(commits) == 0 && opts.Scope == models.ScopeCommits {
			return models.AnalysisResult{}, domainErrors.NewValidationError(domainErrors.KindNoResults, "",
				"No se encontraron commits del usuario en el rango de fechas seleccionado")
		}
		input.UserCommits = commits
		input.TotalUserCommits = len(commits)
	}

	result, err := validation.ValidateAnalysisData(input)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	p.emit(100, ProgressDone, "Búsqueda completada", 0, false)

	log.Info("search completed",
		"repo", ident.FullName,
		"prs", len(result.PullRequests),
		"commits", len(result.UserCommits),
		"type", result.Type)

	s.recordHistory(ctx, opts, result)
	return result, nil
}

func (s *SearchService) validateTarget(ctx context.Context, repo, start, end string) (models.RepoIdentifier, models.DateRange, error) {
	dr, err := validation.ValidateDateRange(ctx, start, end)
	if err != nil {
		return models.RepoIdentifier{}, models.DateRange{}, err
	}
	ident, err := validation.SanitizeRepoName(repo)
	if err != nil {
		return models.RepoIdentifier{}, models.DateRange{}, err
	}
	return ident, dr, nil
}

// currentLogin resolves the authenticated login, consulting the user cache first.
func (s *SearchService) currentLogin(ctx context.Context) (string, error) {
	if user, ok := s.cache.User(); ok {
		return user.Login, nil
	}
	user, err := s.vcsClient.GetAuthenticatedUser(ctx)
	if err != nil {
		return "", err
	}
	s.cache.SetUser(user)
	return user.Login, nil
}

func (s *SearchService) searchPRs(ctx context.Context, ident models.RepoIdentifier, dr models.DateRange, start, end, login string, maxCount int, p *progress) ([]models.RawRecord, error) {
	log := logger.FromContext(ctx)

	if cached, ok := s.cache.PullRequests(ident.FullName, start, end); ok {
		log.Debug("using cached pull requests", "repo", ident.FullName, "prs", len(cached))
		return cached, nil
	}

	p.emit(25, ProgressSearchingPRs, "Buscando Pull Requests...", 0, true)

	opts := s.retry
	opts.Operation = "búsqueda de PRs"
	found, err := retry.WithBackoff(ctx, func(ctx context.Context) ([]models.RawRecord, error) {
		return s.vcsClient.SearchPullRequests(ctx, login, ident.FullName, dr.Start, dr.End)
	}, opts)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return []models.RawRecord{}, nil
	}

	p.emit(50, ProgressFetchingDetails, fmt.Sprintf("Obteniendo detalles de %d PRs...", len(found)), len(found), true)

	if maxCount > 0 && len(found) > maxCount {
		found = found[:maxCount]
	}
	enriched := s.enrich(ctx, ident, found)

	s.cache.SetPullRequests(ident.FullName, start, end, enriched)
	return enriched, nil
}

// enrich attaches commits and files to every PR. A PR whose details cannot be
// fetched gets empty lists instead of failing the batch.
func (s *SearchService) enrich(ctx context.Context, ident models.RepoIdentifier, prs []models.RawRecord) []models.RawRecord {
	log := logger.FromContext(ctx)
	enriched := make([]models.RawRecord, len(prs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, pr := range prs {
		g.Go(func() error {
			record := make(models.RawRecord, len(pr)+2)
			for k, v := range pr {
				record[k] = v
			}

			number := validation.SafeGet(pr, "number", 0)
			details, err := s.vcsClient.GetPRDetails(ctx, ident.Owner, ident.Repo, toNumber(number))
			if err != nil {
				log.Warn("could not fetch pull request details", "number", number, "error", err)
				record["commits"] = []models.RawRecord{}
				record["files"] = []models.RawRecord{}
			} else {
				record["commits"] = details.Commits
				record["files"] = details.Files
			}
			enriched[i] = record
			return nil
		})
	}
	_ = g.Wait()

	return enriched
}

func (s *SearchService) searchCommits(ctx context.Context, ident models.RepoIdentifier, dr models.DateRange, start, end, login string, maxCount int, p *progress) ([]models.RawRecord, error) {
	if cached, ok := s.cache.Commits(ident.FullName, login, start, end); ok {
		logger.FromContext(ctx).Debug("using cached commits", "repo", ident.FullName, "commits", len(cached))
		return cached, nil
	}

	opts := s.retry
	opts.Operation = "commits"
	commits, err := retry.WithBackoff(ctx, func(ctx context.Context) ([]models.RawRecord, error) {
		return s.vcsClient.ListCommitsByAuthor(ctx, ident.Owner, ident.Repo, login, dr.Start, dr.End, maxCount)
	}, opts)
	if err != nil {
		return nil, err
	}
	if commits == nil {
		commits = []models.RawRecord{}
	}

	s.cache.SetCommits(ident.FullName, login, start, end, commits)
	return commits, nil
}

func (s *SearchService) recordHistory(ctx context.Context, opts SearchOptions, result models.AnalysisResult) {
	if s.history == nil {
		return
	}
	err := s.history.AddSearch(models.SearchHistoryEntry{
		Repository:  opts.Repository,
		StartDate:   opts.StartDate,
		EndDate:     opts.EndDate,
		Scope:       opts.Scope,
		PRCount:     len(result.PullRequests),
		CommitCount: result.TotalUserCommits,
		Timestamp:   s.now(),
	})
	if err != nil {
		logger.FromContext(ctx).Warn("could not save search history", "error", err)
	}
}

func toNumber(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
