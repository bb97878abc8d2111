package di

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/thomas-vilte/devrecap/internal/ai"
	"github.com/thomas-vilte/devrecap/internal/ai/gemini"
	"github.com/thomas-vilte/devrecap/internal/cache"
	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/store"
	"github.com/thomas-vilte/devrecap/internal/vcs"
	"github.com/thomas-vilte/devrecap/internal/vcs/github"
)

// VCSClientFactory builds a GitHub client for token.
type VCSClientFactory func(token string) vcs.VCSClient

// GeneratorFactory builds the report generator. Generated reports are kept in c.
type GeneratorFactory func(ctx context.Context, cfg *config.Config, c *cache.Cache) (ai.ReportGenerator, error)

// Container manages the application's dependencies. Services are built on
// first use and reused afterwards.
type Container struct {
	config       *config.Config
	translations *i18n.Translations
	stateDir     string

	newVCSClient VCSClientFactory
	newGenerator GeneratorFactory

	mu                sync.Mutex
	cache             *cache.Cache
	githubCache       *cache.GitHubCache
	vcsClient         vcs.VCSClient
	store             *store.Store
	authService       *services.AuthService
	repositoryService *services.RepositoryService
	searchService     *services.SearchService
	reportService     *services.ReportService
}

type Option func(*Container)

func WithVCSClientFactory(f VCSClientFactory) Option {
	return func(c *Container) {
		c.newVCSClient = f
	}
}

func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(c *Container) {
		c.newGenerator = f
	}
}

// WithStateDir sets where history and drafts are stored. It defaults to the
// directory holding the config file.
func WithStateDir(dir string) Option {
	return func(c *Container) {
		c.stateDir = dir
	}
}

func WithCache(ch *cache.Cache) Option {
	return func(c *Container) {
		c.cache = ch
	}
}

func NewContainer(cfg *config.Config, trans *i18n.Translations, opts ...Option) *Container {
	c := &Container{
		config:       cfg,
		translations: trans,
		newVCSClient: defaultVCSClient,
		newGenerator: defaultGenerator,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.New()
	}
	c.githubCache = cache.NewGitHubCache(c.cache)
	if c.stateDir == "" && cfg.PathFile != "" {
		c.stateDir = filepath.Dir(cfg.PathFile)
	}
	return c
}

func defaultVCSClient(token string) vcs.VCSClient {
	return github.NewGitHubClient(token)
}

func defaultGenerator(ctx context.Context, cfg *config.Config, c *cache.Cache) (ai.ReportGenerator, error) {
	gen, err := gemini.NewGeminiReportGenerator(ctx, cfg, gemini.WithResponseCache(c))
	if err != nil {
		return nil, err
	}
	return gen, nil
}

func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) Translations() *i18n.Translations {
	return c.translations
}

// Cache returns the process-wide cache shared by GitHub data and AI responses.
func (c *Container) Cache() *cache.Cache {
	return c.cache
}

func (c *Container) GitHubCache() *cache.GitHubCache {
	return c.githubCache
}

// VCSClient returns the GitHub client for the configured token.
func (c *Container) VCSClient() (vcs.VCSClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vcsClientLocked()
}

func (c *Container) vcsClientLocked() (vcs.VCSClient, error) {
	if c.vcsClient != nil {
		return c.vcsClient, nil
	}
	if c.config.GitHubToken == "" {
		return nil, domainErrors.ErrGitHubTokenMissing
	}
	c.vcsClient = c.newVCSClient(c.config.GitHubToken)
	return c.vcsClient, nil
}

// Store returns the local history and drafts store.
func (c *Container) Store() (*store.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeLocked()
}

func (c *Container) storeLocked() (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	dir := c.stateDir
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return nil, domainErrors.ErrStoreWrite.WithError(err)
		}
		dir = d
	}
	s, err := store.New(dir)
	if err != nil {
		return nil, err
	}
	c.store = s
	return s, nil
}

func (c *Container) AuthService() *services.AuthService {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authService == nil {
		c.authService = services.NewAuthService(func(token string) services.UserGetter {
			return c.newVCSClient(token)
		}, c.githubCache)
	}
	return c.authService
}

func (c *Container) RepositoryService() (*services.RepositoryService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.repositoryService != nil {
		return c.repositoryService, nil
	}
	client, err := c.vcsClientLocked()
	if err != nil {
		return nil, err
	}
	c.repositoryService = services.NewRepositoryService(
		services.WithRepositoryVCSClient(client),
		services.WithRepositoryCache(c.githubCache),
	)
	return c.repositoryService, nil
}

// SearchService returns the search orchestrator. A store that cannot be
// opened only disables history.
func (c *Container) SearchService(ctx context.Context) (*services.SearchService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchService != nil {
		return c.searchService, nil
	}
	client, err := c.vcsClientLocked()
	if err != nil {
		return nil, err
	}
	opts := []services.SearchOption{
		services.WithSearchVCSClient(client),
		services.WithSearchCache(c.githubCache),
	}
	if s, err := c.storeLocked(); err != nil {
		logger.Warn(ctx, "search history disabled", "error", err)
	} else {
		opts = append(opts, services.WithSearchHistory(s))
	}
	c.searchService = services.NewSearchService(opts...)
	return c.searchService, nil
}

// ReportService returns the report pipeline. Without a Gemini key the
// service is still returned and fails on Generate.
func (c *Container) ReportService(ctx context.Context) (*services.ReportService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reportService != nil {
		return c.reportService, nil
	}

	var opts []services.ReportOption
	if c.config.GeminiAPIKey != "" {
		gen, err := c.newGenerator(ctx, c.config, c.cache)
		if err != nil {
			return nil, err
		}
		opts = append(opts, services.WithReportGenerator(gen))
	}
	if s, err := c.storeLocked(); err != nil {
		logger.Warn(ctx, "drafts disabled", "error", err)
	} else {
		opts = append(opts, services.WithDraftStore(s))
	}
	c.reportService = services.NewReportService(opts...)
	return c.reportService, nil
}
