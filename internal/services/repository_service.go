package services

import (
	"context"
	"strings"
	"sync"

	"github.com/thomas-vilte/devrecap/internal/cache"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// repositoryLister defines the methods needed by RepositoryService from a VCS provider.
type repositoryLister interface {
	DiscoverRepositories(ctx context.Context) ([]models.Repository, error)
}

// RepositoryService keeps the list of repositories visible to the user.
type RepositoryService struct {
	vcsClient repositoryLister
	cache     *cache.GitHubCache

	mu    sync.RWMutex
	repos []models.Repository
}

type RepositoryOption func(*RepositoryService)

func WithRepositoryVCSClient(vcs repositoryLister) RepositoryOption {
	return func(s *RepositoryService) {
		s.vcsClient = vcs
	}
}

func WithRepositoryCache(c *cache.GitHubCache) RepositoryOption {
	return func(s *RepositoryService) {
		s.cache = c
	}
}

func NewRepositoryService(opts ...RepositoryOption) *RepositoryService {
	s := &RepositoryService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewGitHubCache(cache.New())
	}
	return s
}

// Load returns the repository list, from cache unless forceRefresh is set.
func (s *RepositoryService) Load(ctx context.Context, forceRefresh bool) ([]models.Repository, error) {
	log := logger.FromContext(ctx)

	if !forceRefresh {
		if cached, ok := s.cache.Repositories(); ok {
			log.Debug("using cached repositories", "repos", len(cached))
			s.set(cached)
			return cached, nil
		}
	}

	repos, err := s.vcsClient.DiscoverRepositories(ctx)
	if err != nil {
		return nil, domainErrors.Wrap(err, "carga de repositorios")
	}

	s.cache.SetRepositories(repos)
	s.set(repos)
	return repos, nil
}

func (s *RepositoryService) set(repos []models.Repository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos = repos
}

// Repositories returns the last loaded list.
func (s *RepositoryService) Repositories() []models.Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repos
}

// Filter matches text case-insensitively against full name and description.
// Empty text returns the whole list.
func (s *RepositoryService) Filter(text string) []models.Repository {
	repos := s.Repositories()
	if text == "" {
		return repos
	}

	needle := strings.ToLower(text)
	var out []models.Repository
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.FullName), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			out = append(out, r)
		}
	}
	return out
}

func (s *RepositoryService) Stats() models.RepositoryStats {
	repos := s.Repositories()
	stats := models.RepositoryStats{Total: len(repos)}
	for _, r := range repos {
		if r.Private {
			stats.Private++
		} else {
			stats.Public++
		}
		switch r.OwnerType {
		case "User":
			stats.Owned++
		case "Organization":
			stats.Organization++
		}
	}
	return stats
}
