package cache

import (
	"fmt"
	"time"

	"github.com/thomas-vilte/devrecap/internal/models"
)

// TTLs for GitHub data. PR search results are kept short because PR state
// changes often.
const (
	RepositoriesTTL = 5 * time.Minute
	UserTTL         = 10 * time.Minute
	PullRequestsTTL = 2 * time.Minute
	CommitsTTL      = 3 * time.Minute
)

const (
	githubPrefix    = "github:"
	repositoriesKey = githubPrefix + "repos"
	userKey         = githubPrefix + "user"
)

// PullRequestsKey is the cache key for a PR search in repo over [start, end].
func PullRequestsKey(repo, start, end string) string {
	return fmt.Sprintf("%sprs:%s:%s:%s", githubPrefix, repo, start, end)
}

// CommitsKey is the cache key for commits by author in repo over [start, end].
func CommitsKey(repo, author, start, end string) string {
	return fmt.Sprintf("%scommits:%s:%s:%s:%s", githubPrefix, repo, author, start, end)
}

// GitHubCache stores GitHub responses in a Cache under typed keys.
type GitHubCache struct {
	cache *Cache
}

func NewGitHubCache(c *Cache) *GitHubCache {
	return &GitHubCache{cache: c}
}

func (g *GitHubCache) Repositories() ([]models.Repository, bool) {
	v, ok := g.cache.Get(repositoriesKey)
	if !ok {
		return nil, false
	}
	repos, ok := v.([]models.Repository)
	return repos, ok
}

func (g *GitHubCache) SetRepositories(repos []models.Repository) {
	g.cache.Set(repositoriesKey, repos, RepositoriesTTL)
}

func (g *GitHubCache) User() (models.User, bool) {
	v, ok := g.cache.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func (g *GitHubCache) SetUser(user models.User) {
	g.cache.Set(userKey, user, UserTTL)
}

func (g *GitHubCache) PullRequests(repo, start, end string) ([]models.RawRecord, bool) {
	v, ok := g.cache.Get(PullRequestsKey(repo, start, end))
	if !ok {
		return nil, false
	}
	prs, ok := v.([]models.RawRecord)
	return prs, ok
}

func (g *GitHubCache) SetPullRequests(repo, start, end string, prs []models.RawRecord) {
	g.cache.Set(PullRequestsKey(repo, start, end), prs, PullRequestsTTL)
}

func (g *GitHubCache) Commits(repo, author, start, end string) ([]models.RawRecord, bool) {
	v, ok := g.cache.Get(CommitsKey(repo, author, start, end))
	if !ok {
		return nil, false
	}
	commits, ok := v.([]models.RawRecord)
	return commits, ok
}

func (g *GitHubCache) SetCommits(repo, author, start, end string, commits []models.RawRecord) {
	g.cache.Set(CommitsKey(repo, author, start, end), commits, CommitsTTL)
}

// ClearAll drops every GitHub entry and returns how many were removed.
func (g *GitHubCache) ClearAll() int {
	return g.cache.InvalidatePrefix(githubPrefix)
}

// Stats exposes the underlying cache statistics.
func (g *GitHubCache) Stats() Stats {
	return g.cache.Stats()
}
