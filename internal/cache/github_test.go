package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/devrecap/internal/models"
)

func TestGitHubCache_Keys(t *testing.T) {
	assert.Equal(t, "github:prs:octo/repo:2024-01-01:2024-01-31", PullRequestsKey("octo/repo", "2024-01-01", "2024-01-31"))
	assert.Equal(t, "github:commits:octo/repo:alice:2024-01-01:2024-01-31", CommitsKey("octo/repo", "alice", "2024-01-01", "2024-01-31"))
}

func TestGitHubCache_TTLs(t *testing.T) {
	t.Run("pull requests expire after two minutes", func(t *testing.T) {
		c, clock := setupTestCache()
		gc := NewGitHubCache(c)
		gc.SetPullRequests("o/r", "s", "e", []models.RawRecord{{"number": 1}})

		clock.Advance(PullRequestsTTL - time.Second)
		prs, ok := gc.PullRequests("o/r", "s", "e")
		assert.True(t, ok)
		assert.Len(t, prs, 1)

		clock.Advance(time.Second)
		_, ok = gc.PullRequests("o/r", "s", "e")
		assert.False(t, ok)
	})

	t.Run("user outlives repositories", func(t *testing.T) {
		c, clock := setupTestCache()
		gc := NewGitHubCache(c)
		gc.SetUser(models.User{Login: "alice"})
		gc.SetRepositories([]models.Repository{{ID: 42}})

		clock.Advance(RepositoriesTTL)

		_, reposOK := gc.Repositories()
		user, userOK := gc.User()
		assert.False(t, reposOK)
		assert.True(t, userOK)
		assert.Equal(t, "alice", user.Login)
	})

	t.Run("commits are keyed by author", func(t *testing.T) {
		c, _ := setupTestCache()
		gc := NewGitHubCache(c)
		gc.SetCommits("o/r", "alice", "s", "e", []models.RawRecord{{"sha": "abc"}})

		_, ok := gc.Commits("o/r", "bob", "s", "e")
		assert.False(t, ok)
		commits, ok := gc.Commits("o/r", "alice", "s", "e")
		assert.True(t, ok)
		assert.Equal(t, "abc", commits[0]["sha"])
	})
}

func TestGitHubCache_ClearAll(t *testing.T) {
	c, _ := setupTestCache()
	gc := NewGitHubCache(c)
	gc.SetUser(models.User{Login: "alice"})
	gc.SetRepositories(nil)
	c.Set("unrelated", true, time.Minute)

	assert.Equal(t, 2, gc.ClearAll())
	assert.Equal(t, 1, gc.Stats().Total)
}
