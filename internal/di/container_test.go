package di

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/devrecap/internal/ai"
	"github.com/thomas-vilte/devrecap/internal/cache"
	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/vcs"
)

func newTestContainer(t *testing.T, cfg *config.Config, opts ...Option) (*Container, *services.MockVCSClient, *int) {
	t.Helper()
	client := new(services.MockVCSClient)
	built := 0
	opts = append([]Option{
		WithStateDir(t.TempDir()),
		WithVCSClientFactory(func(token string) vcs.VCSClient {
			built++
			return client
		}),
	}, opts...)
	return NewContainer(cfg, nil, opts...), client, &built
}

func TestContainer_VCSClient(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		// Arrange
		c, _, built := newTestContainer(t, &config.Config{})

		// Act
		_, err := c.VCSClient()

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrGitHubTokenMissing))
		assert.Equal(t, 0, *built)
	})

	t.Run("builds the client once", func(t *testing.T) {
		c, client, built := newTestContainer(t, &config.Config{GitHubToken: "ghp"})

		first, err := c.VCSClient()
		require.NoError(t, err)
		second, err := c.VCSClient()
		require.NoError(t, err)

		assert.Same(t, client, first)
		assert.Same(t, first, second)
		assert.Equal(t, 1, *built)
	})
}

func TestContainer_Services(t *testing.T) {
	t.Run("repository service uses the shared cache", func(t *testing.T) {
		c, client, _ := newTestContainer(t, &config.Config{GitHubToken: "ghp"})
		client.On("DiscoverRepositories", mock.Anything).
			Return([]models.Repository{{ID: 1, FullName: "acme/api"}}, nil).Once()
		svc, err := c.RepositoryService()
		require.NoError(t, err)

		_, err = svc.Load(context.Background(), false)
		require.NoError(t, err)

		cached, ok := c.GitHubCache().Repositories()
		assert.True(t, ok)
		assert.Len(t, cached, 1)
		client.AssertExpectations(t)
	})

	t.Run("search service needs a token", func(t *testing.T) {
		c, _, _ := newTestContainer(t, &config.Config{})

		_, err := c.SearchService(context.Background())

		assert.True(t, errors.Is(err, domainErrors.ErrGitHubTokenMissing))
	})

	t.Run("store lives in the state dir", func(t *testing.T) {
		dir := t.TempDir()
		c, _, _ := newTestContainer(t, &config.Config{}, WithStateDir(dir))

		s, err := c.Store()
		require.NoError(t, err)
		require.NoError(t, s.AddSearch(models.SearchHistoryEntry{Repository: "acme/api"}))

		assert.FileExists(t, filepath.Join(dir, "search_history.json"))
	})

	t.Run("state dir defaults to the config dir", func(t *testing.T) {
		dir := t.TempDir()
		c := NewContainer(&config.Config{PathFile: filepath.Join(dir, "config.json")}, nil)

		assert.Equal(t, dir, c.stateDir)
	})
}

func TestContainer_ReportService(t *testing.T) {
	result := models.AnalysisResult{PullRequests: []models.PullRequest{{Number: 1, Title: "x"}}}

	t.Run("without a key generation fails", func(t *testing.T) {
		called := false
		c, _, _ := newTestContainer(t, &config.Config{}, WithGeneratorFactory(
			func(ctx context.Context, cfg *config.Config, ch *cache.Cache) (ai.ReportGenerator, error) {
				called = true
				return nil, nil
			}))

		svc, err := c.ReportService(context.Background())
		require.NoError(t, err)
		_, err = svc.Generate(context.Background(), result, "es", models.ReportExecutive)

		assert.True(t, errors.Is(err, domainErrors.ErrAPIKeyMissing))
		assert.False(t, called)
	})

	t.Run("passes the shared cache to the generator", func(t *testing.T) {
		shared := cache.New()
		gen := new(services.MockReportGenerator)
		gen.On("GenerateReport", mock.Anything, mock.Anything).Return("# Hola", nil, nil).Once()
		var gotCache *cache.Cache
		c, _, _ := newTestContainer(t, &config.Config{GeminiAPIKey: "key"},
			WithCache(shared),
			WithGeneratorFactory(func(ctx context.Context, cfg *config.Config, ch *cache.Cache) (ai.ReportGenerator, error) {
				gotCache = ch
				return gen, nil
			}))

		svc, err := c.ReportService(context.Background())
		require.NoError(t, err)
		report, err := svc.Generate(context.Background(), result, "es", models.ReportExecutive)

		require.NoError(t, err)
		assert.Same(t, shared, gotCache)
		assert.Equal(t, "# Hola", report.Markdown)
	})

	t.Run("generator errors are returned", func(t *testing.T) {
		c, _, _ := newTestContainer(t, &config.Config{GeminiAPIKey: "key"}, WithGeneratorFactory(
			func(ctx context.Context, cfg *config.Config, ch *cache.Cache) (ai.ReportGenerator, error) {
				return nil, domainErrors.ErrGeminiAPIKeyInvalid
			}))

		_, err := c.ReportService(context.Background())

		assert.True(t, errors.Is(err, domainErrors.ErrGeminiAPIKeyInvalid))
	})
}

func TestContainer_AuthService(t *testing.T) {
	c, client, built := newTestContainer(t, &config.Config{})
	client.On("GetAuthenticatedUser", mock.Anything).Return(models.User{Login: "octo"}, nil).Once()

	user, err := c.AuthService().Login(context.Background(), "ghp_new")

	require.NoError(t, err)
	assert.Equal(t, "octo", user.Login)
	assert.Equal(t, 1, *built)
	cached, ok := c.GitHubCache().User()
	assert.True(t, ok)
	assert.Equal(t, "octo", cached.Login)
}
