package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/devrecap/internal/cache"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

func sampleRepositories() []models.Repository {
	return []models.Repository{
		{ID: 1, FullName: "octo/dotfiles", Description: "My shell setup", OwnerType: "User"},
		{ID: 2, FullName: "acme/api", Description: "Billing API", OwnerType: "Organization", Private: true},
		{ID: 3, FullName: "acme/web", OwnerType: "Organization"},
	}
}

func TestRepositoryService_Load(t *testing.T) {
	t.Run("should cache discovered repositories", func(t *testing.T) {
		// Arrange
		vcs := new(MockVCSClient)
		service := NewRepositoryService(
			WithRepositoryVCSClient(vcs),
			WithRepositoryCache(cache.NewGitHubCache(cache.New())),
		)
		vcs.On("DiscoverRepositories", mock.Anything).Return(sampleRepositories(), nil).Once()

		// Act
		first, err := service.Load(context.Background(), false)
		require.NoError(t, err)
		second, err := service.Load(context.Background(), false)
		require.NoError(t, err)

		// Assert
		assert.Len(t, first, 3)
		assert.Equal(t, first, second)
		vcs.AssertExpectations(t)
	})

	t.Run("should bypass cache on force refresh", func(t *testing.T) {
		vcs := new(MockVCSClient)
		service := NewRepositoryService(WithRepositoryVCSClient(vcs))
		vcs.On("DiscoverRepositories", mock.Anything).Return(sampleRepositories(), nil).Twice()

		_, err := service.Load(context.Background(), false)
		require.NoError(t, err)
		_, err = service.Load(context.Background(), true)
		require.NoError(t, err)

		vcs.AssertNumberOfCalls(t, "DiscoverRepositories", 2)
	})

	t.Run("should normalize failures", func(t *testing.T) {
		vcs := new(MockVCSClient)
		service := NewRepositoryService(WithRepositoryVCSClient(vcs))
		vcs.On("DiscoverRepositories", mock.Anything).
			Return([]models.Repository(nil), &domainErrors.StatusError{StatusCode: http.StatusNotFound})

		_, err := service.Load(context.Background(), false)

		var apiErr *domainErrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Message, "carga de repositorios")
	})
}

func TestRepositoryService_FilterAndStats(t *testing.T) {
	vcs := new(MockVCSClient)
	service := NewRepositoryService(WithRepositoryVCSClient(vcs))
	vcs.On("DiscoverRepositories", mock.Anything).Return(sampleRepositories(), nil)
	_, err := service.Load(context.Background(), false)
	require.NoError(t, err)

	t.Run("filter by name", func(t *testing.T) {
		got := service.Filter("ACME")
		assert.Len(t, got, 2)
	})

	t.Run("filter by description", func(t *testing.T) {
		got := service.Filter("billing")
		require.Len(t, got, 1)
		assert.Equal(t, "acme/api", got[0].FullName)
	})

	t.Run("empty filter returns all", func(t *testing.T) {
		assert.Len(t, service.Filter(""), 3)
	})

	t.Run("stats", func(t *testing.T) {
		assert.Equal(t, models.RepositoryStats{Total: 3, Public: 2, Private: 1, Owned: 1, Organization: 2}, service.Stats())
	})
}
