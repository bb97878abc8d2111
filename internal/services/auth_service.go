package services

import (
	"context"
	"strings"

	"github.com/thomas-vilte/devrecap/internal/cache"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// UserGetter is the method AuthService needs from a VCS provider.
type UserGetter interface {
	GetAuthenticatedUser(ctx context.Context) (models.User, error)
}

// ClientFactory builds a VCS client authenticated with token.
type ClientFactory func(token string) UserGetter

// AuthService checks GitHub tokens and resolves the user that owns them.
type AuthService struct {
	newClient ClientFactory
	cache     *cache.GitHubCache
}

func NewAuthService(newClient ClientFactory, c *cache.GitHubCache) *AuthService {
	if c == nil {
		c = cache.NewGitHubCache(cache.New())
	}
	return &AuthService{newClient: newClient, cache: c}
}

// Login verifies token against GitHub and caches the resulting user.
func (s *AuthService) Login(ctx context.Context, token string) (models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.User{}, domainErrors.ErrGitHubTokenMissing
	}

	user, err := s.newClient(token).GetAuthenticatedUser(ctx)
	if err != nil {
		return models.User{}, domainErrors.Wrap(err, "inicio de sesión")
	}

	s.cache.SetUser(user)
	logger.Info(ctx, "authenticated", "login", user.Login)
	return user, nil
}

// CurrentUser returns the cached user or asks GitHub with token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	if user, ok := s.cache.User(); ok {
		return user, nil
	}
	return s.Login(ctx, token)
}
