package vcs

import (
	"context"
	"time"

	"github.com/thomas-vilte/devrecap/internal/models"
)

// VCSClient is the read-only view of a hosting provider used to collect
// activity for a user.
type VCSClient interface {
	// GetAuthenticatedUser returns the principal that owns the token.
	GetAuthenticatedUser(ctx context.Context) (models.User, error)
	// DiscoverRepositories returns every repository the principal can see,
	// newest update first.
	DiscoverRepositories(ctx context.Context) ([]models.Repository, error)
	// SearchPullRequests returns pull requests authored by author in repo
	// (owner/name) created within [start, end].
	SearchPullRequests(ctx context.Context, author, repo string, start, end time.Time) ([]models.RawRecord, error)
	// GetPRDetails fetches a pull request together with its commits and files.
	GetPRDetails(ctx context.Context, owner, repo string, number int) (models.PRDetails, error)
	// ListCommitsByAuthor lists commits by author from the start of start's day
	// to the end of end's day, capped at limit.
	ListCommitsByAuthor(ctx context.Context, owner, repo, author string, start, end time.Time, limit int) ([]models.RawRecord, error)
}
