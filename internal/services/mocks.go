package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/devrecap/internal/models"
)

type (
	MockVCSClient struct {
		mock.Mock
	}

	MockReportGenerator struct {
		mock.Mock
	}

	MockSearchHistory struct {
		mock.Mock
	}

	MockDraftStore struct {
		mock.Mock
	}
)

func (m *MockVCSClient) GetAuthenticatedUser(ctx context.Context) (models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockVCSClient) DiscoverRepositories(ctx context.Context) ([]models.Repository, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Repository), args.Error(1)
}

func (m *MockVCSClient) SearchPullRequests(ctx context.Context, author, repo string, start, end time.Time) ([]models.RawRecord, error) {
	args := m.Called(ctx, author, repo, start, end)
	return args.Get(0).([]models.RawRecord), args.Error(1)
}

func (m *MockVCSClient) GetPRDetails(ctx context.Context, owner, repo string, number int) (models.PRDetails, error) {
	args := m.Called(ctx, owner, repo, number)
	return args.Get(0).(models.PRDetails), args.Error(1)
}

func (m *MockVCSClient) ListCommitsByAuthor(ctx context.Context, owner, repo, author string, start, end time.Time, limit int) ([]models.RawRecord, error) {
	args := m.Called(ctx, owner, repo, author, start, end, limit)
	return args.Get(0).([]models.RawRecord), args.Error(1)
}

func (m *MockReportGenerator) GenerateReport(ctx context.Context, prompt string) (string, *models.TokenUsage, error) {
	args := m.Called(ctx, prompt)
	var usage *models.TokenUsage
	if u := args.Get(1); u != nil {
		usage = u.(*models.TokenUsage)
	}
	return args.String(0), usage, args.Error(2)
}

func (m *MockSearchHistory) AddSearch(entry models.SearchHistoryEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockDraftStore) SaveDraft(draft models.Draft) (models.Draft, error) {
	args := m.Called(draft)
	return args.Get(0).(models.Draft), args.Error(1)
}
