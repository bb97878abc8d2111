package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/di"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/vcs"
	"github.com/urfave/cli/v3"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

func setup(t *testing.T) (*SearchCommandFactory, *services.MockVCSClient, *i18n.Translations, *config.Config) {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	cfg := &config.Config{GitHubToken: "ghp", MaxPRs: 50, MaxCommits: 50}
	client := new(services.MockVCSClient)
	container := di.NewContainer(cfg, trans,
		di.WithStateDir(t.TempDir()),
		di.WithVCSClientFactory(func(string) vcs.VCSClient { return client }))
	f := NewSearchCommandFactory(container)
	f.now = fixedNow
	return f, client, trans, cfg
}

func run(t *testing.T, cmd *cli.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := &cli.Command{Name: "devrecap", Writer: &buf, Commands: []*cli.Command{cmd}}
	err := root.Run(context.Background(), append([]string{"devrecap"}, args...))
	return buf.String(), err
}

func prRecord(number int, title string) models.RawRecord {
	return models.RawRecord{
		"number":     float64(number),
		"title":      title,
		"state":      "closed",
		"user":       map[string]interface{}{"login": "octo"},
		"created_at": "2024-01-10T10:00:00Z",
	}
}

func TestSearchCommand(t *testing.T) {
	t.Run("prints the result as json and saves it", func(t *testing.T) {
		// Arrange
		f, client, trans, cfg := setup(t)
		client.On("GetAuthenticatedUser", mock.Anything).Return(models.User{Login: "octo"}, nil).Once()
		client.On("SearchPullRequests", mock.Anything, "octo", "acme/api", mock.Anything, mock.Anything).
			Return([]models.RawRecord{prRecord(7, "Add cache")}, nil).Once()
		client.On("GetPRDetails", mock.Anything, "acme", "api", 7).Return(models.PRDetails{}, nil).Once()
		out := filepath.Join(t.TempDir(), "result.json")

		// Act
		stdout, err := run(t, f.CreateCommand(trans, cfg), "search",
			"--repo", "acme/api", "--from", "2024-01-01", "--to", "2024-01-31",
			"--scope", "prs", "--json", "--output", out)

		// Assert
		require.NoError(t, err)
		jsonStart := bytes.IndexByte([]byte(stdout), '{')
		require.GreaterOrEqual(t, jsonStart, 0)
		var printed models.AnalysisResult
		require.NoError(t, json.Unmarshal([]byte(stdout[jsonStart:]), &printed))
		assert.Equal(t, models.AnalysisPRsOnly, printed.Type)
		require.Len(t, printed.PullRequests, 1)
		assert.Equal(t, "Add cache", printed.PullRequests[0].Title)

		saved, err := ReadResult(out)
		require.NoError(t, err)
		assert.Equal(t, printed.PullRequests, saved.PullRequests)
		client.AssertExpectations(t)
	})

	t.Run("prints a readable summary", func(t *testing.T) {
		f, client, trans, cfg := setup(t)
		client.On("GetAuthenticatedUser", mock.Anything).Return(models.User{Login: "octo"}, nil).Once()
		client.On("SearchPullRequests", mock.Anything, "octo", "acme/api", mock.Anything, mock.Anything).
			Return([]models.RawRecord{prRecord(7, "Add cache")}, nil).Once()
		client.On("GetPRDetails", mock.Anything, "acme", "api", 7).Return(models.PRDetails{}, nil).Once()

		stdout, err := run(t, f.CreateCommand(trans, cfg), "search",
			"-r", "acme/api", "--from", "2024-01-01", "--to", "2024-01-31", "--scope", "prs")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Activity in acme/api")
		assert.Contains(t, stdout, "#7 Add cache")
	})

	t.Run("requires a repository", func(t *testing.T) {
		f, client, trans, cfg := setup(t)

		_, err := run(t, f.CreateCommand(trans, cfg), "search")

		var vErr *domainErrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "repository", vErr.Field)
		client.AssertNotCalled(t, "GetAuthenticatedUser", mock.Anything)
	})
}

func TestOptions(t *testing.T) {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	cfg := &config.Config{MaxPRs: 20, MaxCommits: 30}

	tests := []struct {
		name string
		args []string
		want services.SearchOptions
	}{
		{
			name: "defaults to the last thirty days and the configured limits",
			args: []string{"--repo", " acme/api "},
			want: services.SearchOptions{Repository: "acme/api", StartDate: "2024-02-14", EndDate: "2024-03-15", Scope: models.ScopeBoth, MaxPRs: 20, MaxCommits: 30},
		},
		{
			name: "flags win",
			args: []string{"--repo", "acme/api", "--from", "2024-01-01", "--to", "2024-01-31", "--scope", "COMMITS", "--max-prs", "5", "--max-commits", "500"},
			want: services.SearchOptions{Repository: "acme/api", StartDate: "2024-01-01", EndDate: "2024-01-31", Scope: models.ScopeCommits, MaxPRs: 5, MaxCommits: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got services.SearchOptions
			cmd := &cli.Command{
				Name:  "probe",
				Flags: Flags(trans),
				Action: func(_ context.Context, cmd *cli.Command) error {
					got = Options(cmd, cfg, fixedNow)
					return nil
				},
			}

			_, err := run(t, cmd, append([]string{"probe"}, tt.args...)...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProgressMessage(t *testing.T) {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	t.Run("translates known events", func(t *testing.T) {
		msg := ProgressMessage(trans, models.ProgressEvent{Percent: 50, MessageID: "progress_fetching_details", Count: 3})

		assert.Equal(t, "[50%] Fetching details of 3 pull requests...", msg)
	})

	t.Run("falls back to the event text", func(t *testing.T) {
		msg := ProgressMessage(trans, models.ProgressEvent{Percent: 10, MessageID: "progress_unknown", Message: "Working"})

		assert.Equal(t, "[10%] Working", msg)
	})
}
