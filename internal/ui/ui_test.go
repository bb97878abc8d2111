package ui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func translations(t *testing.T) *i18n.Translations {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return trans
}

func TestHandleAppError(t *testing.T) {
	trans := translations(t)

	tests := []struct {
		name     string
		err      error
		contains []string
		absent   []string
	}{
		{
			name:     "validation error shows only its message",
			err:      fmt.Errorf("search: %w", domainErrors.NewValidationError(domainErrors.KindFormat, "repository", "Use owner/repo")),
			contains: []string{"Use owner/repo"},
			absent:   []string{"search:"},
		},
		{
			name: "api error with status and hint",
			err: &domainErrors.APIError{
				Kind:       domainErrors.KindRateLimit,
				Message:    "Rate limit exceeded",
				StatusCode: 403,
			},
			contains: []string{"Rate limit exceeded", "HTTP 403", "Try:", "GitHub rate limit reached"},
		},
		{
			name:     "api error without status",
			err:      &domainErrors.APIError{Kind: domainErrors.KindTransport, Message: "Connection failed"},
			contains: []string{"Connection failed", "Check your internet connection"},
			absent:   []string{"HTTP"},
		},
		{
			name:     "app error with cause and suggestion",
			err:      domainErrors.ErrDraftNotFound.WithError(errors.New("no such id")),
			contains: []string{"STORAGE: draft not found", "Details: no such id", "devrecap drafts list"},
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			contains: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			HandleAppError(&buf, tt.err, trans)

			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}

	t.Run("nil error prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		HandleAppError(&buf, nil, trans)
		assert.Empty(t, buf.String())
	})

	t.Run("without translations api hints are skipped", func(t *testing.T) {
		var buf bytes.Buffer
		HandleAppError(&buf, &domainErrors.APIError{Kind: domainErrors.KindAuth, Message: "Token invalid"})
		assert.Contains(t, buf.String(), "Token invalid")
		assert.NotContains(t, buf.String(), "Try:")
	})
}

func TestPrintRepositories(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	repos := []models.Repository{
		{FullName: "acme/api", OwnerType: "Organization", Language: "Go", UpdatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{FullName: "octo/notes", OwnerType: "User", Private: true},
	}

	// Act
	err := PrintRepositories(&buf, repos, translations(t))

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "REPOSITORY")
	assert.Contains(t, out, "acme/api")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "private")
	assert.Contains(t, out, "-")
	assert.Less(t, strings.Index(out, "acme/api"), strings.Index(out, "octo/notes"))
}

func TestPrintDrafts(t *testing.T) {
	var buf bytes.Buffer
	drafts := []models.Draft{{
		ID:        "d1",
		Title:     "Weekly",
		Document:  models.Document{Blocks: []models.Block{{Type: models.BlockParagraph}}},
		UpdatedAt: time.Now(),
	}}

	require.NoError(t, PrintDrafts(&buf, drafts, translations(t)))

	assert.Contains(t, buf.String(), "d1")
	assert.Contains(t, buf.String(), "Weekly")
}

func TestPrintFileTree(t *testing.T) {
	t.Run("directories first then files", func(t *testing.T) {
		// Arrange
		var buf bytes.Buffer
		files := []models.FileChange{
			{Filename: "README.md", Additions: 1},
			{Filename: "internal/cache/cache.go", Additions: 40, Deletions: 2},
			{Filename: "internal/cache/cache_test.go", Additions: 10, Deletions: 30},
		}

		// Act
		PrintFileTree(&buf, "Files", files)

		// Assert
		want := strings.Join([]string{
			"",
			"Files",
			"├── internal/",
			"│   └── cache/",
			"│       ├── cache.go (+40, -2)",
			"│       └── cache_test.go (+10, -30)",
			"└── README.md (+1, -0)",
			"",
		}, "\n")
		assert.Equal(t, want, buf.String())
	})

	t.Run("no files prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		PrintFileTree(&buf, "Files", nil)
		assert.Empty(t, buf.String())
	})
}

func TestPrintTokenUsage(t *testing.T) {
	trans := translations(t)

	t.Run("full usage", func(t *testing.T) {
		var buf bytes.Buffer

		PrintTokenUsage(&buf, &models.TokenUsage{
			InputTokens:  120,
			OutputTokens: 80,
			TotalTokens:  200,
			Model:        "gemini-2.0-flash",
			DurationMs:   350,
			CacheHit:     true,

			EstimatedCostUSD: 0.0125,
		}, trans)

		out := buf.String()
		assert.Contains(t, out, "Token usage")
		assert.Contains(t, out, "Input 120 | Output 80 | Total 200")
		assert.Contains(t, out, "Model: gemini-2.0-flash")
		assert.Contains(t, out, "Served from cache")
		assert.Contains(t, out, "350ms")
		assert.Contains(t, out, "Estimated cost: $0.0125")
	})

	t.Run("nil usage", func(t *testing.T) {
		var buf bytes.Buffer
		PrintTokenUsage(&buf, nil, trans)
		assert.Empty(t, buf.String())
	})
}

func TestAskConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"si\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			var buf bytes.Buffer

			got := AskConfirmation(&buf, strings.NewReader(tt.input), "Delete?")

			assert.Equal(t, tt.want, got)
			assert.Contains(t, buf.String(), "Delete? (y/n)")
		})
	}
}

func TestWithSpinnerAndDuration(t *testing.T) {
	t.Run("reports completion", func(t *testing.T) {
		var buf bytes.Buffer

		err := WithSpinnerAndDuration(&buf, "Working", "Done", func(_ *SmartSpinner) error { return nil })

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Done")
	})

	t.Run("returns the error without the done message", func(t *testing.T) {
		var buf bytes.Buffer
		boom := errors.New("boom")

		err := WithSpinnerAndDuration(&buf, "Working", "Done", func(_ *SmartSpinner) error { return boom })

		assert.ErrorIs(t, err, boom)
		assert.Empty(t, buf.String())
	})
}
