package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/devrecap/internal/models"
)

func sampleResult() models.AnalysisResult {
	files := make([]models.FileChange, 12)
	for i := range files {
		files[i] = models.FileChange{Filename: fmt.Sprintf("pkg/file%d.go", i), Additions: 2, Deletions: 1}
	}
	return models.AnalysisResult{
		Type: models.AnalysisComplete,
		PullRequests: []models.PullRequest{
			{
				Number:    12,
				Title:     "Add cache layer",
				State:     "closed",
				User:      "octo",
				CreatedAt: "2024-01-10T10:00:00Z",
				Labels:    []string{"feature", "backend"},
				Commits:   []models.CommitRef{{SHA: "a"}, {SHA: "b"}},
				Files:     files,
			},
			{
				Number:    13,
				Title:     "Fix login",
				State:     "open",
				User:      "hubot",
				CreatedAt: "2024-01-15T08:00:00Z",
			},
		},
		UserCommits: []models.Commit{
			{SHA: "c1", Message: "feat: add cache\n\nlong body", Date: "2024-01-11T09:00:00Z"},
		},
		TotalUserCommits: 1,
		Repository:       "acme/api",
		Author:           "octo",
		DateRange:        models.DateLabels{Start: "2024-01-01", End: "2024-01-31"},
	}
}

func TestRenderPrompt(t *testing.T) {
	t.Run("Success - Render report prompt", func(t *testing.T) {
		data := ReportPromptData{Language: "English", PRCount: 3, Details: "PR #1: x", FormatRules: "RULES"}

		result, err := RenderPrompt("metrics", metricsPromptTemplate, data)

		require.NoError(t, err)
		assert.Contains(t, result, "MÉTRICAS Y KPIs en English")
		assert.Contains(t, result, "CONTEXTO: 3 PRs")
		assert.Contains(t, result, "PR #1: x")
		assert.True(t, strings.HasSuffix(result, "RULES"))
	})

	t.Run("Error - Invalid template syntax", func(t *testing.T) {
		result, err := RenderPrompt("invalid", "Hello {{.Name", ReportPromptData{})

		assert.Error(t, err)
		assert.Empty(t, result)
		assert.Contains(t, err.Error(), "error parsing template")
	})

	t.Run("Error - Missing field in data", func(t *testing.T) {
		result, err := RenderPrompt("missing_field", "Count: {{.PRCount}} {{.NonExistent}}", ReportPromptData{})

		assert.Error(t, err)
		assert.Empty(t, result)
		assert.Contains(t, err.Error(), "error executing template")
	})
}

func TestBuildReportPrompt(t *testing.T) {
	t.Run("executive prompt in english", func(t *testing.T) {
		prompt, err := BuildReportPrompt(sampleResult(), "en", models.ReportExecutive)

		require.NoError(t, err)
		assert.Contains(t, prompt, "informe EJECUTIVO PROFESIONAL en English")
		assert.Contains(t, prompt, "CONTEXTO: 2 PRs | 1 Commits del usuario | Período: 2024-01-01 a 2024-01-31 | Equipo: octo, hubot")
		assert.Contains(t, prompt, "# Executive Summary")
		assert.Contains(t, prompt, "## Bug Fixes")
		assert.Contains(t, prompt, "Sigue EXACTAMENTE esta estructura.")
	})

	t.Run("unknown language falls back to spanish", func(t *testing.T) {
		prompt, err := BuildReportPrompt(sampleResult(), "de", models.ReportExecutive)

		require.NoError(t, err)
		assert.Contains(t, prompt, "en español")
		assert.Contains(t, prompt, "# Resumen Ejecutivo")
	})

	t.Run("unknown type falls back to executive", func(t *testing.T) {
		prompt, err := BuildReportPrompt(sampleResult(), "fr", "quarterly")

		require.NoError(t, err)
		assert.Contains(t, prompt, "# Résumé Exécutif")
	})

	t.Run("every type renders in every language", func(t *testing.T) {
		for _, rt := range models.ReportTypes {
			for _, lang := range SupportedLanguages {
				prompt, err := BuildReportPrompt(sampleResult(), lang, rt)
				require.NoError(t, err, "%s/%s", rt, lang)
				assert.Contains(t, prompt, languageInstructions[lang].Lang)
			}
		}
	})

	t.Run("metrics and technical count files", func(t *testing.T) {
		for _, rt := range []models.ReportType{models.ReportMetrics, models.ReportTechnical} {
			prompt, err := BuildReportPrompt(sampleResult(), "es", rt)
			require.NoError(t, err)
			assert.Contains(t, prompt, "CONTEXTO: 2 PRs | 1 commits del usuario | 12 archivos")
		}
	})

	t.Run("efficiency counts authors", func(t *testing.T) {
		prompt, err := BuildReportPrompt(sampleResult(), "es", models.ReportEfficiency)

		require.NoError(t, err)
		assert.Contains(t, prompt, "CONTEXTO: 2 devs | 2 PRs | 1 commits | 2024-01-01 a 2024-01-31")
	})

	t.Run("worklog lists pull requests with status", func(t *testing.T) {
		prompt, err := BuildReportPrompt(sampleResult(), "pt", models.ReportWorklog)

		require.NoError(t, err)
		assert.Contains(t, prompt, "1. [✅] PR #12: Add cache layer\n   Autor: @octo | Fecha: 2024-01-10")
		assert.Contains(t, prompt, "2. [🔄] PR #13: Fix login\n   Autor: @hubot | Fecha: 2024-01-15")
		assert.NotContains(t, prompt, "INFORMACIÓN DEL ANÁLISIS")
	})
}

func TestBuildPRDetails(t *testing.T) {
	t.Run("structured result", func(t *testing.T) {
		details := BuildPRDetails(sampleResult())

		assert.Contains(t, details, "INFORMACIÓN DEL ANÁLISIS:\nRepositorio: acme/api\nAutor: @octo\nPeríodo: 2024-01-01 a 2024-01-31\nTotal de PRs: 2\nTotal de commits del usuario: 1\n\n")
		assert.Contains(t, details, "COMMITS DEL USUARIO (1):\n1. feat: add cache - 2024-01-11\n")
		assert.Contains(t, details, "PR #12: Add cache layer\nEstado: closed | Autor: @octo | Fecha: 2024-01-10\n")
		assert.Contains(t, details, "Etiquetas: feature, backend\n")
		assert.Contains(t, details, "Commits en PR: 2\n")
		assert.Contains(t, details, "Archivos modificados: 12 (+24, -12)\n")
		assert.Contains(t, details, "  - pkg/file9.go (+2, -1)\n")
		assert.NotContains(t, details, "pkg/file10.go")
		assert.Contains(t, details, "  ... y 2 archivos más\n")
	})

	t.Run("legacy result", func(t *testing.T) {
		result := models.AnalysisResult{
			Type: models.AnalysisPRsOnly,
			PullRequests: []models.PullRequest{
				{Number: 0, Title: "Sin número", State: "open", User: "octo", CreatedAt: "2024-02-02T00:00:00Z", Commits: []models.CommitRef{{SHA: "x"}}},
			},
		}

		details := BuildPRDetails(result)
		prompt, err := BuildReportPrompt(result, "es", models.ReportExecutive)

		require.NoError(t, err)
		assert.Contains(t, details, "PR #1: Sin número\n")
		assert.Contains(t, details, "Commits: 1\n")
		assert.NotContains(t, details, "INFORMACIÓN DEL ANÁLISIS")
		assert.Contains(t, prompt, "1 Commits del usuario | Período: 2024-02-02 a 2024-02-02")
	})
}

func TestReportTypeLabels(t *testing.T) {
	assert.Equal(t, "Work Log", ReportTypeName(models.ReportWorklog, "en"))
	assert.Equal(t, "Técnico", ReportTypeName(models.ReportTechnical, "xx"))
	assert.Equal(t, "Analyse statistique avec KPI et chiffres clés", ReportTypeDescription(models.ReportMetrics, "fr"))
	assert.Equal(t, "Ejecutivo", ReportTypeName("unknown", "es"))
	for _, rt := range models.ReportTypes {
		for _, lang := range SupportedLanguages {
			assert.NotEmpty(t, ReportTypeName(rt, lang))
			assert.NotEmpty(t, ReportTypeDescription(rt, lang))
		}
	}
}

type stubModel struct{}

func (stubModel) GetModelName() string    { return "gemini-test" }
func (stubModel) GetProviderName() string { return "gemini" }

func TestGenerationWrapper(t *testing.T) {
	t.Run("reuses responses for identical prompts", func(t *testing.T) {
		w := NewGenerationWrapper(WrapperConfig{Provider: stubModel{}})
		calls := 0
		fn := func(_ context.Context, model, prompt string) (string, *models.TokenUsage, error) {
			calls++
			assert.Equal(t, "gemini-test", model)
			return "# Report", &models.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
		}

		text, usage, err := w.WrapGenerate(context.Background(), "report", "prompt", fn)
		require.NoError(t, err)
		assert.Equal(t, "# Report", text)
		assert.Equal(t, "gemini-test", usage.Model)
		assert.False(t, usage.CacheHit)

		text, usage, err = w.WrapGenerate(context.Background(), "report", "prompt", fn)
		require.NoError(t, err)
		assert.Equal(t, "# Report", text)
		assert.True(t, usage.CacheHit)
		assert.Equal(t, 15, usage.TotalTokens)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		w := NewGenerationWrapper(WrapperConfig{Provider: stubModel{}})
		calls := 0
		fn := func(context.Context, string, string) (string, *models.TokenUsage, error) {
			calls++
			return "", nil, errors.New("boom")
		}

		_, _, err1 := w.WrapGenerate(context.Background(), "report", "p", fn)
		_, _, err2 := w.WrapGenerate(context.Background(), "report", "p", fn)

		assert.Error(t, err1)
		assert.Error(t, err2)
		assert.Equal(t, 2, calls)
	})

	t.Run("prompt hash depends on model", func(t *testing.T) {
		assert.NotEqual(t, HashPrompt("gemini", "a", "p"), HashPrompt("gemini", "b", "p"))
		assert.Equal(t, HashPrompt("gemini", "a", "p"), HashPrompt("gemini", "a", "p"))
	})
}
