package gemini

import (
	"context"

	"github.com/thomas-vilte/devrecap/internal/ai"
	"github.com/thomas-vilte/devrecap/internal/cache"
	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/models"
	"google.golang.org/genai"
)

var _ ai.ReportGenerator = (*GeminiReportGenerator)(nil)

// GeminiReportGenerator writes markdown reports with a Gemini model.
type GeminiReportGenerator struct {
	*GeminiProvider
	wrapper    *ai.GenerationWrapper
	generateFn ai.GenerateFunc
}

type GeneratorOption func(*ai.WrapperConfig)

// WithResponseCache stores generated reports in c instead of a private cache.
func WithResponseCache(c *cache.Cache) GeneratorOption {
	return func(w *ai.WrapperConfig) {
		w.Cache = c
	}
}

func NewGeminiReportGenerator(ctx context.Context, cfg *config.Config, opts ...GeneratorOption) (*GeminiReportGenerator, error) {
	client, err := newClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	service := &GeminiReportGenerator{
		GeminiProvider: NewGeminiProvider(client, cfg.GeminiModel),
	}
	wrapperCfg := ai.WrapperConfig{Provider: service}
	for _, opt := range opts {
		opt(&wrapperCfg)
	}
	service.wrapper = ai.NewGenerationWrapper(wrapperCfg)
	service.generateFn = service.defaultGenerate

	return service, nil
}

func (g *GeminiReportGenerator) defaultGenerate(ctx context.Context, mName string, p string) (string, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	resp, err := g.Client.Models.GenerateContent(ctx, mName, genai.Text(p), GetGenerateConfig(mName))
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", mName)
		return "", nil, classifyError(err)
	}

	log.Debug("gemini response received",
		"candidates_count", len(resp.Candidates))

	text := formatResponse(resp)
	if text == "" {
		return "", nil, domainErrors.ErrInvalidAIOutput.
			WithContext("reason", "no text candidates").
			WithContext("operation", "generate report")
	}
	return text, extractUsage(resp), nil
}

// GenerateReport sends prompt to the model and returns the markdown report
// without any wrapping code fence.
func (g *GeminiReportGenerator) GenerateReport(ctx context.Context, prompt string) (string, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	log.Info("generating report via gemini",
		"model", g.GetModelName(),
		"prompt_length", len(prompt))

	text, usage, err := g.wrapper.WrapGenerate(ctx, "report", prompt, g.generateFn)
	if err != nil {
		log.Error("failed to generate report",
			"error", err)
		return "", nil, err
	}

	text = cleanMarkdown(text)
	if text == "" {
		return "", nil, domainErrors.ErrInvalidAIOutput.
			WithContext("reason", "empty response from AI").
			WithContext("operation", "generate report")
	}

	log.Info("report generated successfully via gemini",
		"length", len(text))

	return text, usage, nil
}
