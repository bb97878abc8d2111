package ai

import (
	"context"

	"github.com/thomas-vilte/devrecap/internal/models"
)

// ReportGenerator turns a rendered report prompt into markdown.
type ReportGenerator interface {
	// GenerateReport sends prompt to the model and returns the markdown text
	// together with the tokens it used, when the provider reports them.
	GenerateReport(ctx context.Context, prompt string) (string, *models.TokenUsage, error)
}

// ModelInfo is implemented by generators that can name the model they call.
type ModelInfo interface {
	GetModelName() string
	GetProviderName() string
}

// GenerateFunc performs one model call.
type GenerateFunc func(ctx context.Context, model string, prompt string) (string, *models.TokenUsage, error)
