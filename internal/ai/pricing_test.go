package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/devrecap/internal/models"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
	}{
		{name: "exact model", model: "gemini-2.0-flash", input: 1_000_000, output: 1_000_000, want: 0.50},
		{name: "versioned name uses the longest prefix", model: "gemini-2.0-flash-lite-001", input: 1_000_000, output: 0, want: 0.075},
		{name: "case insensitive", model: "Gemini-2.5-Pro", input: 0, output: 100_000, want: 1.00},
		{name: "unknown model", model: "gpt-4o", input: 1000, output: 1000, want: 0},
		{name: "no tokens", model: "gemini-2.5-flash", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateCost(tt.model, tt.input, tt.output)

			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestGenerationWrapperStampsCost(t *testing.T) {
	// Arrange
	w := NewGenerationWrapper(WrapperConfig{Provider: pricedModel{}})

	// Act
	_, usage, err := w.WrapGenerate(context.Background(), "report", "prompt",
		func(ctx context.Context, model, prompt string) (string, *models.TokenUsage, error) {
			return "# Report", &models.TokenUsage{InputTokens: 500_000, OutputTokens: 250_000, TotalTokens: 750_000}, nil
		})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 0.15, usage.EstimatedCostUSD, 1e-9)
}

type pricedModel struct{}

func (pricedModel) GetProviderName() string { return "gemini" }
func (pricedModel) GetModelName() string    { return "gemini-2.0-flash" }
