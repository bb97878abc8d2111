package gemini

import (
	"strings"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/regex"
	"google.golang.org/genai"
)

// Generation parameters for report writing.
const (
	reportTemperature = 0.7
	reportTopK        = 40
	reportTopP        = 0.95
	reportMaxTokens   = 8192
)

// extractUsage extracts usage metadata from the Gemini response
func extractUsage(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}

// GetGenerateConfig returns the generation config for reports, enabling
// thinking on models that support it.
func GetGenerateConfig(modelName string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     float32Ptr(reportTemperature),
		TopK:            float32Ptr(reportTopK),
		TopP:            float32Ptr(reportTopP),
		MaxOutputTokens: reportMaxTokens,
	}

	if strings.HasPrefix(modelName, "gemini-3") {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingLevel: genai.ThinkingLevelHigh,
		}
	}

	return config
}

func float32Ptr(f float32) *float32 {
	return &f
}

// formatResponse joins the text parts of every candidate, skipping thoughts.
func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var formattedContent strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			formattedContent.WriteString(part.Text)
		}
	}
	return formattedContent.String()
}

// cleanMarkdown removes a ```markdown fence wrapping the whole response.
func cleanMarkdown(text string) string {
	if m := regex.MarkdownWrapper.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// classifyError maps a Gemini failure to a domain error by its message.
func classifyError(err error) *domainErrors.AppError {
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted") ||
		strings.Contains(errMsg, "resource_exhausted"):
		return domainErrors.ErrGeminiQuotaExceeded.WithError(err)
	case strings.Contains(errMsg, "not found") ||
		strings.Contains(errMsg, "not_found"):
		return domainErrors.ErrAIModelNotFound.WithError(err)
	case strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "api key") ||
		strings.Contains(errMsg, "permission denied"):
		return domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
	}
	return domainErrors.ErrAIGeneration.WithError(err)
}
