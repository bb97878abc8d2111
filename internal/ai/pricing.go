package ai

import "strings"

// Pricing is the price in USD per million tokens.
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// https://ai.google.dev/gemini-api/docs/pricing
var geminiPricing = map[string]Pricing{
	"gemini-1.5-flash":      {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"gemini-1.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 5.00},
	"gemini-2.0-flash":      {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.0-flash-lite": {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"gemini-2.5-flash":      {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-pro":        {InputPerMillion: 1.25, OutputPerMillion: 10.00},
}

// LookupPricing finds the pricing of model. Versioned names such as
// gemini-2.0-flash-001 resolve to the longest known prefix.
func LookupPricing(model string) (Pricing, bool) {
	model = strings.ToLower(strings.TrimSpace(model))
	if p, ok := geminiPricing[model]; ok {
		return p, true
	}

	best := ""
	for name := range geminiPricing {
		if strings.HasPrefix(model, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return Pricing{}, false
	}
	return geminiPricing[best], true
}

// EstimateCost returns the USD cost of a call, or 0 for unknown models.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := LookupPricing(model)
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000*p.InputPerMillion +
		float64(outputTokens)/1_000_000*p.OutputPerMillion
}
