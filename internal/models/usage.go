package models

// TokenUsage reports what a generation call consumed.
type TokenUsage struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
	Model        string `json:"model,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
	CacheHit     bool   `json:"cache_hit,omitempty"`

	// EstimatedCostUSD is derived from the public price list; 0 when unknown.
	EstimatedCostUSD float64 `json:"estimated_cost_usd,omitempty"`
}
