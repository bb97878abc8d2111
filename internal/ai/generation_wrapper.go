package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/thomas-vilte/devrecap/internal/cache"
	"github.com/thomas-vilte/devrecap/internal/models"
)

// DefaultResponseTTL is how long a generated response is reused for an
// identical prompt.
const DefaultResponseTTL = 30 * time.Minute

type cachedResponse struct {
	text  string
	usage *models.TokenUsage
}

// GenerationWrapper reuses responses for identical prompts and stamps token
// usage with model, cost and duration.
type GenerationWrapper struct {
	provider ModelInfo
	cache    *cache.Cache
	ttl      time.Duration
	now      func() time.Time
}

type WrapperConfig struct {
	Provider ModelInfo
	Cache    *cache.Cache
	TTL      time.Duration
}

func NewGenerationWrapper(cfg WrapperConfig) *GenerationWrapper {
	w := &GenerationWrapper{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
	if w.cache == nil {
		w.cache = cache.New()
	}
	if w.ttl <= 0 {
		w.ttl = DefaultResponseTTL
	}
	return w
}

// HashPrompt returns the cache key for prompt sent to model.
func HashPrompt(provider, model, prompt string) string {
	sum := sha256.Sum256([]byte(provider + model + prompt))
	return "ai:" + hex.EncodeToString(sum[:])
}

// WrapGenerate runs generateFn unless the same prompt was answered within the
// TTL. Failed generations are not cached.
func (w *GenerationWrapper) WrapGenerate(
	ctx context.Context,
	command string,
	prompt string,
	generateFn GenerateFunc,
) (string, *models.TokenUsage, error) {
	startTime := w.now()
	model := w.provider.GetModelName()
	key := HashPrompt(w.provider.GetProviderName(), model, prompt)

	if v, ok := w.cache.Get(key); ok {
		if cached, ok := v.(cachedResponse); ok {
			slog.Info("cache hit",
				"command", command,
				"model", model)
			usage := &models.TokenUsage{Model: model, CacheHit: true}
			if cached.usage != nil {
				*usage = *cached.usage
				usage.CacheHit = true
			}
			usage.DurationMs = w.now().Sub(startTime).Milliseconds()
			return cached.text, usage, nil
		}
	}

	slog.Debug("cache miss, generating new content",
		"command", command,
		"prompt_length", len(prompt))

	text, usage, err := generateFn(ctx, model, prompt)
	if err != nil {
		return "", nil, err
	}

	if usage == nil {
		usage = &models.TokenUsage{}
	}
	usage.Model = model
	usage.EstimatedCostUSD = EstimateCost(model, usage.InputTokens, usage.OutputTokens)
	usage.DurationMs = w.now().Sub(startTime).Milliseconds()

	stored := *usage
	w.cache.Set(key, cachedResponse{text: text, usage: &stored}, w.ttl)
	return text, usage, nil
}
