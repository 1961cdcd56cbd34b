package llm

import (
	"context"

	"github.com/sandevgo/lingobot/internal/config"
	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

// NewProviders builds one provider per configured credential, in order.
// The gateway rotates through them.
func NewProviders(ctx context.Context, cfg *config.ProviderConfig) []core.AIProvider {
	log.FromCtx(ctx).Info().
		Str("model", cfg.Model).
		Int("credentials", len(cfg.APIKeys)).
		Msg("starting llm providers")

	providers := make([]core.AIProvider, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		providers = append(providers, NewGemini(cfg.BaseURL, key, cfg.Model))
	}
	return providers
}
