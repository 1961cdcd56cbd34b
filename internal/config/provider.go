package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lingobot/pkg/log"
)

type ProviderConfig struct {
	// Ordered credential list; the gateway rotates through it.
	APIKeys []string `env:"GEMINI_API_KEYS,required,notEmpty" envSeparator:","`
	Model   string   `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL string   `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}
