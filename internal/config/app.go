package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lingobot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"LINGOBOT_RUNTIME_PATH" envDefault:".lingobot"`

	// Short-term memory window sent to the provider each turn.
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"30"`

	// Recognition confidence below which the pronunciation-coaching block
	// is injected into the system instruction.
	PronunciationThreshold float64 `env:"PRONUNCIATION_THRESHOLD" envDefault:"0.85"`

	// Token budget for the long-term facts injected into the instruction.
	FactTokenBudget int `env:"FACT_TOKEN_BUDGET" envDefault:"400"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "lingobot.db")
}
