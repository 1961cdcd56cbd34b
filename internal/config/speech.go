package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/lingobot/pkg/log"
)

type SpeechConfig struct {
	APIKey  string `env:"TTS_API_KEY,required,notEmpty"`
	BaseURL string `env:"TTS_BASE_URL" envDefault:"https://texttospeech.googleapis.com"`
}

func NewSpeechConfig(ctx context.Context) *SpeechConfig {
	c := &SpeechConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Speech config")
	}
	return c
}
