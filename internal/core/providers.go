package core

import "context"

// AIProvider issues one generative call with a single credential and
// returns the raw model text. Structured decoding belongs to the caller.
type AIProvider interface {
	Generate(ctx context.Context, instruction string, history []Message, utterance string) (string, error)
}

// Synthesizer turns text into spoken audio (MP3 bytes).
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceCode string, speakingRate float64) ([]byte, error)
}
