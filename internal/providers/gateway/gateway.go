package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

// Gateway dispatches generative calls over an ordered credential list.
// A shared cursor rotates credentials across concurrent turns; a failed
// credential advances to the next one within the same dispatch. Parse
// failures are final: they are a content problem, not a credential
// problem.
type Gateway struct {
	providers []core.AIProvider
	cursor    atomic.Uint64
}

func New(providers []core.AIProvider) (*Gateway, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("at least one provider credential is required")
	}
	return &Gateway{providers: providers}, nil
}

// Dispatch runs one conversation-turn call and decodes the structured
// tutor reply.
func (g *Gateway) Dispatch(ctx context.Context, instruction string, history []core.Message, utterance string) (*core.TutorReply, error) {
	raw, err := g.generate(ctx, instruction, history, utterance)
	if err != nil {
		return nil, err
	}

	reply := &core.TutorReply{}
	if err := decodeJSON(raw, reply); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("payload", payloadPrefix(raw)).Msg("unparseable tutor reply")
		return nil, fmt.Errorf("%w: %v", core.ErrContentParse, err)
	}
	if reply.BotText == "" {
		log.FromCtx(ctx).Error().Str("payload", payloadPrefix(raw)).Msg("tutor reply missing spoken text")
		return nil, fmt.Errorf("%w: missing respuesta_bot", core.ErrContentParse)
	}
	return reply, nil
}

// DispatchQuiz runs one quiz-generation call and decodes the sheet.
func (g *Gateway) DispatchQuiz(ctx context.Context, instruction, transcript string) (*core.QuizSheet, error) {
	raw, err := g.generate(ctx, instruction, nil, transcript)
	if err != nil {
		return nil, err
	}

	sheet := &core.QuizSheet{}
	if err := decodeJSON(raw, sheet); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("payload", payloadPrefix(raw)).Msg("unparseable quiz sheet")
		return nil, fmt.Errorf("%w: %v", core.ErrContentParse, err)
	}
	if len(sheet.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz sheet has no questions", core.ErrContentParse)
	}
	return sheet, nil
}

func (g *Gateway) generate(ctx context.Context, instruction string, history []core.Message, utterance string) (string, error) {
	logger := log.FromCtx(ctx)

	var lastErr error
	for attempt := 0; attempt < len(g.providers); attempt++ {
		provider := g.next()

		raw, err := provider.Generate(ctx, instruction, history, utterance)
		if err != nil {
			lastErr = err
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("provider call failed, rotating credential")
			continue
		}
		return raw, nil
	}

	return "", fmt.Errorf("%w: %v", core.ErrProvidersExhausted, lastErr)
}

func (g *Gateway) next() core.AIProvider {
	idx := g.cursor.Add(1) - 1
	return g.providers[idx%uint64(len(g.providers))]
}

// decodeJSON tolerates markdown fences around the JSON object.
func decodeJSON(raw string, v any) error {
	jsonStr := extractJSONObject(raw)
	if jsonStr == "" {
		return fmt.Errorf("no JSON object found in response")
	}
	return json.Unmarshal([]byte(jsonStr), v)
}

func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(content[start:], "}")
	if end == -1 {
		return ""
	}

	return content[start : start+end+1]
}

func payloadPrefix(raw string) string {
	const max = 200
	if len(raw) > max {
		return raw[:max]
	}
	return raw
}
