package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/lingobot/internal/core"
)

// Gemini calls the generative-language REST API with a single API key.
// Structured output is requested via the JSON response MIME type; the
// caller decodes the returned text.
type Gemini struct {
	baseProvider
}

func NewGemini(baseURL, apiKey, model string) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

func (g *Gemini) Generate(ctx context.Context, instruction string, history []core.Message, utterance string) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, m := range history {
		role := "user"
		if m.Role == core.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: utterance}}})

	payload := map[string]any{
		"system_instruction": geminiContent{Parts: []geminiPart{{Text: instruction}}},
		"contents":           contents,
		"generationConfig": map[string]any{
			"temperature":      0.7,
			"topP":             0.95,
			"topK":             40,
			"maxOutputTokens":  4096,
			"responseMimeType": "application/json",
		},
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent?key=%s", g.model, g.apiKey)
	resp, err := g.doRequest(ctx, http.MethodPost, path, payload, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return parseGenerateResponse(resp)
}

func parseGenerateResponse(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates: %s", string(data))
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
