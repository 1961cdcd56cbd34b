package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/lingobot/pkg/log"
	"github.com/sandevgo/lingobot/pkg/retry"
)

// Client synthesizes speech through the Google Cloud TTS REST API and
// returns raw MP3 bytes. Transient HTTP failures are retried with
// backoff; 4xx responses are final.
type Client struct {
	httpClient *http.Client
	retrier    *retry.Retrier
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retrier: retry.NewDefaultRetrier(),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// permanentError marks responses that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func (c *Client) Synthesize(ctx context.Context, text, voiceCode string, speakingRate float64) ([]byte, error) {
	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = languageCodeOf(voiceCode)
	req.Voice.Name = voiceCode
	req.AudioConfig.AudioEncoding = "MP3"
	req.AudioConfig.SpeakingRate = speakingRate

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var audio []byte
	var finalErr error
	err = c.retrier.Do(ctx, func() error {
		audio, finalErr = c.synthesizeOnce(ctx, payload)
		if finalErr != nil {
			var perm *permanentError
			if errors.As(finalErr, &perm) {
				// Retrying cannot fix a 4xx; stop and surface below.
				return nil
			}
			log.FromCtx(ctx).Warn().Err(finalErr).Str("voice", voiceCode).Msg("tts call failed, retrying")
			return finalErr
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	if finalErr != nil {
		return nil, fmt.Errorf("synthesize: %w", finalErr)
	}
	return audio, nil
}

func (c *Client) synthesizeOnce(ctx context.Context, payload []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/text:synthesize?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, &permanentError{err: err}
		}
		return nil, err
	}

	var result synthesizeResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	return audio, nil
}

// languageCodeOf derives the BCP-47 language code from a full voice
// name, e.g. "en-US-Studio-O" -> "en-US".
func languageCodeOf(voiceCode string) string {
	parts := strings.SplitN(voiceCode, "-", 3)
	if len(parts) < 2 {
		return voiceCode
	}
	return parts[0] + "-" + parts[1]
}
