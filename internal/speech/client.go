// Package speech is the HTTP client for the remote speech-synthesis
// capability. It returns raw PCM16 audio as base64; decoding and playback
// belong to the audio package.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the TTS service's synthesize endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	sampleRate int
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, sampleRate int) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		sampleRate: sampleRate,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type synthesizeRequest struct {
	Text       string `json:"text"`
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
}

type synthesizeResponse struct {
	AudioBase64 string `json:"audio_base64"`
	Error       string `json:"error,omitempty"`
}

// Synthesize converts text to base64-encoded 16-bit LE mono PCM at the
// configured sample rate.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:       text,
		SampleRate: c.sampleRate,
		Encoding:   "pcm_s16le",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/synthesize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("tts api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tts api status %d: %s", resp.StatusCode, string(respBody))
	}

	var out synthesizeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("tts error: %s", out.Error)
	}
	return out.AudioBase64, nil
}
