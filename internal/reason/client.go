// Package reason talks to the reasoning engine (the Anthropic Messages API)
// and builds the document context it consumes. Answers come back as free
// text that may contain citation tokens; parsing those belongs to the
// citation package.
package reason

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	stats      *Stats
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
}

// Stats returns the rolling latency window for this client.
func (c *Client) Stats() *Stats { return c.stats }

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Turn is one prior exchange in the transcript.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// ImageInput is a visual payload forwarded to the engine as pixels.
type ImageInput struct {
	MediaType  string
	DataBase64 string
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Answer asks one question over the session's document context, history and
// images, returning the engine's raw answer text. 429 and 5xx responses come
// back as *RetryableError so callers can back off and retry.
func (c *Client) Answer(ctx context.Context, docContext string, history []Turn, images []ImageInput, question string) (string, error) {
	messages := make([]apiMessage, 0, len(history)+1)
	for _, t := range history {
		messages = append(messages, apiMessage{
			Role:    t.Role,
			Content: []contentBlock{{Type: "text", Text: t.Content}},
		})
	}

	// The question turn carries the document context and any images.
	last := apiMessage{Role: "user"}
	for _, img := range images {
		last.Content = append(last.Content, contentBlock{
			Type: "image",
			Source: &imageSource{
				Type:      "base64",
				MediaType: img.MediaType,
				Data:      img.DataBase64,
			},
		})
	}
	last.Content = append(last.Content, contentBlock{
		Type: "text",
		Text: BuildQuestion(docContext, question),
	})
	messages = append(messages, last)

	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 4096,
		System:    SystemPrompt,
		Messages:  messages,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("engine api: %w", err)
	}
	defer resp.Body.Close()
	c.stats.Record(time.Since(start).Milliseconds())

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("engine api status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("engine error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from engine")
	}

	return apiResp.Content[0].Text, nil
}
