package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"newsletter-digest-go/internal/config"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	maxRetries        = 3
)

// Usage reports token counts for one completion call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Completion is the text and usage returned by one model call.
type Completion struct {
	Text  string
	Usage Usage
}

// Client calls the Anthropic Messages API.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient builds a client from configuration. A missing API key is
// a construction-time failure: summarization cannot run at all
// without the credential.
func NewClient(cfg *config.AnthropicConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Usage   Usage              `json:"usage"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Complete sends one prompt and returns the model's text plus token
// usage. Rate-limit and server errors are retried with an increasing
// wait before the call is given up.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (Completion, error) {
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		completion, retryable, err := c.doRequest(ctx, jsonData)
		if err == nil {
			return completion, nil
		}

		lastErr = err
		if !retryable || attempt == maxRetries {
			break
		}

		waitTime := time.Duration(attempt*attempt) * time.Second
		logrus.Warnf("Model call failed (attempt %d/%d), waiting %v: %v", attempt, maxRetries, waitTime, err)
		select {
		case <-ctx.Done():
			return Completion{}, ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return Completion{}, fmt.Errorf("model call failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (Completion, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicEndpoint, bytes.NewReader(body))
	if err != nil {
		return Completion{}, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Completion{}, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return Completion{}, true, fmt.Errorf("API returned %s", resp.Status)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Completion{}, false, fmt.Errorf("failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return Completion{}, false, fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return Completion{}, false, fmt.Errorf("empty response")
	}

	return Completion{
		Text:  apiResp.Content[0].Text,
		Usage: apiResp.Usage,
	}, false, nil
}
