package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

const (
	defaultAnthropicURL   = "https://api.anthropic.com"
	defaultAnthropicModel = "claude-sonnet-4-5"
	anthropicVersion      = "2023-06-01"
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropicClient creates an AnthropicClient. Empty model and baseURL use
// the defaults.
func NewAnthropicClient(apiKey, modelName, baseURL string, httpClient *http.Client) *AnthropicClient {
	if modelName == "" {
		modelName = defaultAnthropicModel
	}
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &AnthropicClient{
		apiKey:  apiKey,
		model:   modelName,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpClient,
	}
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
}

// Name implements Completer.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// Complete implements Completer.
func (c *AnthropicClient) Complete(ctx context.Context, p Prompt) (string, error) {
	req := anthropicRequest{
		Model:     c.model,
		System:    p.System,
		MaxTokens: p.MaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContent{{Type: "text", Text: p.User}}},
		},
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic request: %w", model.ErrAPITransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: anthropic api error (status %d): %s", model.ErrModel, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding anthropic response: %w", model.ErrModel, err)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic response %s has no text content", model.ErrModel, out.ID)
	}
	return text.String(), nil
}
