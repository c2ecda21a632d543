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
	defaultOpenAIURL   = "https://api.openai.com/v1"
	defaultOpenAIModel = "gpt-4o"
)

// OpenAIClient calls an OpenAI-compatible chat completions API.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAIClient. Empty model and baseURL use the
// defaults.
func NewOpenAIClient(apiKey, modelName, baseURL string, httpClient *http.Client) *OpenAIClient {
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   modelName,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpClient,
	}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Name implements Completer.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Complete implements Completer.
func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (string, error) {
	messages := make([]openAIMessage, 0, 2)
	if p.System != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: p.System})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: p.User})

	maxTokens := p.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(openAIRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: openai request: %w", model.ErrAPITransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading openai response: %w", model.ErrAPITransport, err)
	}

	var out openAIResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: openai api error (status %d): %s", model.ErrModel, resp.StatusCode, truncate(string(respBody), 500))
	}
	if out.Error != nil {
		return "", fmt.Errorf("%w: openai api error (status %d): %s", model.ErrModel, resp.StatusCode, out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai api error (status %d)", model.ErrModel, resp.StatusCode)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: openai response %s has no choices", model.ErrModel, out.ID)
	}

	return out.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
