package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// Backend names accepted by New.
const (
	BackendClaudeCode = "claude-code"
	BackendAnthropic  = "anthropic"
	BackendOpenAI     = "openai"
	BackendCopilot    = "copilot"
)

// Config selects and configures a model backend.
type Config struct {
	Backend string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	CopilotModel string
	ClaudePath   string

	// Timeout overrides every per-call timeout when positive.
	Timeout time.Duration
}

// New builds a Model for cfg.Backend. CLI backends are checked or started
// here so misconfiguration surfaces before any work is done.
func New(ctx context.Context, cfg Config) (*Model, error) {
	timeouts := DefaultTimeouts
	if cfg.Timeout > 0 {
		timeouts = UniformTimeouts(cfg.Timeout)
	}

	var backend Completer
	switch cfg.Backend {
	case BackendClaudeCode, "":
		cc := NewClaudeCodeClient(cfg.ClaudePath)
		if err := cc.CheckInstalled(ctx); err != nil {
			return nil, err
		}
		backend = cc
	case BackendAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is required for the %s backend", model.ErrConfiguration, BackendAnthropic)
		}
		backend = NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, nil)
	case BackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for the %s backend", model.ErrConfiguration, BackendOpenAI)
		}
		backend = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, nil)
	case BackendCopilot:
		cp := NewCopilotClient(cfg.CopilotModel)
		if err := cp.Start(); err != nil {
			return nil, err
		}
		backend = cp
	default:
		return nil, fmt.Errorf("%w: unknown model backend %q (want %s, %s, %s or %s)",
			model.ErrConfiguration, cfg.Backend, BackendClaudeCode, BackendAnthropic, BackendOpenAI, BackendCopilot)
	}

	return NewModel(backend, timeouts), nil
}
