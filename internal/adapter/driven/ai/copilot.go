package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	copilot "github.com/github/copilot-sdk/go"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

const defaultCopilotModel = "gpt-5-mini"

// CopilotClient drives a GitHub Copilot CLI session through the Copilot SDK.
type CopilotClient struct {
	client  *copilot.Client
	model   string
	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
}

// NewCopilotClient creates a CopilotClient. Start must be called before use.
func NewCopilotClient(modelName string) *CopilotClient {
	if modelName == "" {
		modelName = defaultCopilotModel
	}
	return &CopilotClient{
		client: copilot.NewClient(nil),
		model:  modelName,
	}
}

// Start launches the Copilot CLI server.
func (c *CopilotClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	if err := c.client.Start(); err != nil {
		return fmt.Errorf("%w: starting copilot client: %w", model.ErrConfiguration, err)
	}
	c.started = true
	return nil
}

// Close waits for in-flight prompts and stops the Copilot CLI server.
func (c *CopilotClient) Close() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	c.client.Stop()
	c.mu.Unlock()
	return nil
}

// Name implements Completer.
func (c *CopilotClient) Name() string {
	return "copilot"
}

// Complete implements Completer. The SDK call is not cancellable, so a
// cancelled context abandons the session rather than interrupting it.
func (c *CopilotClient) Complete(ctx context.Context, p Prompt) (string, error) {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: copilot client not started", model.ErrModel)
	}
	c.wg.Add(1)
	c.mu.Unlock()

	session, err := c.client.CreateSession(&copilot.SessionConfig{
		Model:     c.model,
		Streaming: true,
	})
	if err != nil {
		c.wg.Done()
		return "", fmt.Errorf("%w: creating copilot session: %w", model.ErrModel, err)
	}

	var (
		bufMu sync.Mutex
		buf   bytes.Buffer
	)
	session.On(func(event copilot.SessionEvent) {
		if event.Type == "assistant.message_delta" && event.Data.DeltaContent != nil {
			bufMu.Lock()
			buf.WriteString(*event.Data.DeltaContent)
			bufMu.Unlock()
		}
	})

	prompt := p.User
	if p.System != "" {
		prompt = p.System + "\n\n" + p.User
	}

	done := make(chan error, 1)
	go func() {
		defer c.wg.Done()
		_, err := session.SendAndWait(copilot.MessageOptions{Prompt: prompt}, 0)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("%w: copilot prompt: %w", model.ErrModel, err)
		}
	}

	bufMu.Lock()
	defer bufMu.Unlock()
	return strings.TrimSpace(buf.String()), nil
}
