package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

const (
	defaultClaudeBinary = "claude"
	versionCheckTimeout = 5 * time.Second
)

// ClaudeCodeClient runs prompts through the Claude Code CLI in print mode.
type ClaudeCodeClient struct {
	binary string
}

// NewClaudeCodeClient creates a ClaudeCodeClient. An empty binary resolves
// "claude" from PATH.
func NewClaudeCodeClient(binary string) *ClaudeCodeClient {
	if binary == "" {
		binary = defaultClaudeBinary
	}
	return &ClaudeCodeClient{binary: binary}
}

// Name implements Completer.
func (c *ClaudeCodeClient) Name() string {
	return "claude-code"
}

// CheckInstalled runs `--version` to confirm the CLI is installed and runnable.
func (c *ClaudeCodeClient) CheckInstalled(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.binary, "--version").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s CLI not available (%s): %w", model.ErrConfiguration, c.binary, strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Complete implements Completer. The prompt is passed on stdin.
func (c *ClaudeCodeClient) Complete(ctx context.Context, p Prompt) (string, error) {
	prompt := p.User
	if p.System != "" {
		prompt = p.System + "\n\n" + p.User
	}

	cmd := exec.CommandContext(ctx, c.binary, "-p")
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s exited with code %d: %s", model.ErrModel, c.binary, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: running %s: %w", model.ErrModel, c.binary, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
