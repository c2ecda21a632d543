// Package ai implements the AIModel port on top of interchangeable text
// completion backends.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AIModel = (*Model)(nil)

// Prompt is a single completion request.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Completer sends a prompt to a model backend and returns the raw text reply.
type Completer interface {
	Name() string
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Timeouts bounds each kind of model call.
type Timeouts struct {
	Analyze time.Duration
	Fix     time.Duration
	Reply   time.Duration
	Review  time.Duration
}

// DefaultTimeouts are used when no override is configured.
var DefaultTimeouts = Timeouts{
	Analyze: 60 * time.Second,
	Fix:     120 * time.Second,
	Reply:   30 * time.Second,
	Review:  120 * time.Second,
}

// UniformTimeouts applies d to every call kind.
func UniformTimeouts(d time.Duration) Timeouts {
	return Timeouts{Analyze: d, Fix: d, Reply: d, Review: d}
}

// Model implements driven.AIModel by prompting a Completer and parsing its
// output.
type Model struct {
	backend  Completer
	timeouts Timeouts
}

// NewModel wraps backend. Zero timeouts fall back to DefaultTimeouts.
func NewModel(backend Completer, timeouts Timeouts) *Model {
	if timeouts.Analyze <= 0 {
		timeouts.Analyze = DefaultTimeouts.Analyze
	}
	if timeouts.Fix <= 0 {
		timeouts.Fix = DefaultTimeouts.Fix
	}
	if timeouts.Reply <= 0 {
		timeouts.Reply = DefaultTimeouts.Reply
	}
	if timeouts.Review <= 0 {
		timeouts.Review = DefaultTimeouts.Review
	}
	return &Model{backend: backend, timeouts: timeouts}
}

// Name returns the backend name.
func (m *Model) Name() string {
	return m.backend.Name()
}

// Close releases backend resources, if any.
func (m *Model) Close() error {
	if c, ok := m.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type analysisJSON struct {
	Action    string   `json:"action"`
	Reasoning string   `json:"reasoning"`
	Changes   []string `json:"changes"`
}

// AnalyzeChange asks the model what the comment requires. Output that cannot
// be parsed yields a no_action result.
func (m *Model) AnalyzeChange(ctx context.Context, fileContent, filePath string, comment model.ReviewComment, pr model.PRContext) (model.AnalysisResult, error) {
	raw, err := m.complete(ctx, m.timeouts.Analyze, Prompt{
		System: systemPrompt,
		User:   analyzePrompt(fileContent, filePath, comment, pr),
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}

	var parsed analysisJSON
	if !decodeJSON(extractJSON(raw, '{', '}'), &parsed) {
		slog.Debug("unparseable analysis response", "backend", m.Name(), "path", filePath)
		return unparseableAnalysis(), nil
	}

	action := model.Action(strings.ToLower(strings.TrimSpace(parsed.Action)))
	if !action.Valid() {
		return unparseableAnalysis(), nil
	}

	changes := parsed.Changes
	if changes == nil {
		changes = []string{}
	}
	return model.AnalysisResult{Action: action, Reasoning: parsed.Reasoning, Changes: changes}, nil
}

// GenerateFix asks the model for the complete fixed file.
func (m *Model) GenerateFix(ctx context.Context, fileContent, filePath string, comment model.ReviewComment, line *int) (string, error) {
	raw, err := m.complete(ctx, m.timeouts.Fix, Prompt{
		System:    systemPrompt,
		User:      fixPrompt(fileContent, filePath, comment, line),
		MaxTokens: fixMaxTokens,
	})
	if err != nil {
		return "", err
	}

	fixed := stripCodeFence(raw)
	if strings.TrimSpace(fixed) == "" {
		return "", fmt.Errorf("%w: %s returned an empty file for %s", model.ErrModel, m.Name(), filePath)
	}
	if strings.HasSuffix(fileContent, "\n") && !strings.HasSuffix(fixed, "\n") {
		fixed += "\n"
	}
	return fixed, nil
}

// GenerateReply asks the model for a short plain-text reply.
func (m *Model) GenerateReply(ctx context.Context, comment model.ReviewComment, changesSummary string) (string, error) {
	raw, err := m.complete(ctx, m.timeouts.Reply, Prompt{
		System:    systemPrompt,
		User:      replyPrompt(comment, changesSummary),
		MaxTokens: replyMaxTokens,
	})
	if err != nil {
		return "", err
	}

	reply := plainText(raw)
	if reply == "" {
		return "", fmt.Errorf("%w: %s returned an empty reply", model.ErrModel, m.Name())
	}
	return reply, nil
}

type suggestionJSON struct {
	Line     int    `json:"line"`
	Side     string `json:"side"`
	Body     string `json:"body"`
	Severity string `json:"severity"`
}

// ReviewDiff asks the model to review one file diff. Unparseable output
// yields no suggestions.
func (m *Model) ReviewDiff(ctx context.Context, filePath string, hunk model.DiffHunk, pr model.PRContext) ([]model.Suggestion, error) {
	raw, err := m.complete(ctx, m.timeouts.Review, Prompt{
		System: systemPrompt,
		User:   reviewPrompt(filePath, hunk, pr),
	})
	if err != nil {
		return nil, err
	}

	var parsed []suggestionJSON
	if !decodeJSON(extractJSON(raw, '[', ']'), &parsed) {
		slog.Debug("unparseable review response", "backend", m.Name(), "path", filePath)
		return []model.Suggestion{}, nil
	}

	suggestions := make([]model.Suggestion, 0, len(parsed))
	for _, p := range parsed {
		side := model.Side(strings.ToUpper(strings.TrimSpace(p.Side)))
		if side == "" {
			side = model.SideRight
		}
		s := model.Suggestion{
			Path: filePath,
			Line: p.Line,
			Side: side,
			Body: strings.TrimSpace(p.Body),
		}
		if sev, err := model.ParseSeverity(p.Severity); err == nil {
			s.Severity = sev
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

func (m *Model) complete(ctx context.Context, timeout time.Duration, p Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := m.backend.Complete(ctx, p)
	slog.Debug("model call", "backend", m.Name(), "duration", time.Since(start).Round(time.Millisecond), "error", err)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s timed out after %s", model.ErrModel, m.Name(), timeout)
		}
		return "", err
	}
	return out, nil
}

func unparseableAnalysis() model.AnalysisResult {
	return model.AnalysisResult{
		Action:    model.ActionNoAction,
		Reasoning: "Could not parse response",
		Changes:   []string{},
	}
}

func decodeJSON(s string, v any) bool {
	if s == "" {
		return false
	}
	return json.Unmarshal([]byte(s), v) == nil
}
