package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

func newComment(id int64, path, body string) model.ReviewComment {
	return model.ReviewComment{ID: id, Path: path, Body: body, Line: intPtr(3), Author: "reviewer"}
}

func TestFixPipeline_ModifiesFile(t *testing.T) {
	ai := &mockAIModel{
		analysis: map[string]model.AnalysisResult{
			"check the error": {Action: model.ActionModify, Reasoning: "error was ignored", Changes: []string{"wrap error", " "}},
		},
		fixes: map[string]string{"main.go": "package main // fixed\n"},
	}
	tree := newMockWorkTree(map[string]string{"main.go": "package main\n"})
	p := NewFixPipeline(ai, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(1, "main.go", "check the error"), model.PRContext{})

	assert.Equal(t, model.OutcomeModified, outcome.Kind)
	assert.True(t, outcome.Success)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, "Applied fix: error was ignored\n- wrap error", outcome.ChangesSummary)
	assert.Equal(t, "package main // fixed\n", tree.files["main.go"])
	assert.Equal(t, 1, ai.fixCalls)
}

func TestFixPipeline_NoActionSkipsGenerateFix(t *testing.T) {
	ai := &mockAIModel{
		analysis: map[string]model.AnalysisResult{
			"looks fine?": {Action: model.ActionNoAction, Reasoning: "already handled"},
		},
	}
	tree := newMockWorkTree(map[string]string{"a.go": "x"})
	p := NewFixPipeline(ai, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(2, "a.go", "looks fine?"), model.PRContext{})

	assert.Equal(t, model.OutcomeNoAction, outcome.Kind)
	assert.True(t, outcome.Success)
	assert.Equal(t, "No changes needed: already handled", outcome.ChangesSummary)
	assert.Zero(t, ai.fixCalls)
	assert.Empty(t, tree.writes)
}

func TestFixPipeline_UnchangedFixIsNoAction(t *testing.T) {
	ai := &mockAIModel{fixes: map[string]string{"a.go": "package a\n"}}
	tree := newMockWorkTree(map[string]string{"a.go": "package a\n"})
	p := NewFixPipeline(ai, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(5, "a.go", "rename it"), model.PRContext{})

	assert.Equal(t, model.OutcomeNoAction, outcome.Kind)
	assert.True(t, outcome.Success)
	assert.NoError(t, outcome.Err)
	assert.Equal(t, "No changes needed: the generated fix left the file unchanged", outcome.ChangesSummary)
	assert.Equal(t, 1, ai.fixCalls)
	assert.Empty(t, tree.writes)
}

func TestFixPipeline_FileNotFound(t *testing.T) {
	ai := &mockAIModel{}
	p := NewFixPipeline(ai, newMockWorkTree(map[string]string{}), &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(3, "gone.go", "x"), model.PRContext{})

	assert.Equal(t, model.OutcomeFailed, outcome.Kind)
	assert.False(t, outcome.Success)
	assert.True(t, errors.Is(outcome.Err, model.ErrFileNotFound))
	assert.Zero(t, ai.analyzeCalls)
}

func TestFixPipeline_FileReadError(t *testing.T) {
	tree := newMockWorkTree(map[string]string{"a.go": "x"})
	tree.readErr["a.go"] = errors.New("permission denied")
	p := NewFixPipeline(&mockAIModel{}, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(4, "a.go", "x"), model.PRContext{})

	assert.True(t, errors.Is(outcome.Err, model.ErrFileRead))
	assert.Contains(t, outcome.Err.Error(), "permission denied")
}

func TestFixPipeline_AnalysisErrorDegradesToNoAction(t *testing.T) {
	ai := &mockAIModel{analysisErr: errors.New("model timed out")}
	reporter := &mockReporter{}
	p := NewFixPipeline(ai, newMockWorkTree(map[string]string{"a.go": "x"}), reporter, false)

	outcome := p.Process(context.Background(), newComment(5, "a.go", "x"), model.PRContext{})

	assert.Equal(t, model.OutcomeNoAction, outcome.Kind)
	assert.True(t, outcome.Success)
	assert.Contains(t, outcome.ChangesSummary, "model timed out")
	assert.Zero(t, ai.fixCalls)
	require.Len(t, reporter.warnings, 1)
}

func TestFixPipeline_GenerateFixErrorIsModelError(t *testing.T) {
	ai := &mockAIModel{fixErr: errors.New("bad gateway")}
	tree := newMockWorkTree(map[string]string{"a.go": "x"})
	p := NewFixPipeline(ai, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(6, "a.go", "x"), model.PRContext{})

	assert.Equal(t, model.OutcomeFailed, outcome.Kind)
	assert.True(t, errors.Is(outcome.Err, model.ErrModel))
	assert.Equal(t, "x", tree.files["a.go"])
}

func TestFixPipeline_WriteErrorReportsPartial(t *testing.T) {
	tree := newMockWorkTree(map[string]string{"a.go": "x"})
	tree.writeErr["a.go"] = &model.WriteError{Path: "a.go", Partial: true, Err: errors.New("no space left")}
	p := NewFixPipeline(&mockAIModel{}, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(7, "a.go", "x"), model.PRContext{})

	assert.Equal(t, model.OutcomeFailed, outcome.Kind)
	assert.True(t, errors.Is(outcome.Err, model.ErrFileWrite))
	assert.True(t, outcome.PartialWrite)
}

func TestFixPipeline_PlainWriteErrorIsWrapped(t *testing.T) {
	tree := newMockWorkTree(map[string]string{"a.go": "x"})
	tree.writeErr["a.go"] = errors.New("read-only file system")
	p := NewFixPipeline(&mockAIModel{}, tree, &mockReporter{}, false)

	outcome := p.Process(context.Background(), newComment(8, "a.go", "x"), model.PRContext{})

	assert.True(t, errors.Is(outcome.Err, model.ErrFileWrite))
	assert.False(t, outcome.PartialWrite)
}

func TestFixPipeline_DryRunDoesNotWrite(t *testing.T) {
	ai := &mockAIModel{}
	tree := newMockWorkTree(map[string]string{"a.go": "x"})
	p := NewFixPipeline(ai, tree, &mockReporter{}, true)

	outcome := p.Process(context.Background(), newComment(9, "a.go", "x"), model.PRContext{})

	assert.Equal(t, model.OutcomeModified, outcome.Kind)
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, ai.fixCalls)
	assert.Empty(t, tree.writes)
	assert.Equal(t, "x", tree.files["a.go"])
	assert.Contains(t, outcome.ChangesSummary, "[dry run]")
}
