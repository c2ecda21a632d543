package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

func TestSelectComments_Subset(t *testing.T) {
	comments := []model.ReviewComment{
		newComment(1, "a.go", "first"),
		newComment(2, "b.go", "second"),
		newComment(3, "c.go", "third"),
	}
	prompter := &mockPrompter{selections: [][]int{{0, 2}}}
	a := NewApprovalController(prompter)

	got, err := a.SelectComments(context.Background(), comments)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.Equal(t, "a.go:3 (@reviewer)", prompter.optionsSeen[0][0].Label)
	assert.True(t, prompter.optionsSeen[0][0].Selected)
}

func TestSelectComments_Abort(t *testing.T) {
	a := NewApprovalController(&mockPrompter{selectErr: model.ErrAborted})

	_, err := a.SelectComments(context.Background(), []model.ReviewComment{newComment(1, "a.go", "x")})

	assert.ErrorIs(t, err, model.ErrAborted)
}

func TestSelectSuggestions_Threshold(t *testing.T) {
	prompter := &mockPrompter{}
	a := NewApprovalController(prompter)
	candidates := []model.Suggestion{
		{Body: "a", Severity: model.SeverityMinor},
		{Body: "b", Severity: model.SeverityMajor},
	}

	got, err := a.SelectSuggestions(context.Background(), candidates, model.SeverityMajor)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Body)
	assert.Empty(t, prompter.titles, "threshold must not prompt")
}

func TestSelectSuggestions_MinorThresholdPromptsEachMinor(t *testing.T) {
	candidates := []model.Suggestion{
		{Path: "a.go", Line: 1, Body: "minor one", Severity: model.SeverityMinor},
		{Path: "a.go", Line: 2, Body: "minor two", Severity: model.SeverityMinor},
		{Path: "a.go", Line: 3, Body: "major", Severity: model.SeverityMajor},
	}
	prompter := &mockPrompter{selections: [][]int{{1}}}
	a := NewApprovalController(prompter)

	got, err := a.SelectSuggestions(context.Background(), candidates, model.SeverityMinor)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "major", got[0].Body)
	assert.Equal(t, "minor two", got[1].Body)

	require.Equal(t, []string{"Select minor suggestions to include"}, prompter.titles,
		"a threshold skips the severity prompt but not the per-item minor prompt")
	require.Len(t, prompter.optionsSeen[0], 2)
	assert.Equal(t, "a.go:1", prompter.optionsSeen[0][0].Label)
	for _, opt := range prompter.optionsSeen[0] {
		assert.False(t, opt.Selected, "minor suggestions start unchecked")
	}
}

func TestSelectSuggestions_MinorThresholdNothingPicked(t *testing.T) {
	candidates := []model.Suggestion{
		{Body: "minor", Severity: model.SeverityMinor},
		{Body: "critical", Severity: model.SeverityCritical},
	}
	a := NewApprovalController(&mockPrompter{selections: [][]int{{}}})

	got, err := a.SelectSuggestions(context.Background(), candidates, model.SeverityMinor)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "critical", got[0].Body)
}

func TestSelectSuggestions_MinorThresholdWithoutMinorCandidates(t *testing.T) {
	prompter := &mockPrompter{}
	candidates := []model.Suggestion{{Body: "major", Severity: model.SeverityMajor}}

	got, err := NewApprovalController(prompter).SelectSuggestions(context.Background(), candidates, model.SeverityMinor)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Empty(t, prompter.titles)
}

func TestSelectSuggestions_MinorThresholdAbort(t *testing.T) {
	a := NewApprovalController(&mockPrompter{selectErr: model.ErrAborted})
	candidates := []model.Suggestion{{Body: "minor", Severity: model.SeverityMinor}}

	_, err := a.SelectSuggestions(context.Background(), candidates, model.SeverityMinor)

	assert.ErrorIs(t, err, model.ErrAborted)
}

func TestSelectSuggestions_InteractiveMinorOptIn(t *testing.T) {
	candidates := []model.Suggestion{
		{Path: "a.go", Line: 1, Body: "minor one", Severity: model.SeverityMinor},
		{Path: "a.go", Line: 2, Body: "critical", Severity: model.SeverityCritical},
		{Path: "a.go", Line: 3, Body: "minor two", Severity: model.SeverityMinor},
		{Path: "a.go", Line: 4, Body: "major", Severity: model.SeverityMajor},
	}
	// Severity options are CRITICAL, MAJOR, MINOR. Pick CRITICAL and MINOR,
	// then only the second minor suggestion.
	prompter := &mockPrompter{selections: [][]int{{0, 2}, {1}}}
	a := NewApprovalController(prompter)

	got, err := a.SelectSuggestions(context.Background(), candidates, 0)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "critical", got[0].Body)
	assert.Equal(t, "minor two", got[1].Body)

	require.Len(t, prompter.optionsSeen, 2)
	severityOpts := prompter.optionsSeen[0]
	require.Len(t, severityOpts, 3)
	assert.Equal(t, "MINOR", severityOpts[2].Label)
	assert.False(t, severityOpts[2].Selected)
	assert.True(t, severityOpts[0].Selected)
	for _, opt := range prompter.optionsSeen[1] {
		assert.False(t, opt.Selected, "minor suggestions start unchecked")
	}
}

func TestSelectSuggestions_NoCandidatesNoPrompt(t *testing.T) {
	prompter := &mockPrompter{}
	got, err := NewApprovalController(prompter).SelectSuggestions(context.Background(), nil, 0)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, prompter.titles)
}

func TestApproveReplies(t *testing.T) {
	pending := []model.PendingReply{
		{Comment: newComment(1, "a.go", "x"), Draft: "Fixed."},
		{Comment: newComment(2, "b.go", "y"), Draft: "Done."},
		{Comment: newComment(3, "c.go", "z"), Draft: "Nope."},
		{Comment: newComment(4, "d.go", "w"), Draft: "Blank edit."},
	}
	prompter := &mockPrompter{decisions: []replyAnswer{
		{decision: model.ReplyUse},
		{decision: model.ReplyEdit, text: "Fixed by wrapping the error."},
		{decision: model.ReplyDiscard},
		{decision: model.ReplyEdit, text: "  "},
	}}

	got, err := NewApprovalController(prompter).ApproveReplies(context.Background(), pending)

	require.NoError(t, err)
	assert.Equal(t, []model.ConfirmedReply{
		{CommentID: 1, Body: "Fixed."},
		{CommentID: 2, Body: "Fixed by wrapping the error."},
	}, got)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "hello", firstLine("\n  hello  \nworld", 10))
	assert.Equal(t, "abcd…", firstLine("abcdefgh", 5))
	assert.Equal(t, "", firstLine("   ", 5))
}
