package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// --- AI model ---

type mockAIModel struct {
	analysis     map[string]model.AnalysisResult // keyed by comment body
	analysisErr  error
	fixes        map[string]string // keyed by path
	fixErr       error
	reply        string
	replyErr     error
	suggestions  map[string][]model.Suggestion // keyed by path
	reviewErrFor map[string]error

	analyzeCalls  int
	fixCalls      int
	replyCalls    int
	reviewCalls   int
	reviewedHunks []model.DiffHunk
}

func (m *mockAIModel) AnalyzeChange(_ context.Context, _, _ string, comment model.ReviewComment, _ model.PRContext) (model.AnalysisResult, error) {
	m.analyzeCalls++
	if m.analysisErr != nil {
		return model.AnalysisResult{}, m.analysisErr
	}
	if a, ok := m.analysis[comment.Body]; ok {
		return a, nil
	}
	return model.AnalysisResult{Action: model.ActionModify, Reasoning: "requested change", Changes: []string{"edit"}}, nil
}

func (m *mockAIModel) GenerateFix(_ context.Context, content, path string, _ model.ReviewComment, _ *int) (string, error) {
	m.fixCalls++
	if m.fixErr != nil {
		return "", m.fixErr
	}
	if f, ok := m.fixes[path]; ok {
		return f, nil
	}
	return content + "// fixed\n", nil
}

func (m *mockAIModel) GenerateReply(_ context.Context, comment model.ReviewComment, _ string) (string, error) {
	m.replyCalls++
	if m.replyErr != nil {
		return "", m.replyErr
	}
	if m.reply != "" {
		return m.reply, nil
	}
	return fmt.Sprintf("Addressed comment %d.", comment.ID), nil
}

func (m *mockAIModel) ReviewDiff(_ context.Context, path string, hunk model.DiffHunk, _ model.PRContext) ([]model.Suggestion, error) {
	m.reviewCalls++
	m.reviewedHunks = append(m.reviewedHunks, hunk)
	if err := m.reviewErrFor[path]; err != nil {
		return nil, err
	}
	return m.suggestions[path], nil
}

// --- work tree ---

type mockWorkTree struct {
	files    map[string]string
	readErr  map[string]error
	writeErr map[string]error
	writes   []string
}

func newMockWorkTree(files map[string]string) *mockWorkTree {
	return &mockWorkTree{files: files, readErr: map[string]error{}, writeErr: map[string]error{}}
}

func (m *mockWorkTree) Exists(path string) (bool, error) {
	_, ok := m.files[path]
	return ok, nil
}

func (m *mockWorkTree) Read(path string) (string, error) {
	if err := m.readErr[path]; err != nil {
		return "", err
	}
	return m.files[path], nil
}

func (m *mockWorkTree) Write(path, content string) error {
	if err := m.writeErr[path]; err != nil {
		return err
	}
	m.files[path] = content
	m.writes = append(m.writes, path)
	return nil
}

// --- reporter ---

type mockReporter struct {
	warnings      []string
	infos         []string
	discarded     []model.DiscardedSuggestion
	outcomes      []model.FixOutcome
	filesReviewed []string
	fixSummary    *model.FixSummary
	reviewSummary *model.ReviewSummary
}

func (m *mockReporter) Step(string) func()                        { return func() {} }
func (m *mockReporter) PRHeader(model.PRRef, model.PRContext)     {}
func (m *mockReporter) Info(msg string)                           { m.infos = append(m.infos, msg) }
func (m *mockReporter) Warn(msg string)                           { m.warnings = append(m.warnings, msg) }
func (m *mockReporter) ItemStarted(int, int, model.ReviewComment) {}
func (m *mockReporter) ItemOutcome(o model.FixOutcome)            { m.outcomes = append(m.outcomes, o) }
func (m *mockReporter) FileReviewed(path string, _ int) {
	m.filesReviewed = append(m.filesReviewed, path)
}
func (m *mockReporter) Discarded(d model.DiscardedSuggestion) { m.discarded = append(m.discarded, d) }
func (m *mockReporter) FixSummary(s model.FixSummary)         { m.fixSummary = &s }
func (m *mockReporter) ReviewSummary(s model.ReviewSummary)   { m.reviewSummary = &s }

// --- GitHub ---

type mockGitHubClient struct {
	pr         model.PRContext
	prErr      error
	comments   []model.ReviewComment
	files      []model.PRFile
	contents   map[string]string
	contentErr error
	resolved   map[int64]bool
	resolveErr error
}

func (m *mockGitHubClient) FetchPRContext(context.Context, model.PRRef) (model.PRContext, error) {
	return m.pr, m.prErr
}

func (m *mockGitHubClient) FetchReviewComments(context.Context, model.PRRef) ([]model.ReviewComment, error) {
	return m.comments, nil
}

func (m *mockGitHubClient) FetchPRFiles(context.Context, model.PRRef) ([]model.PRFile, error) {
	return m.files, nil
}

func (m *mockGitHubClient) FetchFileContent(_ context.Context, _ model.PRRef, path, _ string) (string, error) {
	if m.contentErr != nil {
		return "", m.contentErr
	}
	return m.contents[path], nil
}

func (m *mockGitHubClient) FetchThreadResolution(context.Context, model.PRRef) (map[int64]bool, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	if m.resolved == nil {
		return map[int64]bool{}, nil
	}
	return m.resolved, nil
}

type mockGitHubWriter struct {
	reviews       []driven.ReviewRequest
	reviewErr     error
	replies       []model.ConfirmedReply
	replyErrFor   map[int64]error
	issueComments []string
}

func (m *mockGitHubWriter) PostReview(_ context.Context, _ model.PRRef, req driven.ReviewRequest) error {
	if m.reviewErr != nil {
		return m.reviewErr
	}
	m.reviews = append(m.reviews, req)
	return nil
}

func (m *mockGitHubWriter) ReplyToComment(_ context.Context, _ model.PRRef, commentID int64, body string) error {
	if err := m.replyErrFor[commentID]; err != nil {
		return err
	}
	m.replies = append(m.replies, model.ConfirmedReply{CommentID: commentID, Body: body})
	return nil
}

func (m *mockGitHubWriter) PostIssueComment(_ context.Context, _ model.PRRef, body string) error {
	m.issueComments = append(m.issueComments, body)
	return nil
}

// --- git ---

type mockCommitter struct {
	calls   int
	paths   []string
	message string
	err     error
}

func (m *mockCommitter) CommitAndPush(_ context.Context, paths []string, message string) (string, error) {
	m.calls++
	m.paths = paths
	m.message = message
	if m.err != nil {
		return "", m.err
	}
	return "abc1234", nil
}

// --- prompter ---

// mockPrompter answers prompts from queued responses. A nil selection
// selects every option; an error aborts.
type mockPrompter struct {
	selections  [][]int
	selectErr   error
	decisions   []replyAnswer
	titles      []string
	optionsSeen [][]driven.SelectOption
	replyCalls  int
}

type replyAnswer struct {
	decision model.ReplyDecision
	text     string
}

func (m *mockPrompter) MultiSelect(_ context.Context, title string, options []driven.SelectOption) ([]int, error) {
	m.titles = append(m.titles, title)
	m.optionsSeen = append(m.optionsSeen, options)
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	if len(m.selections) == 0 {
		return allIndexes(len(options)), nil
	}
	sel := m.selections[0]
	m.selections = m.selections[1:]
	if sel == nil {
		return allIndexes(len(options)), nil
	}
	return sel, nil
}

func (m *mockPrompter) ReviewReply(context.Context, string, string) (model.ReplyDecision, string, error) {
	m.replyCalls++
	if len(m.decisions) == 0 {
		return model.ReplyUse, "", nil
	}
	d := m.decisions[0]
	m.decisions = m.decisions[1:]
	return d.decision, d.text, nil
}

func allIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func intPtr(v int) *int {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}
