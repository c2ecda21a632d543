package model

// AnalysisResult is the AI model's decision about a review comment.
type AnalysisResult struct {
	Action    Action
	Reasoning string
	Changes   []string
}

// NeedsChange reports whether the analysis asks for a file edit.
func (a AnalysisResult) NeedsChange() bool {
	return a.Action != ActionNoAction
}

// FixOutcome records how one review comment was processed in fix mode.
type FixOutcome struct {
	CommentID      int64
	Path           string
	Kind           OutcomeKind
	Success        bool
	ChangesSummary string
	Err            error
	PartialWrite   bool // The file may be left partially written.
}

// Failed reports whether the item ended in an error.
func (o FixOutcome) Failed() bool {
	return o.Kind == OutcomeFailed
}
