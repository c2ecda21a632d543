package driven

import "github.com/ericfisherdev/prreviewer/internal/domain/model"

// Reporter renders progress and results to the user.
type Reporter interface {
	// Step starts a progress indicator; the returned func stops it.
	Step(message string) (done func())
	PRHeader(ref model.PRRef, pr model.PRContext)
	Info(message string)
	Warn(message string)

	ItemStarted(index, total int, comment model.ReviewComment)
	ItemOutcome(outcome model.FixOutcome)
	FileReviewed(path string, suggestions int)
	Discarded(d model.DiscardedSuggestion)

	FixSummary(summary model.FixSummary)
	ReviewSummary(summary model.ReviewSummary)
}
