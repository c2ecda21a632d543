package driven

import (
	"context"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// AIModel is the semantic judgment capability behind both workflows.
// Implementations may fail with transport or model errors; retry and skip
// policy belongs to the caller.
type AIModel interface {
	// AnalyzeChange decides what a review comment asks for. Unparseable model
	// output yields a no_action result rather than an error.
	AnalyzeChange(ctx context.Context, fileContent, filePath string, comment model.ReviewComment, pr model.PRContext) (model.AnalysisResult, error)
	// GenerateFix returns the complete new file content with code fences removed.
	GenerateFix(ctx context.Context, fileContent, filePath string, comment model.ReviewComment, line *int) (string, error)
	// GenerateReply returns a short plain-text reply to the reviewer.
	GenerateReply(ctx context.Context, comment model.ReviewComment, changesSummary string) (string, error)
	// ReviewDiff returns review suggestions for one file diff. An empty slice
	// means nothing was found or the output could not be parsed.
	ReviewDiff(ctx context.Context, filePath string, hunk model.DiffHunk, pr model.PRContext) ([]model.Suggestion, error)
}
