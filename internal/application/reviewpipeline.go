package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// ReviewResult is the output of a review pass over a set of files.
type ReviewResult struct {
	Candidates    []model.Suggestion
	Discarded     []model.DiscardedSuggestion
	FilesReviewed int
	FilesFailed   int
}

// ReviewPipeline asks the AI model to review file diffs and returns validated,
// classified suggestions. Filtering to the posted set is left to the caller.
type ReviewPipeline struct {
	ai       driven.AIModel
	github   driven.GitHubClient
	reporter driven.Reporter
}

// NewReviewPipeline creates a ReviewPipeline.
func NewReviewPipeline(ai driven.AIModel, github driven.GitHubClient, reporter driven.Reporter) *ReviewPipeline {
	return &ReviewPipeline{ai: ai, github: github, reporter: reporter}
}

// Review processes files sequentially in input order. A failing file is
// reported and skipped; the remaining files are still reviewed.
func (p *ReviewPipeline) Review(ctx context.Context, ref model.PRRef, pr model.PRContext, files []model.PRFile) (ReviewResult, error) {
	var result ReviewResult

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if !f.Reviewable() {
			slog.Debug("skipping file without reviewable diff", "path", f.Filename, "status", f.Status)
			continue
		}

		hunk := model.HunkFromFile(f)
		hunk.HeadContent = p.headContent(ctx, ref, pr, f)

		done := p.reporter.Step(fmt.Sprintf("Reviewing %s", f.Filename))
		raw, err := p.ai.ReviewDiff(ctx, f.Filename, hunk, pr)
		done()
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.FilesFailed++
			p.reporter.Warn(fmt.Sprintf("Review of %s failed: %v", f.Filename, err))
			continue
		}

		for i := range raw {
			if raw[i].Path == "" {
				raw[i].Path = f.Filename
			}
		}

		valid, discarded := ValidateSuggestions(hunk, raw)
		for _, d := range discarded {
			slog.Info("discarded suggestion", "path", d.Suggestion.Path, "line", d.Suggestion.Line, "side", d.Suggestion.Side, "reason", d.Reason)
			p.reporter.Discarded(d)
		}

		classified := ClassifySuggestions(valid)
		result.Candidates = append(result.Candidates, classified...)
		result.Discarded = append(result.Discarded, discarded...)
		result.FilesReviewed++
		p.reporter.FileReviewed(f.Filename, len(classified))
	}

	return result, nil
}

// headContent fetches the post-change file text for extra model context.
// Failures are logged and yield an empty string.
func (p *ReviewPipeline) headContent(ctx context.Context, ref model.PRRef, pr model.PRContext, f model.PRFile) string {
	if pr.HeadSHA == "" {
		return ""
	}
	content, err := p.github.FetchFileContent(ctx, ref, f.Filename, pr.HeadSHA)
	if err != nil {
		slog.Debug("head content unavailable", "path", f.Filename, "error", err)
		return ""
	}
	return content
}
