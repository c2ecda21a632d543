package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// fixState names the stages a fix item moves through.
type fixState string

const (
	fixStart        fixState = "start"
	fixFileLoaded   fixState = "file_loaded"
	fixAnalyzed     fixState = "analyzed"
	fixNoActionDone fixState = "no_action_done"
	fixGenerated    fixState = "fix_generated"
	fixWritten      fixState = "written"
	fixSucceeded    fixState = "succeeded"
	fixFailed       fixState = "failed"
)

// FixPipeline turns one review comment into a file edit in the local work
// tree. Every failure is confined to the item being processed.
type FixPipeline struct {
	ai       driven.AIModel
	tree     driven.WorkTree
	reporter driven.Reporter
	dryRun   bool
}

// NewFixPipeline creates a FixPipeline. In dry-run mode the fix is generated
// but never written.
func NewFixPipeline(ai driven.AIModel, tree driven.WorkTree, reporter driven.Reporter, dryRun bool) *FixPipeline {
	return &FixPipeline{
		ai:       ai,
		tree:     tree,
		reporter: reporter,
		dryRun:   dryRun,
	}
}

// Process runs the pipeline for a single comment and returns its outcome.
// It never returns an error; failures are recorded in the outcome.
func (p *FixPipeline) Process(ctx context.Context, comment model.ReviewComment, pr model.PRContext) model.FixOutcome {
	outcome := model.FixOutcome{CommentID: comment.ID, Path: comment.Path}
	p.transition(comment, fixStart)

	exists, err := p.tree.Exists(comment.Path)
	if err != nil {
		return p.fail(comment, outcome, fmt.Errorf("%w: %s: %w", model.ErrFileRead, comment.Path, err))
	}
	if !exists {
		return p.fail(comment, outcome, fmt.Errorf("%w: %s", model.ErrFileNotFound, comment.Path))
	}

	content, err := p.tree.Read(comment.Path)
	if err != nil {
		return p.fail(comment, outcome, fmt.Errorf("%w: %s: %w", model.ErrFileRead, comment.Path, err))
	}
	p.transition(comment, fixFileLoaded)

	analysis, err := p.ai.AnalyzeChange(ctx, content, comment.Path, comment, pr)
	if err != nil {
		if ctx.Err() != nil {
			return p.fail(comment, outcome, ctx.Err())
		}
		analysis = model.AnalysisResult{
			Action:    model.ActionNoAction,
			Reasoning: fmt.Sprintf("analysis failed: %v", err),
		}
		p.reporter.Warn(fmt.Sprintf("Could not analyze comment %d on %s, treating as no change: %v", comment.ID, comment.Path, err))
	}
	p.transition(comment, fixAnalyzed, "action", analysis.Action)

	if !analysis.NeedsChange() {
		outcome.Kind = model.OutcomeNoAction
		outcome.Success = true
		outcome.ChangesSummary = noActionSummary(analysis)
		p.transition(comment, fixNoActionDone)
		return outcome
	}

	fixed, err := p.ai.GenerateFix(ctx, content, comment.Path, comment, comment.TargetLine())
	if err != nil {
		if !errors.Is(err, model.ErrModel) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", model.ErrModel, err)
		}
		return p.fail(comment, outcome, fmt.Errorf("generating fix for %s: %w", comment.Path, err))
	}
	p.transition(comment, fixGenerated)

	if fixed == content {
		outcome.Kind = model.OutcomeNoAction
		outcome.Success = true
		outcome.ChangesSummary = "No changes needed: the generated fix left the file unchanged"
		p.transition(comment, fixNoActionDone, "unchanged", true)
		return outcome
	}

	outcome.ChangesSummary = appliedSummary(analysis)

	if p.dryRun {
		outcome.Kind = model.OutcomeModified
		outcome.Success = true
		outcome.ChangesSummary = "[dry run] " + outcome.ChangesSummary
		p.transition(comment, fixSucceeded, "dry_run", true)
		return outcome
	}

	if err := p.tree.Write(comment.Path, fixed); err != nil {
		var writeErr *model.WriteError
		if errors.As(err, &writeErr) {
			outcome.PartialWrite = writeErr.Partial
		}
		if !errors.Is(err, model.ErrFileWrite) {
			err = &model.WriteError{Path: comment.Path, Err: err}
		}
		outcome.ChangesSummary = ""
		return p.fail(comment, outcome, err)
	}
	p.transition(comment, fixWritten)

	outcome.Kind = model.OutcomeModified
	outcome.Success = true
	p.transition(comment, fixSucceeded)
	return outcome
}

func (p *FixPipeline) fail(comment model.ReviewComment, outcome model.FixOutcome, err error) model.FixOutcome {
	outcome.Kind = model.OutcomeFailed
	outcome.Success = false
	outcome.Err = err
	p.transition(comment, fixFailed, "error", err)
	return outcome
}

func (p *FixPipeline) transition(comment model.ReviewComment, state fixState, attrs ...any) {
	args := append([]any{"comment_id", comment.ID, "path", comment.Path, "state", string(state)}, attrs...)
	slog.Debug("fix item", args...)
}

func noActionSummary(a model.AnalysisResult) string {
	if a.Reasoning == "" {
		return "No changes needed"
	}
	return "No changes needed: " + a.Reasoning
}

func appliedSummary(a model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("Applied fix: ")
	b.WriteString(a.Reasoning)
	for _, c := range a.Changes {
		if c = strings.TrimSpace(c); c != "" {
			b.WriteString("\n- ")
			b.WriteString(c)
		}
	}
	return b.String()
}
