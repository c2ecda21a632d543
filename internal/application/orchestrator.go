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

// reviewEvent is the review event used for AI reviews. COMMENT never blocks
// or approves a merge.
const reviewEvent = "COMMENT"

// Options controls a single orchestrator run.
type Options struct {
	// DryRun suppresses file writes, posts and the commit while still running
	// every other stage, prompts included.
	DryRun bool
	// AutoReply generates a reply for every successfully processed comment.
	AutoReply bool
	// MinSeverity skips the interactive severity prompt when valid.
	MinSeverity model.Severity
	// IncludeResolved keeps comments from resolved threads in fix mode.
	IncludeResolved bool
}

// Orchestrator drives the review and fix workflows for one pull request.
// Items are processed strictly sequentially in input order.
type Orchestrator struct {
	github    driven.GitHubClient
	writer    driven.GitHubWriter
	ai        driven.AIModel
	tree      driven.WorkTree
	committer driven.Committer
	reporter  driven.Reporter
	approval  *ApprovalController
	opts      Options
}

// NewOrchestrator creates an Orchestrator with the required dependencies.
func NewOrchestrator(
	github driven.GitHubClient,
	writer driven.GitHubWriter,
	ai driven.AIModel,
	tree driven.WorkTree,
	committer driven.Committer,
	prompter driven.Prompter,
	reporter driven.Reporter,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		github:    github,
		writer:    writer,
		ai:        ai,
		tree:      tree,
		committer: committer,
		reporter:  reporter,
		approval:  NewApprovalController(prompter),
		opts:      opts,
	}
}

// RunReview reviews the PR's changed files and posts the approved suggestions
// as a single review. A failed post is reported as a warning.
func (o *Orchestrator) RunReview(ctx context.Context, ref model.PRRef) (model.ReviewSummary, error) {
	summary := model.ReviewSummary{DryRun: o.opts.DryRun}

	pr, err := o.fetchPR(ctx, ref)
	if err != nil {
		return summary, err
	}

	done := o.reporter.Step("Fetching changed files")
	files, err := o.github.FetchPRFiles(ctx, ref)
	done()
	if err != nil {
		return summary, fmt.Errorf("fetching files for %s: %w", ref, err)
	}

	var reviewable []model.PRFile
	for _, f := range files {
		if f.Reviewable() {
			reviewable = append(reviewable, f)
		}
	}
	if len(reviewable) == 0 {
		o.reporter.Info("No reviewable file changes in this pull request.")
		o.reporter.ReviewSummary(summary)
		return summary, nil
	}

	selected, err := o.approval.SelectFiles(ctx, reviewable)
	if err != nil {
		return summary, err
	}
	if len(selected) == 0 {
		o.reporter.Info("No files selected.")
		o.reporter.ReviewSummary(summary)
		return summary, nil
	}

	result, err := NewReviewPipeline(o.ai, o.github, o.reporter).Review(ctx, ref, pr, selected)
	summary.FilesReviewed = result.FilesReviewed
	summary.FilesFailed = result.FilesFailed
	summary.Candidates = len(result.Candidates)
	summary.Discarded = len(result.Discarded)
	if err != nil {
		return summary, err
	}

	posted, err := o.approval.SelectSuggestions(ctx, result.Candidates, o.opts.MinSeverity)
	if err != nil {
		return summary, err
	}
	summary.Posted = posted

	if len(posted) == 0 {
		o.reporter.Info("No suggestions to post.")
		o.reporter.ReviewSummary(summary)
		return summary, nil
	}

	req := driven.ReviewRequest{
		CommitID: pr.HeadSHA,
		Event:    reviewEvent,
		Body:     reviewBody(summary),
		Comments: make([]driven.DraftLineComment, 0, len(posted)),
	}
	for _, s := range posted {
		req.Comments = append(req.Comments, driven.DraftLineComment{
			Path: s.Path,
			Line: s.Line,
			Side: s.Side,
			Body: suggestionBody(s),
		})
	}

	if o.opts.DryRun {
		o.reporter.Info(fmt.Sprintf("[dry run] Would post a review with %d comment(s).", len(posted)))
	} else {
		done := o.reporter.Step("Posting review")
		err := o.writer.PostReview(ctx, ref, req)
		done()
		if err != nil {
			slog.Warn("posting review failed", "pr", ref.String(), "error", err)
			o.reporter.Warn(fmt.Sprintf("Could not post review: %v", err))
			o.postReviewFallback(ctx, ref, req)
		} else {
			summary.ReviewPosted = true
		}
	}

	o.reporter.ReviewSummary(summary)
	return summary, nil
}

// RunFix addresses the PR's review comments in the local work tree, posts the
// approved replies, then commits and pushes every modified file. Replies are
// posted before the commit and are not retracted when it fails.
func (o *Orchestrator) RunFix(ctx context.Context, ref model.PRRef) (model.FixSummary, error) {
	summary := model.FixSummary{DryRun: o.opts.DryRun}

	pr, err := o.fetchPR(ctx, ref)
	if err != nil {
		return summary, err
	}

	candidates, err := o.fixCandidates(ctx, ref)
	if err != nil {
		return summary, err
	}
	if len(candidates) == 0 {
		o.reporter.Info("No unresolved review comments to address.")
		o.reporter.FixSummary(summary)
		return summary, nil
	}

	selected, err := o.approval.SelectComments(ctx, candidates)
	if err != nil {
		return summary, err
	}
	if len(selected) == 0 {
		o.reporter.Info("No comments selected.")
		o.reporter.FixSummary(summary)
		return summary, nil
	}

	pipeline := NewFixPipeline(o.ai, o.tree, o.reporter, o.opts.DryRun)
	modified := newOrderedSet()
	var pending []model.PendingReply

	for i, comment := range selected {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		o.reporter.ItemStarted(i+1, len(selected), comment)
		outcome := pipeline.Process(ctx, comment, pr)
		summary.Outcomes = append(summary.Outcomes, outcome)
		o.reporter.ItemOutcome(outcome)

		if outcome.Kind == model.OutcomeModified && !o.opts.DryRun {
			modified.add(outcome.Path)
		}

		if o.opts.AutoReply && outcome.Success {
			draft, err := o.ai.GenerateReply(ctx, comment, outcome.ChangesSummary)
			if err != nil {
				slog.Warn("reply generation failed", "comment_id", comment.ID, "error", err)
				o.reporter.Warn(fmt.Sprintf("Could not generate a reply for comment %d: %v", comment.ID, err))
				continue
			}
			pending = append(pending, model.PendingReply{Comment: comment, Draft: draft})
		}
	}
	summary.ModifiedFiles = modified.items()

	confirmed, err := o.approval.ApproveReplies(ctx, pending)
	if err != nil {
		return summary, err
	}

	o.postReplies(ctx, ref, confirmed, &summary)

	if len(summary.ModifiedFiles) > 0 && !o.opts.DryRun {
		done := o.reporter.Step("Committing and pushing changes")
		sha, err := o.committer.CommitAndPush(ctx, summary.ModifiedFiles, commitMessage(pr.Number, summary))
		done()
		if err != nil {
			o.reporter.FixSummary(summary)
			if !errors.Is(err, model.ErrGitOperation) {
				err = fmt.Errorf("%w: %w", model.ErrGitOperation, err)
			}
			return summary, err
		}
		summary.CommitSHA = sha
	}

	o.reporter.FixSummary(summary)
	return summary, nil
}

// postReviewFallback posts the review as a single PR comment so the
// suggestions survive a rejected review, e.g. after the head moved.
func (o *Orchestrator) postReviewFallback(ctx context.Context, ref model.PRRef, req driven.ReviewRequest) {
	var b strings.Builder
	b.WriteString(req.Body)
	b.WriteString("\n\n")
	for _, c := range req.Comments {
		fmt.Fprintf(&b, "- `%s:%d` %s\n", c.Path, c.Line, c.Body)
	}

	if err := o.writer.PostIssueComment(ctx, ref, b.String()); err != nil {
		slog.Warn("posting fallback comment failed", "pr", ref.String(), "error", err)
		o.reporter.Warn(fmt.Sprintf("Could not post suggestions as a PR comment either: %v", err))
		return
	}
	o.reporter.Info("Posted the suggestions as a PR comment instead.")
}

func (o *Orchestrator) fetchPR(ctx context.Context, ref model.PRRef) (model.PRContext, error) {
	done := o.reporter.Step(fmt.Sprintf("Fetching %s", ref))
	pr, err := o.github.FetchPRContext(ctx, ref)
	done()
	if err != nil {
		return model.PRContext{}, fmt.Errorf("fetching PR %s: %w", ref, err)
	}
	o.reporter.PRHeader(ref, pr)
	return pr, nil
}

// fixCandidates returns the thread-root comments of unresolved threads.
func (o *Orchestrator) fixCandidates(ctx context.Context, ref model.PRRef) ([]model.ReviewComment, error) {
	done := o.reporter.Step("Fetching review comments")
	comments, err := o.github.FetchReviewComments(ctx, ref)
	done()
	if err != nil {
		return nil, fmt.Errorf("fetching review comments for %s: %w", ref, err)
	}

	var resolved map[int64]bool
	if !o.opts.IncludeResolved {
		resolved, err = o.github.FetchThreadResolution(ctx, ref)
		if err != nil {
			slog.Warn("thread resolution lookup failed, treating threads as unresolved", "pr", ref.String(), "error", err)
		}
	}

	var roots []model.ReviewComment
	for _, thread := range groupIntoThreads(comments, resolved) {
		if thread.IsResolved && !o.opts.IncludeResolved {
			slog.Debug("skipping resolved thread", "comment_id", thread.Root.ID, "replies", len(thread.Replies))
			continue
		}
		roots = append(roots, thread.Root)
	}
	return roots, nil
}

func (o *Orchestrator) postReplies(ctx context.Context, ref model.PRRef, replies []model.ConfirmedReply, summary *model.FixSummary) {
	if len(replies) == 0 {
		return
	}
	if o.opts.DryRun {
		o.reporter.Info(fmt.Sprintf("[dry run] Would post %d repl(ies).", len(replies)))
		return
	}

	for _, r := range replies {
		if err := o.writer.ReplyToComment(ctx, ref, r.CommentID, r.Body); err != nil {
			summary.RepliesFailed++
			slog.Warn("posting reply failed", "comment_id", r.CommentID, "error", err)
			o.reporter.Warn(fmt.Sprintf("Could not reply to comment %d: %v", r.CommentID, err))
			continue
		}
		summary.RepliesPosted++
	}
}

func commitMessage(prNumber int, summary model.FixSummary) string {
	n := 0
	for _, o := range summary.Outcomes {
		if o.Kind == model.OutcomeModified {
			n++
		}
	}
	return fmt.Sprintf("fix: Apply review feedback from PR #%d\n\nAutomatically applied fixes for %d review comment(s)", prNumber, n)
}

func reviewBody(summary model.ReviewSummary) string {
	var b strings.Builder
	b.WriteString("## 🤖 AI Code Review Summary\n\n")
	fmt.Fprintf(&b, "Reviewed %d file(s) and found %d suggestion(s).\n\n", summary.FilesReviewed, len(summary.Posted))

	counts := summary.CountBySeverity()
	b.WriteString("| Severity | Count |\n|---|---|\n")
	for _, sev := range model.AllSeverities {
		fmt.Fprintf(&b, "| %s | %d |\n", sev, counts[sev])
	}

	b.WriteString("\nPlease review the inline comments for details.\n\n*Automated review powered by AI*")
	return b.String()
}

func suggestionBody(s model.Suggestion) string {
	return fmt.Sprintf("**%s**: %s", s.Severity, strings.TrimSpace(s.Body))
}

// orderedSet keeps unique strings in insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
}

func (s *orderedSet) items() []string {
	return s.order
}
