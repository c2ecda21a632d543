package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

var nonMinor = map[model.Severity]bool{
	model.SeverityCritical: true,
	model.SeverityMajor:    true,
}

// ApprovalController gates every side effect behind a human decision.
// Prompter errors, including model.ErrAborted, are returned unchanged.
type ApprovalController struct {
	prompter driven.Prompter
}

// NewApprovalController creates an ApprovalController.
func NewApprovalController(prompter driven.Prompter) *ApprovalController {
	return &ApprovalController{prompter: prompter}
}

// SelectComments lets the user choose which review comments to process.
func (a *ApprovalController) SelectComments(ctx context.Context, comments []model.ReviewComment) ([]model.ReviewComment, error) {
	if len(comments) == 0 {
		return nil, nil
	}

	options := make([]driven.SelectOption, len(comments))
	for i, c := range comments {
		options[i] = driven.SelectOption{
			Label:    commentLabel(c),
			Detail:   firstLine(c.Body, 100),
			Selected: true,
		}
	}

	chosen, err := a.prompter.MultiSelect(ctx, "Select review comments to address", options)
	if err != nil {
		return nil, err
	}
	return pick(comments, chosen), nil
}

// SelectFiles lets the user choose which changed files to review.
func (a *ApprovalController) SelectFiles(ctx context.Context, files []model.PRFile) ([]model.PRFile, error) {
	if len(files) == 0 {
		return nil, nil
	}

	options := make([]driven.SelectOption, len(files))
	for i, f := range files {
		options[i] = driven.SelectOption{
			Label:    f.Filename,
			Detail:   fmt.Sprintf("%s +%d -%d", f.Status, f.Additions, f.Deletions),
			Selected: true,
		}
	}

	chosen, err := a.prompter.MultiSelect(ctx, "Select files to review", options)
	if err != nil {
		return nil, err
	}
	return pick(files, chosen), nil
}

// SelectSuggestions narrows candidates to the set that will be posted. A
// valid threshold admits the CRITICAL and MAJOR tiers at or above it without
// a prompt; otherwise the user picks severities. MINOR is never admitted in
// bulk: when the threshold or the user admits it, each minor suggestion is
// offered individually, unchecked by default. Non-minor suggestions come
// first in input order, followed by the chosen minor ones.
func (a *ApprovalController) SelectSuggestions(ctx context.Context, candidates []model.Suggestion, threshold model.Severity) ([]model.Suggestion, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var (
		kept       []model.Suggestion
		admitMinor bool
	)
	if threshold.Valid() {
		kept = FilterByThreshold(FilterBySet(candidates, nonMinor), threshold)
		admitMinor = threshold == model.SeverityMinor
	} else {
		included, err := a.selectSeverities(ctx, candidates)
		if err != nil {
			return nil, err
		}
		admitMinor = included[model.SeverityMinor]
		delete(included, model.SeverityMinor)
		kept = FilterBySet(candidates, included)
	}
	if !admitMinor {
		return kept, nil
	}

	minor, err := a.selectMinor(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return append(kept, minor...), nil
}

// selectSeverities asks which severity tiers to post. MINOR starts unchecked.
func (a *ApprovalController) selectSeverities(ctx context.Context, candidates []model.Suggestion) (map[model.Severity]bool, error) {
	counts := make(map[model.Severity]int)
	for _, s := range candidates {
		counts[s.Severity]++
	}

	var (
		present []model.Severity
		options []driven.SelectOption
	)
	for _, sev := range model.AllSeverities {
		if counts[sev] == 0 {
			continue
		}
		present = append(present, sev)
		options = append(options, driven.SelectOption{
			Label:    sev.String(),
			Detail:   fmt.Sprintf("%d suggestion(s)", counts[sev]),
			Selected: sev != model.SeverityMinor,
		})
	}

	chosen, err := a.prompter.MultiSelect(ctx, "Select severities to post", options)
	if err != nil {
		return nil, err
	}

	included := make(map[model.Severity]bool)
	for _, sev := range pick(present, chosen) {
		included[sev] = true
	}
	return included, nil
}

// selectMinor offers each minor suggestion on its own, unchecked.
func (a *ApprovalController) selectMinor(ctx context.Context, candidates []model.Suggestion) ([]model.Suggestion, error) {
	minor := FilterBySet(candidates, map[model.Severity]bool{model.SeverityMinor: true})
	if len(minor) == 0 {
		return nil, nil
	}

	options := make([]driven.SelectOption, len(minor))
	for i, s := range minor {
		options[i] = driven.SelectOption{
			Label:  fmt.Sprintf("%s:%d", s.Path, s.Line),
			Detail: firstLine(s.Body, 100),
		}
	}

	chosen, err := a.prompter.MultiSelect(ctx, "Select minor suggestions to include", options)
	if err != nil {
		return nil, err
	}
	return pick(minor, chosen), nil
}

// ApproveReplies asks the user to use, edit or discard each generated reply.
func (a *ApprovalController) ApproveReplies(ctx context.Context, pending []model.PendingReply) ([]model.ConfirmedReply, error) {
	var confirmed []model.ConfirmedReply

	for _, p := range pending {
		decision, edited, err := a.prompter.ReviewReply(ctx, commentLabel(p.Comment), p.Draft)
		if err != nil {
			return nil, err
		}

		switch decision {
		case model.ReplyUse:
			confirmed = append(confirmed, model.ConfirmedReply{CommentID: p.Comment.ID, Body: p.Draft})
		case model.ReplyEdit:
			if strings.TrimSpace(edited) == "" {
				continue
			}
			confirmed = append(confirmed, model.ConfirmedReply{CommentID: p.Comment.ID, Body: edited})
		case model.ReplyDiscard:
		default:
			return nil, fmt.Errorf("unknown reply decision %q", decision)
		}
	}

	return confirmed, nil
}

// pick returns items at the given indexes, ignoring out-of-range values.
func pick[T any](items []T, indexes []int) []T {
	out := make([]T, 0, len(indexes))
	for _, i := range indexes {
		if i >= 0 && i < len(items) {
			out = append(out, items[i])
		}
	}
	return out
}

func commentLabel(c model.ReviewComment) string {
	loc := c.Path
	if l := c.TargetLine(); l != nil {
		loc = fmt.Sprintf("%s:%d", c.Path, *l)
	}
	if c.Author == "" {
		return loc
	}
	return fmt.Sprintf("%s (@%s)", loc, c.Author)
}

// firstLine returns the first non-empty line of s truncated to limit runes.
func firstLine(s string, limit int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := []rune(line)
		if len(r) > limit {
			return string(r[:limit-1]) + "…"
		}
		return line
	}
	return ""
}
