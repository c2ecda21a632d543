package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.Prompter = (*Prompter)(nil)
	_ driven.Prompter = (*AutoPrompter)(nil)
)

// Prompter runs a bubbletea program for each decision.
type Prompter struct {
	in  io.Reader
	out io.Writer
	st  styles
}

// NewPrompter creates a Prompter reading keys from in and drawing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, st: newStyles(lipgloss.NewRenderer(out))}
}

// MultiSelect implements driven.Prompter.
func (p *Prompter) MultiSelect(ctx context.Context, title string, options []driven.SelectOption) ([]int, error) {
	if len(options) == 0 {
		return []int{}, nil
	}

	final, err := p.run(ctx, newChecklist(title, options, p.st))
	if err != nil {
		return nil, err
	}
	m, ok := final.(checklistModel)
	if !ok || m.aborted {
		return nil, model.ErrAborted
	}
	return m.selected(), nil
}

// ReviewReply implements driven.Prompter.
func (p *Prompter) ReviewReply(ctx context.Context, subject, draft string) (model.ReplyDecision, string, error) {
	final, err := p.run(ctx, newReplyModel(subject, draft, p.st))
	if err != nil {
		return "", "", err
	}
	m, ok := final.(replyModel)
	if !ok || m.aborted {
		return "", "", model.ErrAborted
	}
	if m.decision == model.ReplyEdit {
		return m.decision, m.edited(), nil
	}
	return m.decision, "", nil
}

func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return nil, model.ErrAborted
		}
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

// AutoPrompter accepts every default without asking. Used with --yes or
// when stdin is not a terminal.
type AutoPrompter struct{}

// MultiSelect returns the options that are selected by default.
func (AutoPrompter) MultiSelect(_ context.Context, title string, options []driven.SelectOption) ([]int, error) {
	chosen := []int{}
	for i, o := range options {
		if o.Selected {
			chosen = append(chosen, i)
		}
	}
	slog.Info("auto-selected", "prompt", title, "chosen", len(chosen), "of", len(options))
	return chosen, nil
}

// ReviewReply uses the generated reply as is.
func (AutoPrompter) ReviewReply(_ context.Context, subject, _ string) (model.ReplyDecision, string, error) {
	slog.Info("auto-approved reply", "comment", subject)
	return model.ReplyUse, "", nil
}
