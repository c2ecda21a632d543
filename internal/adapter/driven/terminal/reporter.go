package terminal

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Reporter = (*Reporter)(nil)

// Reporter prints progress and summaries with lipgloss styling.
type Reporter struct {
	out     io.Writer
	spinOut *os.File // nil disables spinners
	st      styles
}

// NewReporter writes to f, animating steps when f is a terminal.
func NewReporter(f *os.File) *Reporter {
	r := NewPlainReporter(f)
	if IsInteractive(f) {
		r.spinOut = f
	}
	return r
}

// NewPlainReporter writes unanimated output to w.
func NewPlainReporter(w io.Writer) *Reporter {
	return &Reporter{out: w, st: newStyles(lipgloss.NewRenderer(w))}
}

// Step implements driven.Reporter.
func (r *Reporter) Step(message string) func() {
	if r.spinOut == nil {
		fmt.Fprintf(r.out, "%s %s\n", r.st.dim.Render("…"), message)
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(r.spinOut))
	s.Suffix = " " + message
	s.Start()
	return func() {
		s.Stop()
		fmt.Fprintf(r.out, "%s %s\n", r.st.ok.Render("✓"), message)
	}
}

// PRHeader implements driven.Reporter.
func (r *Reporter) PRHeader(ref model.PRRef, pr model.PRContext) {
	body := fmt.Sprintf("%s\n%s  %s → %s  by @%s",
		r.st.label.Render(fmt.Sprintf("#%d %s", pr.Number, pr.Title)),
		ref.FullName(), pr.HeadBranch, pr.BaseBranch, pr.Author)
	fmt.Fprintln(r.out, r.st.box.Render(body))
}

// Info implements driven.Reporter.
func (r *Reporter) Info(message string) {
	fmt.Fprintf(r.out, "%s %s\n", r.st.info.Render("ℹ"), message)
}

// Warn implements driven.Reporter.
func (r *Reporter) Warn(message string) {
	fmt.Fprintf(r.out, "%s %s\n", r.st.warn.Render("⚠"), message)
}

// ItemStarted implements driven.Reporter.
func (r *Reporter) ItemStarted(index, total int, c model.ReviewComment) {
	loc := c.Path
	if l := c.TargetLine(); l != nil {
		loc = fmt.Sprintf("%s:%d", c.Path, *l)
	}
	fmt.Fprintf(r.out, "\n%s %s %s\n  %s\n",
		r.st.title.Render(fmt.Sprintf("[%d/%d]", index, total)),
		r.st.label.Render(loc),
		r.st.dim.Render("@"+c.Author),
		clip(c.Body, 120))
}

// ItemOutcome implements driven.Reporter.
func (r *Reporter) ItemOutcome(o model.FixOutcome) {
	switch o.Kind {
	case model.OutcomeModified:
		fmt.Fprintf(r.out, "  %s %s\n", r.st.ok.Render("✓"), clip(o.ChangesSummary, 160))
	case model.OutcomeNoAction:
		fmt.Fprintf(r.out, "  %s %s\n", r.st.dim.Render("–"), clip(o.ChangesSummary, 160))
	default:
		fmt.Fprintf(r.out, "  %s %v\n", r.st.fail.Render("✗"), o.Err)
		if o.PartialWrite {
			fmt.Fprintf(r.out, "  %s %s may be partially written; check it before committing\n", r.st.warn.Render("⚠"), o.Path)
		}
	}
}

// FileReviewed implements driven.Reporter.
func (r *Reporter) FileReviewed(path string, suggestions int) {
	fmt.Fprintf(r.out, "  %s %s\n", r.st.label.Render(path), r.st.dim.Render(fmt.Sprintf("%d suggestion(s)", suggestions)))
}

// Discarded implements driven.Reporter.
func (r *Reporter) Discarded(d model.DiscardedSuggestion) {
	fmt.Fprintf(r.out, "  %s %s:%d %s\n", r.st.warn.Render("discarded"), d.Suggestion.Path, d.Suggestion.Line, r.st.dim.Render(d.Reason))
}

// FixSummary implements driven.Reporter.
func (r *Reporter) FixSummary(s model.FixSummary) {
	rows := [][]string{
		{"Processed", strconv.Itoa(s.Total())},
		{"Successful", strconv.Itoa(s.Successful())},
		{"Failed", strconv.Itoa(s.Failed())},
		{"Files modified", strconv.Itoa(len(s.ModifiedFiles))},
		{"Replies posted", strconv.Itoa(s.RepliesPosted)},
	}
	if s.RepliesFailed > 0 {
		rows = append(rows, []string{"Replies failed", strconv.Itoa(s.RepliesFailed)})
	}
	if s.CommitSHA != "" {
		rows = append(rows, []string{"Commit", shortSHA(s.CommitSHA)})
	}

	r.summaryHeader("Fix summary", s.DryRun)
	fmt.Fprintln(r.out, r.table([]string{"", "Count"}, rows))
	for _, f := range s.ModifiedFiles {
		fmt.Fprintf(r.out, "  %s %s\n", r.st.ok.Render("M"), f)
	}
}

// ReviewSummary implements driven.Reporter.
func (r *Reporter) ReviewSummary(s model.ReviewSummary) {
	r.summaryHeader("Review summary", s.DryRun)
	fmt.Fprintln(r.out, r.table([]string{"", "Count"}, [][]string{
		{"Files reviewed", strconv.Itoa(s.FilesReviewed)},
		{"Files failed", strconv.Itoa(s.FilesFailed)},
		{"Suggestions found", strconv.Itoa(s.Candidates)},
		{"Discarded (outside diff)", strconv.Itoa(s.Discarded)},
		{"Selected", strconv.Itoa(len(s.Posted))},
	}))

	if len(s.Posted) > 0 {
		counts := s.CountBySeverity()
		rows := make([][]string, 0, len(model.AllSeverities))
		for _, sev := range model.AllSeverities {
			rows = append(rows, []string{sev.String(), strconv.Itoa(counts[sev])})
		}
		fmt.Fprintln(r.out, r.table([]string{"Severity", "Count"}, rows))
	}

	switch {
	case s.ReviewPosted:
		fmt.Fprintf(r.out, "%s review posted\n", r.st.success.Render("✓"))
	case s.DryRun:
		fmt.Fprintf(r.out, "%s dry run: nothing was posted\n", r.st.info.Render("ℹ"))
	}
}

func (r *Reporter) summaryHeader(title string, dryRun bool) {
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(r.out, "\n%s\n", r.st.title.Render(title))
}

func (r *Reporter) table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.st.dim).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.st.header
			}
			return r.st.cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
