package driven

import (
	"context"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// SelectOption is one entry of a multi-select prompt.
type SelectOption struct {
	Label    string
	Detail   string
	Selected bool // Initial checked state.
}

// Prompter asks the human for decisions. Implementations return
// model.ErrAborted when the user cancels.
type Prompter interface {
	// MultiSelect returns the indexes of the chosen options, in option order.
	MultiSelect(ctx context.Context, title string, options []SelectOption) ([]int, error)
	// ReviewReply shows a generated reply and returns the decision and, for
	// ReplyEdit, the replacement text.
	ReviewReply(ctx context.Context, subject, draft string) (model.ReplyDecision, string, error)
}
