package driven

import (
	"context"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// DraftLineComment is a single inline comment submitted as part of a review.
type DraftLineComment struct {
	Path string
	Line int
	Side model.Side
	Body string
}

// ReviewRequest is the input to GitHubWriter.PostReview.
type ReviewRequest struct {
	CommitID string // Head SHA to attach the review to; fetched when empty.
	Event    string // "COMMENT", "APPROVE" or "REQUEST_CHANGES".
	Body     string
	Comments []DraftLineComment
}

// GitHubWriter defines the driven port for GitHub write operations.
// It is kept separate from GitHubClient so dry runs can swap it out.
type GitHubWriter interface {
	// PostReview submits one review carrying all inline comments.
	PostReview(ctx context.Context, ref model.PRRef, req ReviewRequest) error
	// ReplyToComment replies in the thread rooted at commentID.
	ReplyToComment(ctx context.Context, ref model.PRRef, commentID int64, body string) error
	// PostIssueComment posts a PR-level comment.
	PostIssueComment(ctx context.Context, ref model.PRRef, body string) error
}
