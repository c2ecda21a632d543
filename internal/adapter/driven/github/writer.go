package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubWriter = (*Client)(nil)

// PostReview creates a pull request review with inline comments.
// If the CommitID in req is empty, the current PR head SHA is fetched first
// to avoid submitting against a stale commit.
func (c *Client) PostReview(ctx context.Context, ref model.PRRef, req driven.ReviewRequest) error {
	commitID := req.CommitID
	if commitID == "" {
		pr, _, err := c.gh.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			return transportError("fetching PR head SHA before review submit", err)
		}
		commitID = pr.GetHead().GetSHA()
	}

	event := req.Event
	if event == "" {
		event = "COMMENT"
	}

	draftComments := make([]*gh.DraftReviewComment, 0, len(req.Comments))
	for _, dlc := range req.Comments {
		draftComments = append(draftComments, &gh.DraftReviewComment{
			Path: gh.Ptr(dlc.Path),
			Body: gh.Ptr(dlc.Body),
			Line: gh.Ptr(dlc.Line),
			Side: gh.Ptr(string(dlc.Side)),
		})
	}

	reviewReq := &gh.PullRequestReviewRequest{
		CommitID: gh.Ptr(commitID),
		Event:    gh.Ptr(event),
		Body:     gh.Ptr(req.Body),
		Comments: draftComments,
	}

	_, resp, err := c.gh.PullRequests.CreateReview(ctx, ref.Owner, ref.Repo, ref.Number, reviewReq)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnprocessableEntity {
			return transportError("review rejected; the PR may have been updated or a line is outside the diff", err)
		}
		return transportError(fmt.Sprintf("submitting review for %s", ref), err)
	}

	logRateLimit(resp, ref.FullName()+"/create-review", 0, len(draftComments))
	return nil
}

// ReplyToComment replies to an existing review comment thread.
// commentID must be the root comment ID of the thread.
func (c *Client) ReplyToComment(ctx context.Context, ref model.PRRef, commentID int64, body string) error {
	_, resp, err := c.gh.PullRequests.CreateCommentInReplyTo(ctx, ref.Owner, ref.Repo, ref.Number, body, commentID)
	if err != nil {
		return transportError(fmt.Sprintf("replying to comment %d on %s", commentID, ref), err)
	}

	logRateLimit(resp, ref.FullName()+"/reply-comment", 0, 1)
	return nil
}

// PostIssueComment adds a PR-level comment via the Issues API.
func (c *Client) PostIssueComment(ctx context.Context, ref model.PRRef, body string) error {
	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	_, resp, err := c.gh.Issues.CreateComment(ctx, ref.Owner, ref.Repo, ref.Number, comment)
	if err != nil {
		return transportError(fmt.Sprintf("creating comment on %s", ref), err)
	}

	logRateLimit(resp, ref.FullName()+"/create-comment", 0, 1)
	return nil
}
