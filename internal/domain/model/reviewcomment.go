package model

import "time"

// ReviewComment is an inline review comment fetched from a pull request.
// Line, OriginalLine and Position are absent for outdated or file-level comments.
type ReviewComment struct {
	ID           int64
	Author       string
	Body         string
	Path         string
	Line         *int
	OriginalLine *int
	Position     *int
	CommitID     string
	DiffHunk     string
	InReplyToID  *int64
	IsResolved   bool
	CreatedAt    time.Time
}

// IsRoot reports whether the comment starts a review thread.
func (c ReviewComment) IsRoot() bool {
	return c.InReplyToID == nil
}

// TargetLine returns the best known line for the comment: Line, then
// OriginalLine. Returns nil when neither is set.
func (c ReviewComment) TargetLine() *int {
	if c.Line != nil {
		return c.Line
	}
	return c.OriginalLine
}
