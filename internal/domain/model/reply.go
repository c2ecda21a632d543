package model

// PendingReply is a generated reply awaiting human approval.
type PendingReply struct {
	Comment ReviewComment
	Draft   string
}

// ConfirmedReply is a reply approved for posting, possibly edited.
type ConfirmedReply struct {
	CommentID int64
	Body      string
}
