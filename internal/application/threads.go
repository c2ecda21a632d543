package application

import (
	"slices"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// CommentThread groups a root review comment with its replies.
type CommentThread struct {
	Root       model.ReviewComment
	Replies    []model.ReviewComment // Sorted by CreatedAt.
	IsResolved bool
}

// groupIntoThreads groups review comments by InReplyToID into conversation threads.
// Replies whose root is missing become their own thread. Threads keep the
// order of their roots' CreatedAt; ties keep input order.
func groupIntoThreads(comments []model.ReviewComment, resolved map[int64]bool) []CommentThread {
	if len(comments) == 0 {
		return nil
	}

	threadMap := make(map[int64]*CommentThread)
	var rootOrder []int64

	for _, c := range comments {
		if c.IsRoot() {
			threadMap[c.ID] = &CommentThread{Root: c, IsResolved: c.IsResolved || resolved[c.ID]}
			rootOrder = append(rootOrder, c.ID)
		}
	}

	for _, c := range comments {
		if c.IsRoot() {
			continue
		}
		if thread, ok := threadMap[*c.InReplyToID]; ok {
			thread.Replies = append(thread.Replies, c)
			continue
		}
		threadMap[c.ID] = &CommentThread{Root: c, IsResolved: c.IsResolved || resolved[c.ID]}
		rootOrder = append(rootOrder, c.ID)
	}

	byCreated := func(a, b model.ReviewComment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	}

	threads := make([]CommentThread, 0, len(rootOrder))
	for _, id := range rootOrder {
		thread := threadMap[id]
		slices.SortStableFunc(thread.Replies, byCreated)
		threads = append(threads, *thread)
	}

	slices.SortStableFunc(threads, func(a, b CommentThread) int {
		return byCreated(a.Root, b.Root)
	})
	return threads
}
