package driven

import "context"

// Committer stages, commits and pushes files in the local working tree.
type Committer interface {
	// CommitAndPush commits paths with message and pushes the current branch.
	// It returns the new commit SHA.
	CommitAndPush(ctx context.Context, paths []string, message string) (string, error)
}
