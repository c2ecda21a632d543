package driven

import (
	"context"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request data from GitHub.
type GitHubClient interface {
	FetchPRContext(ctx context.Context, ref model.PRRef) (model.PRContext, error)
	// FetchReviewComments returns every inline review comment on the PR,
	// replies included, in creation order.
	FetchReviewComments(ctx context.Context, ref model.PRRef) ([]model.ReviewComment, error)
	FetchPRFiles(ctx context.Context, ref model.PRRef) ([]model.PRFile, error)
	// FetchFileContent returns the content of path at the given git ref.
	FetchFileContent(ctx context.Context, ref model.PRRef, path, gitRef string) (string, error)
	// FetchThreadResolution returns a map of root review comment ID to its
	// resolved status. Failures yield an empty map.
	FetchThreadResolution(ctx context.Context, ref model.PRRef) (map[int64]bool, error)
}
