package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// graphqlHTTPClient enforces a hard timeout on GraphQL calls on top of ctx.
var graphqlHTTPClient = &http.Client{Timeout: 30 * time.Second}

// maxThreadPages bounds review thread pagination at 1000 threads.
const maxThreadPages = 10

const reviewThreadsQuery = `query($owner: String!, $repo: String!, $pr: Int!, $after: String) {
	repository(owner: $owner, name: $repo) {
		pullRequest(number: $pr) {
			reviewThreads(first: 100, after: $after) {
				pageInfo { hasNextPage endCursor }
				nodes {
					isResolved
					comments(first: 1) { nodes { databaseId } }
				}
			}
		}
	}
}`

type reviewThreadsData struct {
	Repository struct {
		PullRequest struct {
			ReviewThreads struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []struct {
					IsResolved bool `json:"isResolved"`
					Comments   struct {
						Nodes []struct {
							DatabaseID int64 `json:"databaseId"`
						} `json:"nodes"`
					} `json:"comments"`
				} `json:"nodes"`
			} `json:"reviewThreads"`
		} `json:"pullRequest"`
	} `json:"repository"`
}

// FetchThreadResolution maps each thread's root review comment ID to whether
// the thread is resolved on GitHub. REST does not expose resolution.
//
// The lookup is best effort: on any failure the threads collected so far are
// returned with a nil error and a warning is logged, so callers treat unknown
// threads as unresolved.
func (c *Client) FetchThreadResolution(ctx context.Context, ref model.PRRef) (map[int64]bool, error) {
	resolved := map[int64]bool{}
	if c.token == "" {
		return resolved, nil
	}

	vars := map[string]any{
		"owner": ref.Owner,
		"repo":  ref.Repo,
		"pr":    ref.Number,
		"after": nil,
	}
	for page := range maxThreadPages {
		var data reviewThreadsData
		if err := c.graphql(ctx, reviewThreadsQuery, vars, &data); err != nil {
			slog.Warn("review thread lookup failed", "pr", ref.String(), "page", page, "error", err)
			return resolved, nil
		}

		threads := data.Repository.PullRequest.ReviewThreads
		for _, n := range threads.Nodes {
			if len(n.Comments.Nodes) == 0 || n.Comments.Nodes[0].DatabaseID == 0 {
				continue
			}
			resolved[n.Comments.Nodes[0].DatabaseID] = n.IsResolved
		}

		if !threads.PageInfo.HasNextPage || threads.PageInfo.EndCursor == "" {
			return resolved, nil
		}
		vars["after"] = threads.PageInfo.EndCursor
	}

	slog.Warn("review thread pagination limit reached", "pr", ref.String(), "pages", maxThreadPages)
	return resolved, nil
}

// graphql posts one query and decodes its data member into out.
func (c *Client) graphql(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}{query, vars})
	if err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := graphqlHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: graphql: %w", model.ErrAPITransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: graphql: status %d", model.ErrAPITransport, resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]error, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, errors.New(e.Message))
		}
		return fmt.Errorf("graphql: %w", errors.Join(msgs...))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.New("graphql: empty data")
	}
	return json.Unmarshal(envelope.Data, out)
}
