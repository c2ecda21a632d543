// Package github implements the GitHubClient and GitHubWriter ports using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh         *gh.Client
	token      string // Stored for the GraphQL Authorization header.
	graphqlURL string
}

// NewClient creates a GitHub API client for host with the following transport stack:
//  1. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  2. httpcache (ETag-based conditional request caching)
//  3. oauth2 (static token authentication)
//
// Hosts other than github.com are addressed as GitHub Enterprise Server.
func NewClient(host, token string) (*Client, error) {
	authTransport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   http.DefaultTransport,
	}
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = authTransport
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	graphqlURL := "https://api.github.com/graphql"

	if host != "" && host != "github.com" && host != "www.github.com" {
		base := fmt.Sprintf("https://%s/api/v3/", host)
		upload := fmt.Sprintf("https://%s/api/uploads/", host)
		var err error
		client, err = client.WithEnterpriseURLs(base, upload)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise host %s: %w", host, err)
		}
		graphqlURL = fmt.Sprintf("https://%s/api/graphql", host)
	}

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: graphqlURL,
	}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// FetchPRContext retrieves the pull request metadata used as model context.
func (c *Client) FetchPRContext(ctx context.Context, ref model.PRRef) (model.PRContext, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return model.PRContext{}, transportError(fmt.Sprintf("fetching pull request %s", ref), err)
	}

	logRateLimit(resp, ref.FullName()+"/pull", 0, 1)

	return mapPullRequest(pr), nil
}

// FetchReviewComments retrieves all review comments (inline code comments) for a pull request.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) FetchReviewComments(ctx context.Context, ref model.PRRef) ([]model.ReviewComment, error) {
	opts := &gh.PullRequestListCommentsOptions{
		Sort:        "created",
		Direction:   "asc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var allComments []model.ReviewComment

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, transportError(fmt.Sprintf("listing review comments for %s (page %d)", ref, opts.Page), err)
		}

		logRateLimit(resp, ref.FullName()+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			allComments = append(allComments, mapReviewComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// FetchPRFiles retrieves every file changed by the pull request, with patches.
func (c *Client) FetchPRFiles(ctx context.Context, ref model.PRRef) ([]model.PRFile, error) {
	opts := &gh.ListOptions{PerPage: 100}
	var allFiles []model.PRFile

	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			return nil, transportError(fmt.Sprintf("listing files for %s (page %d)", ref, opts.Page), err)
		}

		logRateLimit(resp, ref.FullName()+"/files", opts.Page, len(files))

		for _, f := range files {
			allFiles = append(allFiles, mapCommitFile(f))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// FetchFileContent returns the decoded content of path at gitRef.
func (c *Client) FetchFileContent(ctx context.Context, ref model.PRRef, path, gitRef string) (string, error) {
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, &gh.RepositoryContentGetOptions{Ref: gitRef})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s@%s", model.ErrFileNotFound, path, gitRef)
		}
		return "", transportError(fmt.Sprintf("fetching %s@%s", path, gitRef), err)
	}
	if file == nil {
		return "", fmt.Errorf("%w: %s is a directory", model.ErrFileNotFound, path)
	}

	logRateLimit(resp, ref.FullName()+"/contents", 0, 1)

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

// mapPullRequest converts a go-github PullRequest to a domain model PRContext.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest) model.PRContext {
	state := pr.GetState()
	if !pr.GetMergedAt().IsZero() {
		state = "merged"
	}

	return model.PRContext{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		BaseBranch:  pr.GetBase().GetRef(),
		HeadBranch:  pr.GetHead().GetRef(),
		HeadSHA:     pr.GetHead().GetSHA(),
		State:       state,
		Author:      pr.GetUser().GetLogin(),
	}
}

// mapReviewComment converts a go-github PullRequestComment to a domain model ReviewComment.
func mapReviewComment(c *gh.PullRequestComment) model.ReviewComment {
	var inReplyTo *int64
	if c.InReplyTo != nil {
		val := c.GetInReplyTo()
		inReplyTo = &val
	}

	return model.ReviewComment{
		ID:           c.GetID(),
		Author:       c.GetUser().GetLogin(),
		Body:         c.GetBody(),
		Path:         c.GetPath(),
		Line:         c.Line,
		OriginalLine: c.OriginalLine,
		Position:     c.Position,
		CommitID:     c.GetCommitID(),
		DiffHunk:     c.GetDiffHunk(),
		InReplyToID:  inReplyTo,
		CreatedAt:    c.GetCreatedAt().Time,
	}
}

// mapCommitFile converts a go-github CommitFile to a domain model PRFile.
func mapCommitFile(f *gh.CommitFile) model.PRFile {
	return model.PRFile{
		Filename:         f.GetFilename(),
		PreviousFilename: f.GetPreviousFilename(),
		Status:           model.FileStatus(f.GetStatus()),
		Additions:        f.GetAdditions(),
		Deletions:        f.GetDeletions(),
		Changes:          f.GetChanges(),
		Patch:            f.GetPatch(),
		SHA:              f.GetSHA(),
	}
}

// transportError wraps a go-github failure in the ErrAPITransport category.
func transportError(op string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s: GitHub rejected the token: %w", model.ErrAPITransport, op, err)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrAPITransport, op, err)
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
