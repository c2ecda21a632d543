// Package gitrepo implements the Committer port with go-git.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Committer = (*Committer)(nil)

const (
	defaultRemote      = "origin"
	defaultAuthorName  = "prreviewer"
	defaultAuthorEmail = "prreviewer@users.noreply.github.com"
)

// Options configures commit authorship and push credentials. Empty author
// fields fall back to the repository's user config.
type Options struct {
	Remote      string
	Token       string
	AuthorName  string
	AuthorEmail string
}

// Committer stages, commits and pushes files in a local clone.
type Committer struct {
	repo   *git.Repository
	prefix string // path from the worktree root to the directory given to Open
	opts   Options
	now    func() time.Time
}

// Open opens the repository containing path.
func Open(path string, opts Options) (*Committer, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: opening repository at %s: %w", model.ErrGitOperation, path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: repository at %s has no worktree: %w", model.ErrGitOperation, path, err)
	}
	if opts.Remote == "" {
		opts.Remote = defaultRemote
	}

	prefix, err := relativeTo(wt.Filesystem.Root(), path)
	if err != nil {
		return nil, err
	}

	return &Committer{
		repo:   repo,
		prefix: prefix,
		opts:   withAuthor(repo, opts),
		now:    time.Now,
	}, nil
}

// CommitAndPush stages paths (relative to the repository path given to Open),
// commits them and pushes the current branch. Returns the new commit SHA.
func (c *Committer) CommitAndPush(ctx context.Context, paths []string, message string) (string, error) {
	wt, err := c.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: worktree: %w", model.ErrGitOperation, err)
	}

	for _, p := range paths {
		if _, err := wt.Add(filepath.ToSlash(filepath.Join(c.prefix, p))); err != nil {
			return "", fmt.Errorf("%w: staging %s: %w", model.ErrGitOperation, p, err)
		}
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.opts.AuthorName,
			Email: c.opts.AuthorEmail,
			When:  c.now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: committing: %w", model.ErrGitOperation, err)
	}
	slog.Info("committed review fixes", "sha", hash.String(), "files", len(paths))

	if err := c.push(ctx); err != nil {
		return hash.String(), err
	}
	return hash.String(), nil
}

func (c *Committer) push(ctx context.Context) error {
	branch, err := c.currentBranch()
	if err != nil {
		return err
	}

	remote, err := c.repo.Remote(c.opts.Remote)
	if err != nil {
		return fmt.Errorf("%w: remote %q: %w", model.ErrGitOperation, c.opts.Remote, err)
	}

	opts := &git.PushOptions{
		RemoteName: c.opts.Remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf("%s:%s", branch, branch))},
		Auth:       c.auth(remote.Config().URLs),
	}

	err = c.repo.PushContext(ctx, opts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: pushing %s to %s: %w", model.ErrGitOperation, branch.Short(), c.opts.Remote, err)
	}
	slog.Info("pushed branch", "branch", branch.Short(), "remote", c.opts.Remote)
	return nil
}

// auth returns token credentials for HTTP remotes. Other transports use
// their own credential mechanisms.
func (c *Committer) auth(urls []string) transport.AuthMethod {
	if c.opts.Token == "" || len(urls) == 0 {
		return nil
	}
	ep, err := transport.NewEndpoint(urls[0])
	if err != nil || (ep.Protocol != "http" && ep.Protocol != "https") {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: c.opts.Token}
}

// currentBranch returns the checked-out branch. A detached HEAD is an error.
func (c *Committer) currentBranch() (plumbing.ReferenceName, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", fmt.Errorf("%w: resolving HEAD: %w", model.ErrGitOperation, err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("%w: HEAD is detached; check out the PR branch before running fix", model.ErrGitOperation)
	}
	return head.Name(), nil
}

func withAuthor(repo *git.Repository, opts Options) Options {
	if opts.AuthorName != "" && opts.AuthorEmail != "" {
		return opts
	}
	if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil {
		if opts.AuthorName == "" {
			opts.AuthorName = cfg.User.Name
		}
		if opts.AuthorEmail == "" {
			opts.AuthorEmail = cfg.User.Email
		}
	}
	if opts.AuthorName == "" {
		opts.AuthorName = defaultAuthorName
	}
	if opts.AuthorEmail == "" {
		opts.AuthorEmail = defaultAuthorEmail
	}
	return opts
}

func relativeTo(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %w", model.ErrGitOperation, path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the repository at %s", model.ErrGitOperation, path, root)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}
