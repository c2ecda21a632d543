package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ericfisherdev/prreviewer/internal/adapter/driven/ai"
	githubadapter "github.com/ericfisherdev/prreviewer/internal/adapter/driven/github"
	"github.com/ericfisherdev/prreviewer/internal/adapter/driven/gitrepo"
	"github.com/ericfisherdev/prreviewer/internal/adapter/driven/terminal"
	"github.com/ericfisherdev/prreviewer/internal/adapter/driven/worktree"
	"github.com/ericfisherdev/prreviewer/internal/application"
	"github.com/ericfisherdev/prreviewer/internal/config"
	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

var isTerminal = terminal.IsInteractive

// session holds the adapters wired for one run.
type session struct {
	github   *githubadapter.Client
	model    *ai.Model
	prompter driven.Prompter
	reporter driven.Reporter
}

func (s *session) Close() {
	if s.model == nil {
		return
	}
	if err := s.model.Close(); err != nil {
		slog.Warn("closing model backend", "error", err)
	}
}

// newSession connects to GitHub and the AI backend for ref.
func newSession(ctx context.Context, cfg *config.Config, ref model.PRRef, g *globalFlags, streams Streams) (*session, error) {
	s := &session{
		reporter: terminal.NewReporter(streams.Out),
		prompter: terminal.AutoPrompter{},
	}
	if interactive(g, streams) {
		s.prompter = terminal.NewPrompter(streams.In, streams.Out)
	} else {
		slog.Info("running non-interactively; defaults are accepted")
	}

	gh, err := githubadapter.NewClient(ref.Host, cfg.GitHubToken)
	if err != nil {
		return nil, err
	}
	s.github = gh

	done := s.reporter.Step(fmt.Sprintf("Starting %s model backend", cfg.Model))
	m, err := ai.New(ctx, aiConfig(cfg))
	done()
	if err != nil {
		return nil, err
	}
	s.model = m
	return s, nil
}

func aiConfig(cfg *config.Config) ai.Config {
	return ai.Config{
		Backend:          cfg.Model,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicModel:   cfg.AnthropicModel,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIModel:      cfg.OpenAIModel,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		CopilotModel:     cfg.CopilotModel,
		ClaudePath:       cfg.ClaudePath,
		Timeout:          cfg.ModelTimeout,
	}
}

// openRepo opens the local checkout used by fix mode.
func openRepo(repoPath string, cfg *config.Config) (driven.WorkTree, driven.Committer, error) {
	info, err := os.Stat(repoPath)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: repo path %s is not a directory", model.ErrConfiguration, repoPath)
	}

	committer, err := gitrepo.Open(repoPath, gitrepo.Options{
		Remote:      cfg.Git.Remote,
		Token:       cfg.GitHubToken,
		AuthorName:  cfg.Git.AuthorName,
		AuthorEmail: cfg.Git.AuthorEmail,
	})
	if err != nil {
		return nil, nil, err
	}
	return worktree.New(repoPath), committer, nil
}

func orchestratorOptions(cfg *config.Config, dryRun bool) application.Options {
	return application.Options{
		DryRun:          dryRun,
		AutoReply:       cfg.AutoReply,
		MinSeverity:     cfg.Threshold(),
		IncludeResolved: cfg.IncludeResolved,
	}
}
