// Package cli is the command-line driving adapter: cobra commands that load
// configuration, wire adapters and run the orchestrator.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ericfisherdev/prreviewer/internal/config"
	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// Streams are the process's standard streams.
type Streams struct {
	In  *os.File
	Out *os.File
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	repoPath   string
	model      string
	logLevel   string
	yes        bool
}

// NewRootCommand builds the prreviewer command tree.
func NewRootCommand(version string, streams Streams) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "prreviewer",
		Short: "AI-assisted pull request review and review-comment fixing",
		Long: `prreviewer works on a single GitHub pull request in one of two modes.

  review  reviews the PR diff with an AI model and posts the suggestions you
          approve as one review with inline comments.
  fix     reads the PR's review comments, applies AI-generated fixes to the
          local checkout, replies to the reviewers and commits the result.

Every side effect is gated behind an interactive confirmation unless --yes is
given or stdin is not a terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Path to config file (default <repo-path>/"+config.DefaultFile+")")
	pf.StringVar(&g.repoPath, "repo-path", ".", "Path to the local checkout of the PR branch")
	pf.StringVar(&g.model, "model", "", "AI backend: claude-code, anthropic, openai or copilot")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&g.yes, "yes", "y", false, "Accept every default without prompting")

	root.AddCommand(newReviewCommand(g, streams), newFixCommand(g, streams))
	return root
}

// loadConfig resolves configuration from the config file, environment and
// changed flags, validates it and installs the logger.
func loadConfig(g *globalFlags, flags *pflag.FlagSet, streams Streams, apply func(*config.Config)) (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = filepath.Join(g.repoPath, config.DefaultFile)
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: config file: %w", model.ErrConfiguration, err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.Changed("model") {
		cfg.Model = g.model
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if apply != nil {
		apply(cfg)
	}

	if lvl, err := cfg.SlogLevel(); err == nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(streams.Err, &slog.HandlerOptions{Level: lvl})))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Info("config loaded", "model", cfg.Model, "repo_path", g.repoPath, "min_severity", cfg.MinSeverity)
	return cfg, nil
}

// interactive reports whether prompts should be shown.
func interactive(g *globalFlags, streams Streams) bool {
	if g.yes || streams.In == nil {
		return false
	}
	return isTerminal(streams.In)
}

// finish turns a user abort into a clean exit.
func finish(streams Streams, err error) error {
	if errors.Is(err, model.ErrAborted) {
		fmt.Fprintln(streams.Err, "Aborted.")
		return nil
	}
	return err
}
