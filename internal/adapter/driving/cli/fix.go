package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prreviewer/internal/application"
	"github.com/ericfisherdev/prreviewer/internal/config"
	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

func newFixCommand(g *globalFlags, streams Streams) *cobra.Command {
	var (
		dryRun          bool
		autoReply       bool
		includeResolved bool
	)

	cmd := &cobra.Command{
		Use:   "fix <pr-url>",
		Short: "Apply fixes for a pull request's review comments in the local checkout",
		Long: `fix processes the root comment of every unresolved review thread: the AI
model decides whether a change is needed, generates the fixed file and drafts a
reply. Approved replies are posted, then modified files are committed and
pushed to the current branch.

Run it from (or point --repo-path at) a checkout of the PR's head branch.`,
		Example: `  prreviewer fix https://github.com/owner/repo/pull/42
  prreviewer fix --dry-run --auto-reply=false https://github.com/owner/repo/pull/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := model.ParsePRURL(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(g, cmd.Flags(), streams, func(c *config.Config) {
				if cmd.Flags().Changed("auto-reply") {
					c.AutoReply = autoReply
				}
				if cmd.Flags().Changed("include-resolved") {
					c.IncludeResolved = includeResolved
				}
			})
			if err != nil {
				return err
			}

			tree, committer, err := openRepo(g.repoPath, cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := newSession(ctx, cfg, ref, g, streams)
			if err != nil {
				return err
			}
			defer s.Close()

			orch := application.NewOrchestrator(s.github, s.github, s.model, tree, committer, s.prompter, s.reporter, orchestratorOptions(cfg, dryRun))
			_, err = orch.RunFix(ctx, ref)
			return finish(streams, err)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every stage without writing files, posting replies or committing")
	cmd.Flags().BoolVar(&autoReply, "auto-reply", true, "Generate a reply for each processed comment")
	cmd.Flags().BoolVar(&includeResolved, "include-resolved", false, "Also process comments in resolved threads")
	return cmd
}
