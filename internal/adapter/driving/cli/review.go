package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prreviewer/internal/application"
	"github.com/ericfisherdev/prreviewer/internal/config"
	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

func newReviewCommand(g *globalFlags, streams Streams) *cobra.Command {
	var (
		dryRun      bool
		minSeverity string
	)

	cmd := &cobra.Command{
		Use:   "review <pr-url>",
		Short: "Review a pull request diff and post approved suggestions",
		Example: `  prreviewer review https://github.com/owner/repo/pull/42
  prreviewer review --min-severity major --yes https://github.com/owner/repo/pull/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := model.ParsePRURL(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig(g, cmd.Flags(), streams, func(c *config.Config) {
				if cmd.Flags().Changed("min-severity") {
					c.MinSeverity = minSeverity
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := newSession(ctx, cfg, ref, g, streams)
			if err != nil {
				return err
			}
			defer s.Close()

			orch := application.NewOrchestrator(s.github, s.github, s.model, nil, nil, s.prompter, s.reporter, orchestratorOptions(cfg, dryRun))
			_, err = orch.RunReview(ctx, ref)
			return finish(streams, err)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Review and select suggestions without posting anything")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "Skip the severity prompt and post suggestions at or above this severity: critical, major, minor (minor ones are still picked individually)")
	return cmd
}
