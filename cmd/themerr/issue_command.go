package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"themerr/internal/pipeline"
)

func newIssueCommand(ctx *commandContext) *cobra.Command {
	var submissionFlag string
	var contributorFlag string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Process a single theme submission",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime(true)
			if err != nil {
				return err
			}

			submission := strings.TrimSpace(submissionFlag)
			if submission == "" {
				submission = rt.cfg.Paths.SubmissionFile
			}
			contributor := strings.TrimSpace(contributorFlag)
			if contributor == "" {
				contributor = rt.cfg.Updater.Contributor
			}
			if contributor == "" {
				return fmt.Errorf("contributor id required: pass --contributor, set updater.contributor, or export THEMERR_CONTRIBUTOR")
			}

			issue := pipeline.NewIssue(
				rt.resolver,
				rt.store,
				rt.youtube,
				rt.reporter,
				rt.logger,
				contributor,
				rt.cfg.YouTube.MinDurationSeconds,
				rt.cfg.YouTube.MaxDurationSeconds,
			)
			if err := issue.Run(cmd.Context(), submission); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Submission processed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&submissionFlag, "submission", "s", "", "Path to the submission file")
	cmd.Flags().StringVar(&contributorFlag, "contributor", "", "Contributor id credited for this submission")
	return cmd
}
