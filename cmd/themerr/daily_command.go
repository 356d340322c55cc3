package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"themerr/internal/catalog"
	"themerr/internal/pipeline"
)

func newDailyCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Refresh every stored item and rebuild aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.buildRuntime(false)
			if err != nil {
				return err
			}

			poolSize := rt.cfg.Updater.Workers
			if workers > 0 {
				poolSize = workers
			}

			if err := rt.reporter.Reset(); err != nil {
				return err
			}

			pool := pipeline.New(rt.resolver, rt.reporter, rt.logger, poolSize)
			daily := pipeline.NewDaily(rt.store, pool, rt.logger)

			start := time.Now()
			if err := daily.Run(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(catalog.All()))
			total := 0
			for _, category := range catalog.All() {
				results := pool.Results(category.Name)
				if len(results) == 0 {
					continue
				}
				total += len(results)
				rows = append(rows, []string{category.Title, strconv.Itoa(len(results))})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Category", "Items"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
					isTerminal(out),
				))
			}
			fmt.Fprintf(out, "Refreshed %d items in %s (%d failed)\n", total, formatDuration(time.Since(start)), pool.Failed())
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")
	return cmd
}
