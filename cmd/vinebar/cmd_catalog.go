package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-vinebar-venice/internal/flow"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

func (a *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, c := range a.c.CatalogService.Categories(cmd.Context()) {
				_, venues := a.c.CatalogService.Venues(cmd.Context(), string(c.ID))
				fmt.Fprintf(out, "%-10s %-24s %d bars\n", c.ID, c.Label, len(venues))
			}
			return nil
		},
	}
}

func (a *cli) findCmd() *cobra.Command {
	var exclude string

	cmd := &cobra.Command{
		Use:   "find <category>",
		Short: "Pick a random bar from a category",
		Long: `Pick a random bar from a category after the reveal delay.

The category may be an id, a label or an alias. Unknown categories fall back
to the default one. Press Ctrl-C during the delay to cancel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var excluded *types.VenueEntry
			if exclude != "" {
				excluded = &types.VenueEntry{Title: exclude}
			}

			category := types.CategoryID(args[0])
			var picked *types.VenueEntry
			durations := a.c.Config.Flow
			run := flow.Schedule(ctx, a.logger, flow.CategoryReveal(durations, func(context.Context) {
				v := a.c.Selector.PickRandomExcluding(category, excluded)
				picked = &v
			})...)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Looking for a bar...")
			run.Wait()

			if picked == nil {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			printVenue(out, *picked)
			return nil
		},
	}
	cmd.Flags().StringVar(&exclude, "exclude", "", "title of the bar to skip, usually the previous pick")
	return cmd
}
