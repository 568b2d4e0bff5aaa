package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-vinebar-venice/internal/flow"
)

func (a *cli) startCmd() *cobra.Command {
	var imageAfter, onboardingAfter time.Duration

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Play the splash sequence, then show what there is to explore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			durations := a.c.Config.Flow
			if cmd.Flags().Changed("image-after") {
				durations.SplashImage = imageAfter
			}
			if cmd.Flags().Changed("onboarding-after") {
				durations.Onboarding = onboardingAfter
			}

			cat := a.c.Catalog
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Loading...")

			run := flow.Schedule(ctx, a.logger, flow.Splash(durations,
				func(context.Context) {
					fmt.Fprintf(out, "Wine bars of %s\n", cat.City())
				},
				func(context.Context) {
					fmt.Fprintf(out, "%d bars in %d categories. Try `vinebar find` or `vinebar quiz`.\n",
						len(cat.All()), len(cat.ListCategories()))
				},
			)...)
			run.Wait()

			if len(run.Fired()) < 2 {
				fmt.Fprintln(out, "Cancelled.")
			}
			return nil
		},
	}
	def := flow.DefaultDurations()
	cmd.Flags().DurationVar(&imageAfter, "image-after", def.SplashImage, "delay before the splash image")
	cmd.Flags().DurationVar(&onboardingAfter, "onboarding-after", def.Onboarding, "delay before onboarding")
	return cmd
}
