package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api/focus"
)

func (a *cli) mapCmd() *cobra.Command {
	var (
		venueID   string
		autoFocus bool
		remember  bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the camera the map opens with",
		Long: `Print the camera the map opens with.

Without --venue the map opens on the last saved region. With --venue it opens
centered on that bar, as when navigating from a bar's detail screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc := a.c.FocusService

			if venueID != "" {
				v, err := a.venue(cmd, venueID)
				if err != nil {
					return err
				}
				svc.Focus(ctx, focus.MapParamsFor(v, autoFocus))
			}

			svc.Open(ctx)
			view := svc.MapReady(ctx)
			defer svc.Leave(ctx)

			out := cmd.OutOrStdout()
			cam := view.Camera
			fmt.Fprintf(out, "Camera: %.4f, %.4f (span %.3f x %.3f)\n",
				cam.Latitude, cam.Longitude, cam.LatitudeDelta, cam.LongitudeDelta)
			if view.Selected != nil {
				fmt.Fprintf(out, "Selected: %s\n", view.Selected.Title)
			}

			if remember && !svc.SaveRegion(ctx, cam) {
				return errors.New("could not remember the region")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&venueID, "venue", "", "id of the bar to open the map on")
	cmd.Flags().BoolVar(&autoFocus, "auto-focus", true, "center the camera on --venue")
	cmd.Flags().BoolVar(&remember, "remember", false, "store the camera as the last map region")
	return cmd
}
