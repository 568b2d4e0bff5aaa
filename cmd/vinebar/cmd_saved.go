package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

func (a *cli) savedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List or change the saved bars",
		Long: `List or change the saved bars.

Available subcommands:
  list   - Show the saved bars
  toggle - Save a bar, or unsave it if already saved
  add    - Save a bar
  remove - Unsave a bar`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the saved bars",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out := cmd.OutOrStdout()
				list := a.c.SavedService.List(cmd.Context())
				if len(list) == 0 {
					fmt.Fprintln(out, "No saved bars yet.")
					return nil
				}
				for _, v := range list {
					fmt.Fprintf(out, "%s\t%s\n", v.ID, v.Title)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle <venue-id>",
			Short: "Save a bar, or unsave it if already saved",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.venue(cmd, args[0])
				if err != nil {
					return err
				}
				printMembership(cmd.OutOrStdout(), v, a.c.SavedService.Toggle(cmd.Context(), v))
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <venue-id>",
			Short: "Save a bar",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.venue(cmd, args[0])
				if err != nil {
					return err
				}
				printMembership(cmd.OutOrStdout(), v, a.c.SavedService.Add(cmd.Context(), v))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <venue-id>",
			Short: "Unsave a bar",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				// entries that left the catalog can still be removed
				v := types.VenueEntry{ID: args[0]}
				if found, err := a.venue(cmd, args[0]); err == nil {
					v = found
				}
				printMembership(cmd.OutOrStdout(), v, a.c.SavedService.Remove(cmd.Context(), v))
				return nil
			},
		},
	)
	return cmd
}

func printMembership(w io.Writer, v types.VenueEntry, saved bool) {
	name := v.Title
	if name == "" {
		name = v.ID
	}
	if saved {
		fmt.Fprintf(w, "%s is saved\n", name)
		return
	}
	fmt.Fprintf(w, "%s is not saved\n", name)
}
