package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-vinebar-venice/internal/api/share"
)

func (a *cli) shareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <venue-id>",
		Short: "Print the share message of a bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.venue(cmd, args[0])
			if err != nil {
				return err
			}
			svc := share.NewService(share.WriterSharer{W: cmd.OutOrStdout()}, a.logger)
			if outcome := svc.Share(cmd.Context(), v); outcome == share.OutcomeFailed {
				return fmt.Errorf("sharing %s failed", v.ID)
			}
			return nil
		},
	}
}
