package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoziel/dayflow/internal/cli/formatter"
)

func newShiftCmd(a *App) *cobra.Command {
	var from, to float64

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Report a mid-day energy shift and get a rebalancing suggestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := a.Planner.SliderChange(context.Background(), from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if proposal == nil {
				fmt.Fprintln(out, formatter.Dim("No change worth making."))
				return nil
			}
			fmt.Fprint(out, formatter.FormatProposal(proposal, time.Now()))
			fmt.Fprintln(out, formatter.Dim("Accept it with 'dayflow proposals accept'"))
			return nil
		},
	}

	cmd.Flags().Float64Var(&from, "from", 3, "State you planned the day at (1-5)")
	cmd.Flags().Float64Var(&to, "to", 3, "State you're at now (1-5)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newProfileCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show what the planner has learned about you",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.Profile.Get(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProfile(profile))
			return nil
		},
	}
}
