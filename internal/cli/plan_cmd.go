package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/cli/formatter"
	"github.com/pkoziel/dayflow/internal/domain"
)

func newPlanCmd(a *App) *cobra.Command {
	var energy, focus, available int
	var mode, contextFilter string
	var basic bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Rank today's tasks against your current energy and focus",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without explicit sliders, walk through the check-in form on
			// a terminal.
			if !cmd.Flags().Changed("energy") && !cmd.Flags().Changed("focus") {
				if !a.interactive() {
					return fmt.Errorf("either pass --energy and --focus or run interactively")
				}
				checkin, err := runCheckinForm()
				if err != nil {
					return err
				}
				energy = checkin.Energy
				focus = checkin.Focus
				mode = checkin.Mode
				available = checkin.AvailableMin
			}

			req := app.NewPlanRequest(energy, focus)
			req.Adaptive = !basic
			req.ContextFilter = contextFilter
			if mode != "" {
				req.Mode = domain.WorkMode(mode)
			}
			if cmd.Flags().Changed("available") || available > 0 {
				req.AvailableMin = available
			}

			resp, err := a.Planner.Plan(context.Background(), req)
			if err != nil {
				return planErrorMessage(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(resp))
			return nil
		},
	}

	cmd.Flags().IntVarP(&energy, "energy", "e", 3, "Current energy level (1-5)")
	cmd.Flags().IntVarP(&focus, "focus", "f", 3, "Current focus level (1-5)")
	cmd.Flags().VarP(workModeValue{&mode}, "mode", "m", "Work mode: standard, low_focus, hyperfocus, quick_wins")
	cmd.Flags().StringVarP(&contextFilter, "context", "c", "", "Only rank tasks in this context")
	cmd.Flags().IntVar(&available, "available", 0, "Minutes available today")
	cmd.Flags().BoolVar(&basic, "basic", false, "Disable the personalized overlay")

	return cmd
}

// workModeValue validates the --mode flag at parse time.
type workModeValue struct {
	mode *string
}

var _ pflag.Value = workModeValue{}

func (v workModeValue) String() string { return *v.mode }

func (v workModeValue) Set(s string) error {
	if !domain.ValidWorkModes[s] {
		return fmt.Errorf("unknown work mode %q", s)
	}
	*v.mode = s
	return nil
}

func (workModeValue) Type() string { return "mode" }

// planErrorMessage turns plan error codes into actionable CLI messages.
func planErrorMessage(err error) error {
	var planErr *app.PlanError
	if !errors.As(err, &planErr) {
		return err
	}
	switch planErr.Code {
	case app.ErrNoTasks:
		return fmt.Errorf("nothing to plan: add tasks with 'dayflow task add'")
	case app.ErrNoEligibleTasks:
		return fmt.Errorf("%s: relax the mode or context filter", planErr.Message)
	default:
		return err
	}
}
