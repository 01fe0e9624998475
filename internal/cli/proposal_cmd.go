package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoziel/dayflow/internal/cli/formatter"
	"github.com/pkoziel/dayflow/internal/domain"
)

func newProposalsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Review pending rebalancing proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := a.Proposals.ListPending(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposalList(pending, time.Now()))
			return nil
		},
	}
	cmd.AddCommand(newProposalAcceptCmd(a), newProposalRejectCmd(a))
	return cmd
}

func newProposalAcceptCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <id>",
		Short: "Accept a proposal and apply its primary action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProposalID(ctx, a, args[0])
			if err != nil {
				return err
			}

			proposal, err := a.Proposals.Accept(ctx, id)
			if err != nil {
				return err
			}

			applied, err := applyAction(ctx, a, proposal.Primary)
			if err != nil {
				return fmt.Errorf("proposal accepted, but applying it failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ "+applied))
			return nil
		},
	}
}

func newProposalRejectCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProposalID(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Proposals.Reject(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rejected.")
			return nil
		},
	}
}

// applyAction executes a proposal's action against the task service and
// returns a short confirmation.
func applyAction(ctx context.Context, a *App, action domain.ProposalAction) (string, error) {
	switch action.Type {
	case domain.ActionMoveTask, domain.ActionReserveMorning:
		task, err := a.Tasks.GetByID(ctx, action.TaskID)
		if err != nil {
			return "", err
		}
		task.DueDate = action.ToDate
		if err := a.Tasks.Update(ctx, task); err != nil {
			return "", err
		}
		if action.Type == domain.ActionReserveMorning {
			return fmt.Sprintf("Reserved %s tomorrow for %q.", action.Params["time"], task.Title), nil
		}
		return fmt.Sprintf("Moved %q.", task.Title), nil

	case domain.ActionReorderTask:
		// Ordering is recomputed every plan; acceptance is the signal.
		return "Noted. The next plan will pull it forward.", nil

	case domain.ActionDecomposeTask:
		task, err := a.Tasks.GetByID(ctx, action.TaskID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Split %q into ~%sm chunks with 'dayflow task add'.",
			task.Title, action.Params["target_duration"]), nil

	case domain.ActionTakeBreak:
		return "Step away for a bit. The queue will be here.", nil

	default:
		return "", fmt.Errorf("unknown action type %q", action.Type)
	}
}

// resolveProposalID accepts a full proposal id or a unique prefix of one.
func resolveProposalID(ctx context.Context, a *App, ref string) (string, error) {
	pending, err := a.Proposals.ListPending(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range pending {
		if p.ID == ref {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no pending proposal matches %q", ref)
	default:
		return "", fmt.Errorf("%q is ambiguous: %d proposals match", ref, len(matches))
	}
}
