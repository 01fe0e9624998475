package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoziel/dayflow/internal/cli/formatter"
	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/service"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskListCmd(a),
		newTaskDoneCmd(a),
		newTaskPostponeCmd(a),
		newTaskRmCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *App) *cobra.Command {
	var estimate int
	var priority, load, contextType, due string
	var must, important bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := &domain.Task{
				Title:         strings.Join(args, " "),
				Priority:      domain.ParsePriority(priority),
				EstimateMin:   estimate,
				CognitiveLoad: domain.ParseCognitiveLoad(load),
				ContextType:   contextType,
				IsMust:        must,
				IsImportant:   important,
			}
			if due != "" {
				day, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("parsing --due: expected YYYY-MM-DD, got %q", due)
				}
				task.DueDate = &day
			}

			proposal, err := a.Tasks.Add(context.Background(), task)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s\n", formatter.FormatTaskLine(task, time.Now()))
			if proposal != nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.StyleYellow.Render("Today looks overloaded:"))
				fmt.Fprint(out, formatter.FormatProposal(proposal, time.Now()))
				fmt.Fprintln(out, formatter.Dim("Review it with 'dayflow proposals'"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "3", "Priority 1 (urgent) to 4 (someday), or P1..P4")
	cmd.Flags().IntVar(&estimate, "estimate", 30, "Estimated minutes")
	cmd.Flags().StringVar(&load, "load", "3", "Cognitive load 1 (trivial) to 5 (brutal), or n/5")
	cmd.Flags().StringVarP(&contextType, "context", "c", "", "Context label, e.g. writing, admin, email")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&must, "must", false, "Non-negotiable today")
	cmd.Flags().BoolVar(&important, "important", false, "High impact")

	return cmd
}

func newTaskListCmd(a *App) *cobra.Command {
	var all bool
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var tasks []*domain.Task
			var err error
			if date != "" {
				tasks, err = a.Tasks.ListForDate(ctx, date)
			} else {
				tasks, err = a.Tasks.List(ctx, all)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, time.Now()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	cmd.Flags().StringVar(&date, "date", "", "Only tasks due on this date (YYYY-MM-DD)")

	return cmd
}

func newTaskDoneCmd(a *App) *cobra.Command {
	var energy, focus, actual int

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed, with a quick state check-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, a, args[0])
			if err != nil {
				return err
			}

			err = a.Tasks.Complete(ctx, id, service.CompleteInput{
				Energy:    energy,
				Focus:     focus,
				ActualMin: actual,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("✔ Done."))
			return nil
		},
	}

	cmd.Flags().IntVarP(&energy, "energy", "e", 3, "Energy while working (1-5)")
	cmd.Flags().IntVarP(&focus, "focus", "f", 3, "Focus while working (1-5)")
	cmd.Flags().IntVar(&actual, "actual", 0, "Actual minutes spent")

	return cmd
}

func newTaskPostponeCmd(a *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "postpone <id>",
		Short: "Push a task to tomorrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, a, args[0])
			if err != nil {
				return err
			}

			proposal, err := a.Tasks.Postpone(ctx, id, reason)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Moved to tomorrow.")
			if proposal != nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.StyleYellow.Render("This one keeps slipping:"))
				fmt.Fprint(out, formatter.FormatProposal(proposal, time.Now()))
				fmt.Fprintln(out, formatter.Dim("Review it with 'dayflow proposals'"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why it's moving (feeds the learning model)")

	return cmd
}

func newTaskRmCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
}

// resolveTaskID accepts a full task id or a unique prefix of one.
func resolveTaskID(ctx context.Context, a *App, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty task id")
	}
	tasks, err := a.Tasks.List(ctx, true)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task matches %q", ref)
	default:
		return "", fmt.Errorf("%q is ambiguous: %d tasks match", ref, len(matches))
	}
}
