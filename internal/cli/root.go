package cli

import (
	"github.com/spf13/cobra"

	"github.com/pkoziel/dayflow/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks     service.TaskService
	Planner   service.PlannerService
	Proposals service.ProposalService
	Profile   service.ProfileService

	// IsInteractive reports whether stdin is a terminal; forms and the
	// queue view only launch when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "dayflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "dayflow",
		Short: "Daily task planner that adapts to your energy",
	}

	root.AddCommand(
		newPlanCmd(app),
		newQueueCmd(app),
		newTaskCmd(app),
		newProposalsCmd(app),
		newShiftCmd(app),
		newProfileCmd(app),
	)

	return root
}
