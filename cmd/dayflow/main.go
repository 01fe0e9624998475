package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/pkoziel/dayflow/internal/cli"
	"github.com/pkoziel/dayflow/internal/db"
	"github.com/pkoziel/dayflow/internal/repository"
	"github.com/pkoziel/dayflow/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dbPath, err := resolveDBPath()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	taskRepo := repository.NewSQLiteTaskRepo(database)
	profileRepo := repository.NewSQLiteProfileRepo(database)
	proposalRepo := repository.NewSQLiteProposalRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if os.Getenv("DAYFLOW_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Tasks:     service.NewTaskService(taskRepo, profileRepo, proposalRepo, uow, 0, observers...),
		Planner:   service.NewPlannerService(taskRepo, profileRepo, proposalRepo, observers...),
		Proposals: service.NewProposalService(proposalRepo),
		Profile:   service.NewProfileService(profileRepo),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// resolveDBPath prefers DAYFLOW_DB, falling back to ~/.dayflow/dayflow.db.
func resolveDBPath() (string, error) {
	if fromEnv := os.Getenv("DAYFLOW_DB"); fromEnv != "" {
		return fromEnv, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".dayflow", "dayflow.db"), nil
}
