package service

import (
	"context"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
)

// DefaultUserID identifies the single local user's behavior profile.
const DefaultUserID = "default"

// CompleteInput carries the state reported alongside a completion.
type CompleteInput struct {
	Energy    int
	Focus     int
	ActualMin int
}

type TaskService interface {
	// Add stores the task and, when it overloads the day, returns a
	// rebalancing proposal alongside it.
	Add(ctx context.Context, t *domain.Task) (*domain.Proposal, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, includeCompleted bool) ([]*domain.Task, error)
	// ListForDate resolves a YYYY-MM-DD string; malformed input yields an
	// empty list, not an error.
	ListForDate(ctx context.Context, date string) ([]*domain.Task, error)
	// Complete stamps the task done and feeds the completion into the
	// behavior profile.
	Complete(ctx context.Context, id string, in CompleteInput) error
	// Postpone bumps the postpone count, moves the task to tomorrow, and
	// once the count escalates returns a morning-reservation proposal.
	Postpone(ctx context.Context, id, reason string) (*domain.Proposal, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type PlannerService interface {
	Plan(ctx context.Context, req app.PlanRequest) (*app.PlanResponse, error)
	// SliderChange reports a mid-day energy/focus shift and may return a
	// re-planning proposal.
	SliderChange(ctx context.Context, oldState, newState float64) (*domain.Proposal, error)
}

type ProposalService interface {
	ListPending(ctx context.Context) ([]*domain.Proposal, error)
	Accept(ctx context.Context, id string) (*domain.Proposal, error)
	Reject(ctx context.Context, id string) error
}

type ProfileService interface {
	Get(ctx context.Context) (*domain.BehaviorProfile, error)
}
