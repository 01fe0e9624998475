package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, includeCompleted bool) ([]*domain.Task, error)
	ListDueOn(ctx context.Context, day time.Time) ([]*domain.Task, error)
	ListCompletedOn(ctx context.Context, day time.Time) ([]*domain.Task, error)
	ListRecentCompleted(ctx context.Context, limit int) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type ProfileRepo interface {
	Get(ctx context.Context, userID string) (*domain.BehaviorProfile, error)
	Upsert(ctx context.Context, p *domain.BehaviorProfile) error
}

type ProposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListPending(ctx context.Context, now time.Time) ([]*domain.Proposal, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProposalStatus) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
