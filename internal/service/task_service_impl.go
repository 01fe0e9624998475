package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkoziel/dayflow/internal/db"
	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/learning"
	"github.com/pkoziel/dayflow/internal/recommend"
	"github.com/pkoziel/dayflow/internal/repository"
)

// switchHistoryWindow bounds how many recent completions feed the
// switch-sensitivity recompute.
const switchHistoryWindow = 20

type taskService struct {
	tasks     repository.TaskRepo
	profiles  repository.ProfileRepo
	proposals repository.ProposalRepo
	uow       db.UnitOfWork

	// dayBudgetMin is the planning capacity one day is assumed to hold.
	dayBudgetMin int
	now          func() time.Time
	observer     UseCaseObserver
}

// NewTaskService wires the task lifecycle over the given repositories.
func NewTaskService(
	tasks repository.TaskRepo,
	profiles repository.ProfileRepo,
	proposals repository.ProposalRepo,
	uow db.UnitOfWork,
	dayBudgetMin int,
	observers ...UseCaseObserver,
) TaskService {
	if dayBudgetMin <= 0 {
		dayBudgetMin = 8 * 60
	}
	return &taskService{
		tasks:        tasks,
		profiles:     profiles,
		proposals:    proposals,
		uow:          uow,
		dayBudgetMin: dayBudgetMin,
		now:          func() time.Time { return time.Now().UTC() },
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Add(ctx context.Context, t *domain.Task) (_ *domain.Proposal, err error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, fmt.Errorf("task title must not be empty")
	}
	now := s.now()
	defer observe(s.observer, ctx, "task-add", now, &err, map[string]any{"task": t.ID})()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.Priority = domain.ClampPriority(t.Priority)
	t.CognitiveLoad = domain.ClampLoad(t.CognitiveLoad)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	// Only tasks landing on today's plate can overload it.
	today := domain.DateOf(now)
	if t.DueDate == nil || !t.DueOn(today) {
		return nil, nil
	}

	dayTasks, err := s.tasks.ListDueOn(ctx, today)
	if err != nil {
		return nil, err
	}
	committed := 0
	var pending []domain.Task
	for _, dt := range dayTasks {
		if dt.Completed {
			continue
		}
		committed += dt.EstimateMin
		pending = append(pending, *dt)
	}
	if committed <= s.dayBudgetMin {
		return nil, nil
	}

	profile := s.loadProfile(ctx)
	proposal := recommend.OnTaskAdded(*t, pending, profile, now)
	if proposal == nil {
		return nil, nil
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, includeCompleted bool) ([]*domain.Task, error) {
	return s.tasks.List(ctx, includeCompleted)
}

func (s *taskService) ListForDate(ctx context.Context, date string) ([]*domain.Task, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		// A malformed date means "no tasks that day", not a failure.
		return nil, nil
	}
	return s.tasks.ListDueOn(ctx, day)
}

func (s *taskService) Complete(ctx context.Context, id string, in CompleteInput) (err error) {
	now := s.now()
	defer observe(s.observer, ctx, "task-complete", now, &err, map[string]any{"task": id})()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		profiles := repository.NewSQLiteProfileRepo(tx)

		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if task.Completed {
			return fmt.Errorf("task %q is already completed", task.Title)
		}

		task.Completed = true
		task.CompletedAt = &now
		task.ActualMin = in.ActualMin
		task.UpdatedAt = now
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		profile := loadProfileTx(ctx, profiles)
		learning.ApplyCompletion(profile, learning.CompletionEvent{
			Task:        *task,
			Energy:      domain.ClampScale(in.Energy),
			Focus:       domain.ClampScale(in.Focus),
			ActualMin:   in.ActualMin,
			CompletedAt: now,
		})

		recent, err := tasks.ListRecentCompleted(ctx, switchHistoryWindow)
		if err != nil {
			return err
		}
		history := make([]domain.Task, 0, len(recent))
		for _, r := range recent {
			history = append(history, *r)
		}
		if sensitivity, ok := learning.SwitchSensitivity(history); ok {
			profile.SwitchSensitivity = sensitivity
		}

		return profiles.Upsert(ctx, profile)
	})
}

func (s *taskService) Postpone(ctx context.Context, id, reason string) (_ *domain.Proposal, err error) {
	now := s.now()
	defer observe(s.observer, ctx, "task-postpone", now, &err, map[string]any{"task": id})()
	var postponed *domain.Task

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tasks := repository.NewSQLiteTaskRepo(tx)
		profiles := repository.NewSQLiteProfileRepo(tx)

		task, err := tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if task.Completed {
			return fmt.Errorf("task %q is already completed", task.Title)
		}

		task.PostponeCount++
		tomorrow := domain.Tomorrow(domain.DateOf(now))
		task.DueDate = &tomorrow
		task.UpdatedAt = now
		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		profile := loadProfileTx(ctx, profiles)
		learning.ApplyPostponement(profile, learning.PostponeEvent{
			Task:   *task,
			Reason: reason,
			At:     now,
		})
		if err := profiles.Upsert(ctx, profile); err != nil {
			return err
		}

		postponed = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	proposal := recommend.OnPostponeEscalation(*postponed, now)
	if proposal == nil {
		return nil, nil
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *taskService) Update(ctx context.Context, t *domain.Task) error {
	t.UpdatedAt = s.now()
	return s.tasks.Update(ctx, t)
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) loadProfile(ctx context.Context) *domain.BehaviorProfile {
	profile, err := s.profiles.Get(ctx, DefaultUserID)
	if err != nil {
		return domain.DefaultProfile(DefaultUserID)
	}
	return profile
}

// loadProfileTx returns the stored profile, or a fresh default when none
// exists yet.
func loadProfileTx(ctx context.Context, profiles repository.ProfileRepo) *domain.BehaviorProfile {
	profile, err := profiles.Get(ctx, DefaultUserID)
	if err != nil {
		return domain.DefaultProfile(DefaultUserID)
	}
	return profile
}
