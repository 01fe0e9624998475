package service

import (
	"context"
	"time"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/recommend"
	"github.com/pkoziel/dayflow/internal/repository"
	"github.com/pkoziel/dayflow/internal/scoring"
)

// DefaultLightLimitMin caps how many minutes of light work (cognitive
// load 2 or less) a day should absorb before it crowds out hard work.
const DefaultLightLimitMin = 120

type plannerService struct {
	tasks     repository.TaskRepo
	profiles  repository.ProfileRepo
	proposals repository.ProposalRepo

	scorer        *scoring.Scorer
	engine        *recommend.Engine
	lightLimitMin int
	now           func() time.Time
	observer      UseCaseObserver
}

// NewPlannerService wires the planning cycle over the given repositories.
func NewPlannerService(
	tasks repository.TaskRepo,
	profiles repository.ProfileRepo,
	proposals repository.ProposalRepo,
	observers ...UseCaseObserver,
) PlannerService {
	return &plannerService{
		tasks:         tasks,
		profiles:      profiles,
		proposals:     proposals,
		scorer:        scoring.NewScorer(scoring.DefaultConfig()),
		engine:        recommend.NewEngine(),
		lightLimitMin: DefaultLightLimitMin,
		now:           func() time.Time { return time.Now().UTC() },
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *plannerService) Plan(ctx context.Context, req app.PlanRequest) (_ *app.PlanResponse, err error) {
	if req.AvailableMin < 0 {
		return nil, &app.PlanError{
			Code:    app.ErrInvalidAvailableMin,
			Message: "available minutes must not be negative",
		}
	}

	now := s.now()
	if req.Now != nil {
		now = *req.Now
	}
	defer observe(s.observer, ctx, "plan", now, &err, map[string]any{"mode": string(req.Mode)})()

	dayCtx := domain.NewDayContext(req.Energy, req.Focus, req.Mode, now)
	dayCtx.ContextFilter = req.ContextFilter
	dayCtx.AvailableMin = req.AvailableMin

	stored, err := s.tasks.List(ctx, false)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(stored))
	for _, t := range stored {
		tasks = append(tasks, *t)
	}

	profile := s.loadProfile(ctx)

	var ranked []app.RankedTask
	if req.Adaptive {
		recent, err := s.tasks.ListRecentCompleted(ctx, switchHistoryWindow)
		if err != nil {
			return nil, err
		}
		history := make([]domain.Task, 0, len(recent))
		for _, r := range recent {
			history = append(history, *r)
		}
		ranked, err = s.scorer.RankAdaptive(tasks, dayCtx, scoring.AdaptiveContext{
			Profile: profile,
			Now:     now,
			Recent:  history,
		})
		if err != nil {
			return nil, err
		}
	} else {
		ranked, err = s.scorer.Rank(tasks, dayCtx)
		if err != nil {
			return nil, err
		}
	}

	completedToday, err := s.tasks.ListCompletedOn(ctx, domain.DateOf(now))
	if err != nil {
		return nil, err
	}
	completed := make([]domain.Task, 0, len(completedToday))
	lightMinutes := 0
	for _, t := range completedToday {
		completed = append(completed, *t)
		if t.CognitiveLoad <= 2 {
			spent := t.ActualMin
			if spent == 0 {
				spent = t.EstimateMin
			}
			lightMinutes += spent
		}
	}

	rankedTasks := make([]domain.Task, 0, len(ranked))
	for _, r := range ranked {
		rankedTasks = append(rankedTasks, r.Task)
	}
	recs := s.engine.Generate(recommend.Input{
		Ranked:         rankedTasks,
		CompletedToday: completed,
		Ctx:            dayCtx,
		Profile:        profile,
		Now:            now,
	})

	return &app.PlanResponse{
		GeneratedAt:     now,
		Mode:            dayCtx.Mode,
		Ranked:          ranked,
		Recommendations: recs,
		LightMinutes:    lightMinutes,
		LightLimitMin:   s.lightLimitMin,
	}, nil
}

func (s *plannerService) SliderChange(ctx context.Context, oldState, newState float64) (*domain.Proposal, error) {
	now := s.now()

	stored, err := s.tasks.List(ctx, false)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(stored))
	for _, t := range stored {
		tasks = append(tasks, *t)
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	profile := s.loadProfile(ctx)

	// Re-rank against the new state so the shift flow sees planner order.
	state := int(newState + 0.5)
	dayCtx := domain.NewDayContext(state, state, domain.ModeStandard, now)
	ranked, err := s.scorer.Rank(tasks, dayCtx)
	if err != nil {
		return nil, err
	}
	ordered := make([]domain.Task, 0, len(ranked))
	for _, r := range ranked {
		ordered = append(ordered, r.Task)
	}

	proposal := recommend.OnSliderChange(oldState, newState, ordered, profile, now)
	if proposal == nil {
		return nil, nil
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *plannerService) loadProfile(ctx context.Context) *domain.BehaviorProfile {
	profile, err := s.profiles.Get(ctx, DefaultUserID)
	if err != nil {
		return domain.DefaultProfile(DefaultUserID)
	}
	return profile
}
