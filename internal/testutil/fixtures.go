package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkoziel/dayflow/internal/domain"
)

// Task options
type TaskOption func(*domain.Task)

func WithPriority(p int) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithMust() TaskOption {
	return func(t *domain.Task) {
		t.IsMust = true
	}
}

func WithImportant() TaskOption {
	return func(t *domain.Task) {
		t.IsImportant = true
	}
}

func WithEstimate(min int) TaskOption {
	return func(t *domain.Task) {
		t.EstimateMin = min
	}
}

func WithLoad(load int) TaskOption {
	return func(t *domain.Task) {
		t.CognitiveLoad = load
	}
}

func WithContext(contextType string) TaskOption {
	return func(t *domain.Task) {
		t.ContextType = contextType
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithPostpones(n int) TaskOption {
	return func(t *domain.Task) {
		t.PostponeCount = n
	}
}

func WithCompleted(at time.Time, actualMin int) TaskOption {
	return func(t *domain.Task) {
		t.Completed = true
		t.CompletedAt = &at
		t.ActualMin = actualMin
	}
}

func WithSubtasks(titles ...string) TaskOption {
	return func(t *domain.Task) {
		t.Subtasks = titles
	}
}

func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:            uuid.New().String(),
		Title:         title,
		Priority:      3,
		EstimateMin:   30,
		CognitiveLoad: 3,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Profile options
type ProfileOption func(*domain.BehaviorProfile)

func WithPeakHours(start, end int) ProfileOption {
	return func(p *domain.BehaviorProfile) {
		p.PeakStartHour = start
		p.PeakEndHour = end
	}
}

func WithPreferredDuration(min int) ProfileOption {
	return func(p *domain.BehaviorProfile) {
		p.PreferredDurationMin = min
	}
}

func WithSwitchSensitivity(s float64) ProfileOption {
	return func(p *domain.BehaviorProfile) {
		p.SwitchSensitivity = s
	}
}

func WithEnergyPattern(hour int, energy, focus float64, samples int) ProfileOption {
	return func(p *domain.BehaviorProfile) {
		p.EnergyPatterns = append(p.EnergyPatterns, domain.EnergyPattern{
			Hour: hour, AvgEnergy: energy, AvgFocus: focus, Samples: samples,
		})
	}
}

func WithStreak(date string, completed, postponed int) ProfileOption {
	return func(p *domain.BehaviorProfile) {
		p.Streaks = append(p.Streaks, domain.CompletionStreak{
			Date: date, Completed: completed, Postponed: postponed,
		})
	}
}

func NewTestProfile(userID string, opts ...ProfileOption) *domain.BehaviorProfile {
	p := domain.DefaultProfile(userID)
	p.UpdatedAt = time.Now().UTC()
	for _, opt := range opts {
		opt(p)
	}
	return p
}
