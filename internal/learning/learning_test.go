package learning

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/domain"
)

var learnNow = time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

func completion(actualMin int, at time.Time) CompletionEvent {
	return CompletionEvent{
		Task:        domain.Task{ID: "t1", CognitiveLoad: 3, ContextType: "admin"},
		Energy:      4,
		Focus:       3,
		ActualMin:   actualMin,
		CompletedAt: at,
	}
}

func TestApplyCompletionBlendsPreferredDuration(t *testing.T) {
	p := domain.DefaultProfile("u")

	ApplyCompletion(p, completion(90, learnNow))
	// 30*0.85 + 90*0.15 = 39
	assert.Equal(t, 39, p.PreferredDurationMin)

	t.Run("clamped at the floor", func(t *testing.T) {
		p := domain.DefaultProfile("u")
		p.PreferredDurationMin = 11
		ApplyCompletion(p, completion(1, learnNow))
		assert.Equal(t, 10, p.PreferredDurationMin)
	})

	t.Run("zero actual leaves it alone", func(t *testing.T) {
		p := domain.DefaultProfile("u")
		ApplyCompletion(p, completion(0, learnNow))
		assert.Equal(t, 30, p.PreferredDurationMin)
	})
}

func TestApplyCompletionEnergyPatterns(t *testing.T) {
	p := domain.DefaultProfile("u")

	ApplyCompletion(p, completion(30, learnNow))
	require.Len(t, p.EnergyPatterns, 1)
	ep := p.EnergyPatterns[0]
	assert.Equal(t, 10, ep.Hour)
	assert.Equal(t, 4.0, ep.AvgEnergy)
	assert.Equal(t, 1, ep.Samples)

	// A second sample at the same hour averages in.
	ev := completion(30, learnNow)
	ev.Energy, ev.Focus = 2, 5
	ApplyCompletion(p, ev)
	require.Len(t, p.EnergyPatterns, 1)
	ep = p.EnergyPatterns[0]
	assert.Equal(t, 3.0, ep.AvgEnergy)
	assert.Equal(t, 4.0, ep.AvgFocus)
	assert.Equal(t, 2, ep.Samples)

	// A different hour opens a new pattern.
	ApplyCompletion(p, completion(30, learnNow.Add(4*time.Hour)))
	assert.Len(t, p.EnergyPatterns, 2)
}

func TestStreakTallyAndWindow(t *testing.T) {
	p := domain.DefaultProfile("u")

	ApplyCompletion(p, completion(30, learnNow))
	ApplyCompletion(p, completion(30, learnNow.Add(time.Hour)))
	ApplyPostponement(p, PostponeEvent{Task: domain.Task{CognitiveLoad: 3}, At: learnNow})

	require.Len(t, p.Streaks, 1)
	assert.Equal(t, "2026-03-10", p.Streaks[0].Date)
	assert.Equal(t, 2, p.Streaks[0].Completed)
	assert.Equal(t, 1, p.Streaks[0].Postponed)

	t.Run("old entries age out", func(t *testing.T) {
		p := domain.DefaultProfile("u")
		p.Streaks = []domain.CompletionStreak{{Date: "2026-01-01", Completed: 3}}
		ApplyCompletion(p, completion(30, learnNow))
		require.Len(t, p.Streaks, 1)
		assert.Equal(t, "2026-03-10", p.Streaks[0].Date)
	})
}

func TestApplyPostponementPatterns(t *testing.T) {
	p := domain.DefaultProfile("u")
	task := domain.Task{ID: "t1", CognitiveLoad: 4, PostponeCount: 2}

	ApplyPostponement(p, PostponeEvent{Task: task, Reason: "too tired", At: learnNow})
	stats := p.PostponePatterns["cognitive_4"]
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 2.0, stats.AvgPostpone)
	assert.Equal(t, []string{"too tired"}, stats.Reasons)

	task.PostponeCount = 4
	ApplyPostponement(p, PostponeEvent{Task: task, Reason: "meeting ran over", At: learnNow})
	stats = p.PostponePatterns["cognitive_4"]
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 3.0, stats.AvgPostpone)

	t.Run("reasons hold the last five", func(t *testing.T) {
		p := domain.DefaultProfile("u")
		for i := 0; i < 8; i++ {
			ApplyPostponement(p, PostponeEvent{
				Task: task, Reason: fmt.Sprintf("reason-%d", i), At: learnNow,
			})
		}
		stats := p.PostponePatterns["cognitive_4"]
		require.Len(t, stats.Reasons, 5)
		assert.Equal(t, "reason-3", stats.Reasons[0])
		assert.Equal(t, "reason-7", stats.Reasons[4])
	})
}

func TestRecomputePeakHours(t *testing.T) {
	p := domain.DefaultProfile("u")

	t.Run("not enough qualified hours keeps the default", func(t *testing.T) {
		for h := 8; h < 12; h++ {
			p.EnergyPatterns = append(p.EnergyPatterns, domain.EnergyPattern{
				Hour: h, AvgEnergy: 4, AvgFocus: 4, Samples: 3,
			})
		}
		recomputePeakHours(p)
		assert.Equal(t, 9, p.PeakStartHour)
		assert.Equal(t, 12, p.PeakEndHour)
	})

	t.Run("window spans the top three hours", func(t *testing.T) {
		p := domain.DefaultProfile("u")
		levels := map[int]float64{8: 2, 9: 3, 10: 4.5, 11: 4.8, 14: 4.6, 16: 2.5}
		for hour, level := range levels {
			p.EnergyPatterns = append(p.EnergyPatterns, domain.EnergyPattern{
				Hour: hour, AvgEnergy: level, AvgFocus: level, Samples: 2,
			})
		}
		recomputePeakHours(p)
		// Best three are 11, 14, 10; the window covers their span.
		assert.Equal(t, 10, p.PeakStartHour)
		assert.Equal(t, 15, p.PeakEndHour)
	})

	t.Run("thin hours do not qualify", func(t *testing.T) {
		p := domain.DefaultProfile("u")
		for h := 6; h < 12; h++ {
			p.EnergyPatterns = append(p.EnergyPatterns, domain.EnergyPattern{
				Hour: h, AvgEnergy: 5, AvgFocus: 5, Samples: 1,
			})
		}
		recomputePeakHours(p)
		assert.Equal(t, 9, p.PeakStartHour)
	})
}

func TestSwitchSensitivity(t *testing.T) {
	tasks := func(contexts ...string) []domain.Task {
		out := make([]domain.Task, len(contexts))
		for i, c := range contexts {
			out[i] = domain.Task{ID: fmt.Sprintf("t%d", i), ContextType: c}
		}
		return out
	}

	t.Run("too little history", func(t *testing.T) {
		_, ok := SwitchSensitivity(tasks("a", "b", "a"))
		assert.False(t, ok)
	})

	t.Run("steady worker reads as sensitive", func(t *testing.T) {
		s, ok := SwitchSensitivity(tasks("a", "a", "a", "a", "a", "a", "a", "a", "a", "a"))
		require.True(t, ok)
		assert.Equal(t, 1.0, s)
	})

	t.Run("habitual switcher reads as insensitive", func(t *testing.T) {
		s, ok := SwitchSensitivity(tasks("a", "b", "a", "b", "a", "b", "a", "b", "a", "b"))
		require.True(t, ok)
		assert.Equal(t, 0.0, s)
	})

	t.Run("mixed history lands between", func(t *testing.T) {
		s, ok := SwitchSensitivity(tasks("a", "a", "b", "b", "a", "a", "b", "b", "a", "b"))
		require.True(t, ok)
		// 4 stays, 5 switches: 0.5 + 4/9 - 5/9
		assert.InDelta(t, 0.5+4.0/9-5.0/9, s, 1e-9)
		assert.Greater(t, s, 0.0)
		assert.Less(t, s, 1.0)
	})
}
