package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
)

var fmtNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		min  int
		want string
	}{
		{0, "0m"},
		{-5, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h 30m"},
		{480, "8h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMinutes(tt.min))
	}
}

func TestRelativeDateFrom(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"today", fmtNow.Add(2 * time.Hour), "Today"},
		{"tomorrow", fmtNow.AddDate(0, 0, 1), "Tomorrow"},
		{"yesterday", fmtNow.AddDate(0, 0, -1), "Yesterday"},
		{"next week", fmtNow.AddDate(0, 0, 6), "In 6d"},
		{"next month", fmtNow.AddDate(0, 0, 21), "In 3w"},
		{"way out", fmtNow.AddDate(0, 3, 0), "In 3mo"},
		{"last week", fmtNow.AddDate(0, 0, -5), "5d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.t, fmtNow))
		})
	}
}

func TestLoadDots(t *testing.T) {
	assert.Contains(t, LoadDots(3), "●●●")
	assert.Contains(t, LoadDots(3), "○○")
	assert.NotContains(t, LoadDots(5), "○")
	assert.NotContains(t, LoadDots(0), "●")
}

func planFixture() *app.PlanResponse {
	due := fmtNow.AddDate(0, 0, 1)
	return &app.PlanResponse{
		GeneratedAt: fmtNow,
		Mode:        domain.ModeStandard,
		Ranked: []app.RankedTask{
			{
				Task: domain.Task{
					ID: "task-1", Title: "write report", Priority: 1,
					EstimateMin: 60, CognitiveLoad: 4, IsMust: true,
					DueDate: &due, ContextType: "writing",
				},
				Score: app.ScoreResult{
					TaskID: "task-1",
					Total:  112.5,
					Reasons: []app.ScoreReason{
						{Code: app.ReasonDeadline, Message: "due tomorrow", WeightDelta: 15},
					},
				},
			},
			{
				Task: domain.Task{
					ID: "task-2", Title: "sort inbox", Priority: 4,
					EstimateMin: 15, CognitiveLoad: 1,
				},
				Score: app.ScoreResult{TaskID: "task-2", Total: 18.2},
			},
		},
		Recommendations: []domain.SmartRecommendation{
			{
				Type:       domain.RecBatch,
				Title:      "Batch 3 email tasks",
				Reasoning:  []string{"3 tasks share the email context"},
				Confidence: 0.85,
				Impact:     domain.ImpactHigh,
				Expected:   domain.ExpectedOutcome{TimeSavedMin: 15},
			},
		},
		LightMinutes:  90,
		LightLimitMin: 120,
	}
}

func TestFormatPlan(t *testing.T) {
	out := FormatPlan(planFixture())

	assert.Contains(t, out, "MODE: STANDARD")
	assert.Contains(t, out, "TODAY'S QUEUE (2 TASKS)")
	assert.Contains(t, out, "write report")
	assert.Contains(t, out, "sort inbox")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "due tomorrow")
	assert.Contains(t, out, "[writing]")
	assert.Contains(t, out, "Batch 3 email tasks")
	assert.Contains(t, out, "saves ~15m")
	assert.Contains(t, out, "Light work today: 1h 30m of 2h")
}

func TestFormatPlan_LightBudgetBlown(t *testing.T) {
	resp := planFixture()
	resp.LightMinutes = 150

	out := FormatPlan(resp)
	assert.Contains(t, out, "crowding out")
}

func TestFormatTaskList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, FormatTaskList(nil, fmtNow), "No tasks")
	})

	t.Run("annotations", func(t *testing.T) {
		due := fmtNow.AddDate(0, 0, 3)
		tasks := []*domain.Task{
			{
				ID: "abcdefgh12345", Title: "big one", Priority: 2,
				EstimateMin: 90, CognitiveLoad: 5, ContextType: "deep",
				DueDate: &due, PostponeCount: 2,
			},
			{
				ID: "zyxwvuts98765", Title: "finished", Priority: 3,
				EstimateMin: 20, CognitiveLoad: 2, Completed: true,
			},
		}

		out := FormatTaskList(tasks, fmtNow)
		assert.Contains(t, out, "abcdefgh")
		assert.NotContains(t, out, "12345")
		assert.Contains(t, out, "P2")
		assert.Contains(t, out, "big one")
		assert.Contains(t, out, "(1h 30m)")
		assert.Contains(t, out, "[deep]")
		assert.Contains(t, out, "↻2")
		assert.Contains(t, out, "✔")
	})
}

func TestFormatProposal(t *testing.T) {
	tomorrow := fmtNow.AddDate(0, 0, 1)
	p := &domain.Proposal{
		ID:     "proposal-123",
		Type:   domain.RecReserveMorning,
		Reason: "\"tax paperwork\" has been postponed 3 times",
		Primary: domain.ProposalAction{
			Type:   domain.ActionReserveMorning,
			TaskID: "task-abcdefgh",
			ToDate: &tomorrow,
			Params: map[string]string{"time": "08:00"},
		},
		Alternatives: []domain.ProposalAction{
			{
				Type:   domain.ActionDecomposeTask,
				TaskID: "task-abcdefgh",
				Params: map[string]string{"target_duration": "25"},
			},
		},
		Status:    domain.ProposalPending,
		CreatedAt: fmtNow,
		ExpiresAt: fmtNow.Add(domain.DefaultProposalTTL),
	}

	out := FormatProposal(p, fmtNow)
	require.Contains(t, out, "postponed 3 times")
	assert.Contains(t, out, "reserve 08:00 tomorrow")
	assert.Contains(t, out, "~25m chunks")
	assert.Contains(t, out, "expires in 24h")
}

func TestFormatProposal_Expired(t *testing.T) {
	p := &domain.Proposal{
		ID:        "old",
		Reason:    "stale",
		Primary:   domain.ProposalAction{Type: domain.ActionTakeBreak},
		ExpiresAt: fmtNow.Add(-time.Hour),
	}

	out := FormatProposal(p, fmtNow)
	assert.Contains(t, out, "expired")
	assert.Contains(t, out, "take a break")
}

func TestFormatProfile(t *testing.T) {
	p := domain.DefaultProfile("default")
	p.EnergyPatterns = []domain.EnergyPattern{{Hour: 9, AvgEnergy: 4, AvgFocus: 4, Samples: 3}}
	p.Streaks = []domain.CompletionStreak{{Date: "2026-03-09", Completed: 4, Postponed: 1}}

	out := FormatProfile(p)
	assert.Contains(t, out, "09:00–12:00")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "1 hours sampled")
	assert.Contains(t, out, "4 tasks over the last 1 active days")
}
