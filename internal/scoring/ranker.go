package scoring

import (
	"sort"
	"time"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
)

// QuickWinThresholdMin bounds what counts as a quick win.
const QuickWinThresholdMin = 20

// EligibleForMode reports whether a task passes the work-mode filter.
func EligibleForMode(task domain.Task, mode domain.WorkMode) bool {
	switch mode {
	case domain.ModeLowFocus:
		return task.CognitiveLoad <= 2
	case domain.ModeHyperfocus:
		return task.CognitiveLoad >= 4
	case domain.ModeQuickWins:
		return task.EstimateMin < QuickWinThresholdMin
	default:
		return true
	}
}

// FilterByWorkMode keeps the tasks eligible under the given mode.
// Idempotent; standard mode keeps everything.
func FilterByWorkMode(tasks []domain.Task, mode domain.WorkMode) []domain.Task {
	var kept []domain.Task
	for _, t := range tasks {
		if EligibleForMode(t, mode) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Rank turns a flat task list into a total order: completed tasks dropped,
// the work-mode filter applied, then four date buckets scored in fixed
// order (overdue, due today, unscheduled, future). Each task's
// context-grouping term sees every task already scored in this and prior
// buckets, so the pass is a fold, not an independent map.
//
// A mode filter that empties a non-empty task set returns
// ErrNoEligibleTasks, distinct from ErrNoTasks, so callers can prompt to
// relax the mode instead of showing an empty state.
func (s *Scorer) Rank(tasks []domain.Task, ctx domain.DayContext) ([]app.RankedTask, error) {
	pending := pendingTasks(tasks, ctx.ContextFilter)
	if len(pending) == 0 {
		return nil, &app.PlanError{Code: app.ErrNoTasks, Message: "no pending tasks"}
	}

	eligible := FilterByWorkMode(pending, ctx.Mode)
	if len(eligible) == 0 {
		return nil, &app.PlanError{
			Code:    app.ErrNoEligibleTasks,
			Message: "work mode " + string(ctx.Mode) + " filtered out every task",
		}
	}

	var ranked []app.RankedTask
	var placed []domain.Task
	for _, bucket := range partitionByDate(eligible, ctx.Today) {
		scored := make([]app.RankedTask, 0, len(bucket))
		for _, task := range bucket {
			scored = append(scored, app.RankedTask{Task: task, Score: s.Score(task, ctx, placed)})
			placed = append(placed, task)
		}
		sortBucket(scored)
		ranked = append(ranked, scored...)
	}
	return ranked, nil
}

func pendingTasks(tasks []domain.Task, contextFilter string) []domain.Task {
	var pending []domain.Task
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if contextFilter != "" && t.ContextType != contextFilter {
			continue
		}
		pending = append(pending, t)
	}
	return pending
}

// partitionByDate splits tasks into the fixed bucket order:
// overdue, due today, unscheduled, future.
func partitionByDate(tasks []domain.Task, today time.Time) [4][]domain.Task {
	var buckets [4][]domain.Task
	for _, t := range tasks {
		switch {
		case t.Overdue(today):
			buckets[0] = append(buckets[0], t)
		case t.DueOn(today):
			buckets[1] = append(buckets[1], t)
		case t.DueDate == nil:
			buckets[2] = append(buckets[2], t)
		default:
			buckets[3] = append(buckets[3], t)
		}
	}
	return buckets
}

// sortBucket orders a bucket by the canonical rules:
// 1. MUST tasks first
// 2. Score: higher first (the tie-breaker already makes totals unique)
// 3. Task ID: lexical ascending, as a final stable key
func sortBucket(scored []app.RankedTask) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Task.IsMust != b.Task.IsMust {
			return a.Task.IsMust
		}
		if a.Score.Total != b.Score.Total {
			return a.Score.Total > b.Score.Total
		}
		return a.Task.ID < b.Task.ID
	})
}
