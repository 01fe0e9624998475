package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
)

// AdaptiveContext bundles the personalization inputs: the behavior profile
// snapshot, the wall clock, and the recently completed tasks (oldest
// first). Scoring reads the snapshot only; it never reaches into shared
// state.
type AdaptiveContext struct {
	Profile *domain.BehaviorProfile
	Now     time.Time
	Recent  []domain.Task
}

// AdaptiveScore recomputes a task's score with personalization and reports
// a confidence alongside it so callers can discount thin history. The
// placed slice keeps the context-grouping term order-dependent here too.
func (s *Scorer) AdaptiveScore(task domain.Task, ctx domain.DayContext, actx AdaptiveContext, placed []domain.Task) app.ScoreResult {
	result := app.ScoreResult{TaskID: task.ID}
	profile := actx.Profile
	if profile == nil {
		profile = domain.DefaultProfile("")
	}

	var total float64
	add := func(delta float64, reason *app.ScoreReason) {
		total += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}

	add(s.adaptiveBase(task, ctx, &result))
	add(switchCost(task, actx.Recent, profile.SwitchSensitivity))
	add(timeOfDayFit(task, ctx, profile, actx.Now.Hour()))
	add(completionOdds(task, profile))
	add(momentum(task, actx.Recent))
	add(eventProximity(task, ctx.Events, actx.Now))
	add(s.scoreContextFlow(task, ctx, placed))

	result.Total = math.Max(0, total) + tieBreak(task)
	result.Confidence = Confidence(profile, len(actx.Recent))
	return result
}

// adaptiveBase is the enhanced urgency core: superlinear priority weight,
// steeper deadline steps, and the impact bonuses.
func (s *Scorer) adaptiveBase(task domain.Task, ctx domain.DayContext, result *app.ScoreResult) (float64, *app.ScoreReason) {
	rank := float64(domain.MaxPriority + 1 - domain.ClampPriority(task.Priority))
	priority := math.Pow(rank, 1.5) * 8
	result.Reasons = append(result.Reasons, app.ScoreReason{
		Code:        app.ReasonPriority,
		Message:     fmt.Sprintf("Priority P%d", domain.ClampPriority(task.Priority)),
		WeightDelta: priority,
	})

	var deadline float64
	msg := "No deadline"
	switch {
	case task.DueDate == nil:
	case task.Overdue(ctx.Today):
		deadline = 50
		msg = "Overdue"
	case task.DueOn(ctx.Today):
		deadline = 35
		msg = "Due today"
	case task.DueOn(domain.Tomorrow(ctx.Today)):
		deadline = 20
		msg = "Due tomorrow"
	case daysUntil(task, ctx) <= 3:
		deadline = 10
		msg = "Due within 3 days"
	}
	result.Reasons = append(result.Reasons, app.ScoreReason{
		Code:        app.ReasonDeadline,
		Message:     msg,
		WeightDelta: deadline,
	})

	total := priority + deadline
	if task.IsMust {
		total += 30
		result.Reasons = append(result.Reasons, app.ScoreReason{
			Code: app.ReasonImpact, Message: "MUST task", WeightDelta: 30,
		})
	} else if task.IsImportant {
		total += 15
		result.Reasons = append(result.Reasons, app.ScoreReason{
			Code: app.ReasonImpact, Message: "Marked important", WeightDelta: 15,
		})
	}
	return total, nil
}

// switchCost charges for jumping contexts or making a large cognitive-load
// jump relative to the last completed task, scaled by the learned
// sensitivity.
func switchCost(task domain.Task, recent []domain.Task, sensitivity float64) (float64, *app.ScoreReason) {
	if len(recent) == 0 {
		return 0, nil
	}
	last := recent[len(recent)-1]

	if last.ContextType != "" && task.ContextType != "" && last.ContextType != task.ContextType {
		delta := -15 * sensitivity
		return delta, &app.ScoreReason{
			Code:        app.ReasonSwitchCost,
			Message:     fmt.Sprintf("Context switch from %q to %q", last.ContextType, task.ContextType),
			WeightDelta: delta,
		}
	}

	if loadDelta := task.CognitiveLoad - last.CognitiveLoad; loadDelta >= 3 || loadDelta <= -3 {
		delta := -10 * sensitivity
		return delta, &app.ScoreReason{
			Code:        app.ReasonSwitchCost,
			Message:     "Large cognitive-load jump",
			WeightDelta: delta,
		}
	}
	return 0, nil
}

func timeOfDayFit(task domain.Task, ctx domain.DayContext, profile *domain.BehaviorProfile, hour int) (float64, *app.ScoreReason) {
	var bonus float64
	msg := ""

	if profile.InPeakHours(hour) {
		if task.CognitiveLoad >= 4 {
			bonus += 15
			msg = "Hard task in peak hours"
		} else if task.CognitiveLoad <= 2 {
			// Don't waste peak hours on trivial work.
			bonus -= 5
			msg = "Trivial task during peak hours"
		}
	}

	if pattern, ok := profile.PatternForHour(hour); ok {
		avgState := (pattern.AvgEnergy + pattern.AvgFocus) / 2
		bonus += (5 - math.Abs(avgState-float64(task.CognitiveLoad))) * 2
	}

	fitDiff := math.Abs(ctx.State() - float64(task.CognitiveLoad))
	switch {
	case fitDiff <= 1:
		bonus += 10
		msg = domain.CoalesceStr(msg, "Matches current energy and focus")
	case fitDiff >= 3:
		bonus -= 8
		msg = domain.CoalesceStr(msg, "Poor fit for current state")
	}

	if bonus == 0 {
		return 0, nil
	}
	return bonus, &app.ScoreReason{
		Code:        app.ReasonTimeOfDay,
		Message:     domain.CoalesceStr(msg, "Time-of-day pattern"),
		WeightDelta: bonus,
	}
}

// completionOdds adjusts for how likely the user is to actually finish the
// task, from the learned postpone patterns, preferred duration and streaks.
// A task already postponed 3+ times in a well-behaved bucket gets a
// countervailing "do it now" bonus rather than sinking further.
func completionOdds(task domain.Task, profile *domain.BehaviorProfile) (float64, *app.ScoreReason) {
	var adjustment float64
	msg := ""

	if task.PostponeCount >= PostponeEscalationThreshold {
		pattern, ok := profile.PostponePatterns[domain.LoadBucket(task.CognitiveLoad)]
		if ok && pattern.AvgPostpone > 2 {
			adjustment -= 20
			msg = fmt.Sprintf("Tasks at this load are habitually postponed (%dx)", task.PostponeCount)
		} else {
			adjustment += 10
			msg = "Time to finally do it"
		}
	}

	durationDiff := task.EstimateMin - profile.PreferredDurationMin
	if durationDiff < 0 {
		durationDiff = -durationDiff
	}
	if durationDiff <= 10 {
		adjustment += 8
		msg = domain.CoalesceStr(msg, "Duration matches preference")
	} else if task.EstimateMin > profile.PreferredDurationMin*2 {
		adjustment -= 10
	}

	if recent := profile.RecentStreaks(3); len(recent) > 0 {
		var rate float64
		counted := 0
		for _, s := range recent {
			if total := s.Completed + s.Postponed; total > 0 {
				rate += float64(s.Completed) / float64(total)
				counted++
			}
		}
		if counted > 0 && rate/float64(counted) > 0.7 {
			adjustment += 5
			msg = domain.CoalesceStr(msg, "Good completion streak")
		}
	}

	if adjustment == 0 {
		return 0, nil
	}
	return adjustment, &app.ScoreReason{
		Code:        app.ReasonCompletionOdds,
		Message:     domain.CoalesceStr(msg, "Completion-probability adjustment"),
		WeightDelta: adjustment,
	}
}

// momentum rewards continuing what the last few completions were about.
func momentum(task domain.Task, recent []domain.Task) (float64, *app.ScoreReason) {
	if len(recent) == 0 {
		return 0, nil
	}
	window := recent
	if len(window) > 3 {
		window = window[len(window)-3:]
	}

	sameContext, similarLoad := 0, 0
	for _, t := range window {
		if task.ContextType != "" && t.ContextType == task.ContextType {
			sameContext++
		}
		if diff := t.CognitiveLoad - task.CognitiveLoad; diff >= -1 && diff <= 1 {
			similarLoad++
		}
	}

	var bonus float64
	msg := ""
	if sameContext >= 2 {
		bonus += 12
		msg = fmt.Sprintf("Momentum in %q context", task.ContextType)
	}
	if similarLoad >= 2 {
		bonus += 8
		msg = domain.CoalesceStr(msg, "Continuing similar-load tasks")
	}
	if bonus == 0 {
		return 0, nil
	}
	return bonus, &app.ScoreReason{Code: app.ReasonMomentum, Message: msg, WeightDelta: bonus}
}

// eventProximity penalizes starting a task that an upcoming fixed event
// would interrupt, or that cannot fit in the buffer before it.
func eventProximity(task domain.Task, events []domain.FixedEvent, now time.Time) (float64, *app.ScoreReason) {
	taskEnd := now.Add(time.Duration(task.EstimateMin) * time.Minute)
	for _, ev := range events {
		minutesUntil := ev.Start.Sub(now).Minutes()
		if ev.Start.After(now) && ev.Start.Before(taskEnd) {
			return -25, &app.ScoreReason{
				Code:        app.ReasonEventProximity,
				Message:     fmt.Sprintf("Meeting in %.0f min would interrupt this task", minutesUntil),
				WeightDelta: -25,
			}
		}
		if minutesUntil > 0 && minutesUntil < float64(task.EstimateMin) {
			return -15, &app.ScoreReason{
				Code:        app.ReasonEventProximity,
				Message:     fmt.Sprintf("Only %.0f min before the next meeting", minutesUntil),
				WeightDelta: -15,
			}
		}
	}
	return 0, nil
}

// Confidence grows with the amount of history backing the personalization,
// capped at 1. Computed separately from the score so callers can discount
// low-confidence results.
func Confidence(profile *domain.BehaviorProfile, recentTaskCount int) float64 {
	confidence := 0.5

	switch {
	case len(profile.EnergyPatterns) >= 12:
		confidence += 0.2
	case len(profile.EnergyPatterns) >= 6:
		confidence += 0.1
	}

	switch {
	case len(profile.Streaks) >= 7:
		confidence += 0.15
	case len(profile.Streaks) >= 3:
		confidence += 0.1
	}

	switch {
	case recentTaskCount >= 5:
		confidence += 0.15
	case recentTaskCount >= 2:
		confidence += 0.1
	}

	return math.Min(1, confidence)
}

// RankAdaptive is Rank with the personalization overlay applied per task.
func (s *Scorer) RankAdaptive(tasks []domain.Task, ctx domain.DayContext, actx AdaptiveContext) ([]app.RankedTask, error) {
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
			scored = append(scored, app.RankedTask{Task: task, Score: s.AdaptiveScore(task, ctx, actx, placed)})
			placed = append(placed, task)
		}
		sortBucket(scored)
		ranked = append(ranked, scored...)
	}
	return ranked, nil
}
