package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkoziel/dayflow/internal/domain"
)

const (
	batchMinTasks          = 3
	batchSetupSavedPerTask = 5

	mismatchThreshold = 3
	mismatchScanDepth = 3

	decomposeMinPostpones = 2
	decomposeMaxSession   = 25

	reorderStateThreshold = 4

	deferMinPostpones  = 4
	deferDeadlineGuard = 2 // days

	// BreakThresholdMin is the completed-work budget before a pause is
	// suggested.
	BreakThresholdMin = 120
)

// DetectBatch finds a context group worth doing back to back: at least
// three pending tasks sharing a context whose combined estimate fits the
// available time. Only the first qualifying group is reported; the next
// cycle picks up the rest.
func DetectBatch(in Input) []domain.SmartRecommendation {
	groups := map[string][]domain.Task{}
	for _, t := range in.Ranked {
		if t.ContextType != "" {
			groups[t.ContextType] = append(groups[t.ContextType], t)
		}
	}

	contexts := make([]string, 0, len(groups))
	for c := range groups {
		contexts = append(contexts, c)
	}
	sort.Strings(contexts)

	for _, context := range contexts {
		tasks := groups[context]
		if len(tasks) < batchMinTasks {
			continue
		}
		totalMin := 0
		for _, t := range tasks {
			totalMin += t.EstimateMin
		}
		if in.Ctx.AvailableMin > 0 && totalMin > in.Ctx.AvailableMin {
			continue
		}

		actions := make([]domain.ProposalAction, 0, len(tasks))
		for i, t := range tasks {
			actions = append(actions, domain.ProposalAction{
				Type:   domain.ActionReorderTask,
				TaskID: t.ID,
				Params: map[string]string{"position": fmt.Sprintf("%d", i)},
			})
		}
		return []domain.SmartRecommendation{{
			Type:  domain.RecBatch,
			Title: fmt.Sprintf("Batch %d %q tasks together", len(tasks), context),
			Reasoning: []string{
				fmt.Sprintf("%d tasks share the %q context", len(tasks), context),
				fmt.Sprintf("doing them back to back avoids %d context switches", len(tasks)-1),
			},
			Confidence: 0.85,
			Impact:     domain.ImpactHigh,
			Actions:    actions,
			Expected: domain.ExpectedOutcome{
				TimeSavedMin:          batchSetupSavedPerTask * len(tasks),
				StressReduction:       0.3,
				CompletionProbability: 0.8,
			},
		}}
	}
	return nil
}

// DetectEnergyMismatch flags the task furthest out of line with the
// current state, looking only at the head of the queue. Too hard is worth
// acting on; too easy is worth knowing about.
func DetectEnergyMismatch(in Input) []domain.SmartRecommendation {
	state := in.Ctx.State()

	head := in.Ranked
	if len(head) > mismatchScanDepth {
		head = head[:mismatchScanDepth]
	}

	var worst *domain.Task
	var worstDiff float64
	for i := range head {
		diff := float64(head[i].CognitiveLoad) - state
		if math.Abs(diff) < mismatchThreshold {
			continue
		}
		if worst == nil || math.Abs(diff) > math.Abs(worstDiff) {
			worst = &head[i]
			worstDiff = diff
		}
	}
	if worst == nil {
		return nil
	}

	if worstDiff > 0 {
		tomorrow := domain.Tomorrow(in.Ctx.Today)
		return []domain.SmartRecommendation{{
			Type:  domain.RecEnergyMismatch,
			Title: fmt.Sprintf("%q is too demanding right now", worst.Title),
			Reasoning: []string{
				fmt.Sprintf("cognitive load %d against current state %.1f", worst.CognitiveLoad, state),
				"pushing through mismatched work burns more energy than it completes",
			},
			Confidence: 0.75,
			Impact:     domain.ImpactHigh,
			Actions: []domain.ProposalAction{{
				Type:   domain.ActionMoveTask,
				TaskID: worst.ID,
				ToDate: &tomorrow,
			}},
			Expected: domain.ExpectedOutcome{StressReduction: 0.4, CompletionProbability: 0.7},
		}}
	}

	// Awareness only: no action, so the task stays unclaimed for other
	// recommendations.
	return []domain.SmartRecommendation{{
		Type:  domain.RecEnergyMismatch,
		Title: fmt.Sprintf("%q is lighter than your current state", worst.Title),
		Reasoning: []string{
			fmt.Sprintf("cognitive load %d against current state %.1f", worst.CognitiveLoad, state),
			"consider saving it for a lower-energy stretch",
		},
		Confidence: 0.75,
		Impact:     domain.ImpactMedium,
		Expected:   domain.ExpectedOutcome{StressReduction: 0.1, CompletionProbability: 0.9},
	}}
}

// DetectDecompose proposes splitting the highest-ranked task that keeps
// getting pushed and runs far past the user's preferred working block.
func DetectDecompose(in Input) []domain.SmartRecommendation {
	preferred := in.Profile.PreferredDurationMin
	for _, t := range in.Ranked {
		if len(t.Subtasks) > 0 || t.PostponeCount < decomposeMinPostpones {
			continue
		}
		if t.EstimateMin <= preferred*2 {
			continue
		}
		target := decomposeMaxSession
		if preferred < target {
			target = preferred
		}
		return []domain.SmartRecommendation{{
			Type:  domain.RecDecompose,
			Title: fmt.Sprintf("Break %q into smaller sessions", t.Title),
			Reasoning: []string{
				fmt.Sprintf("%d min is over twice your preferred %d min block", t.EstimateMin, preferred),
				fmt.Sprintf("already postponed %d times", t.PostponeCount),
			},
			Confidence: 0.8,
			Impact:     domain.ImpactHigh,
			Actions: []domain.ProposalAction{{
				Type:   domain.ActionDecomposeTask,
				TaskID: t.ID,
				Params: map[string]string{"target_duration": fmt.Sprintf("%d", target)},
			}},
			Expected: domain.ExpectedOutcome{StressReduction: 0.5, CompletionProbability: 0.75},
		}}
	}
	return nil
}

// DetectReorder notices a high-energy state being spent on a trivial first
// task while harder work waits.
func DetectReorder(in Input) []domain.SmartRecommendation {
	if in.Ctx.State() < reorderStateThreshold || len(in.Ranked) == 0 {
		return nil
	}
	first := in.Ranked[0]
	if first.CognitiveLoad > 2 {
		return nil
	}

	for _, t := range in.Ranked[1:] {
		if t.CognitiveLoad < 4 {
			continue
		}
		return []domain.SmartRecommendation{{
			Type:  domain.RecReorder,
			Title: fmt.Sprintf("Start with %q while your energy is high", t.Title),
			Reasoning: []string{
				fmt.Sprintf("current state %.1f suits heavy work", in.Ctx.State()),
				fmt.Sprintf("%q can wait for a dip", first.Title),
			},
			Confidence: 0.7,
			Impact:     domain.ImpactMedium,
			Actions: []domain.ProposalAction{{
				Type:   domain.ActionReorderTask,
				TaskID: t.ID,
				Params: map[string]string{"before": first.ID},
			}},
			Expected: domain.ExpectedOutcome{CompletionProbability: 0.8},
		}}
	}
	return nil
}

// DetectDefer proposes consciously pushing chronically postponed, bulky,
// non-urgent tasks out of today instead of letting them clog the queue.
func DetectDefer(in Input) []domain.SmartRecommendation {
	for _, t := range in.Ranked {
		if t.IsMust || t.PostponeCount < deferMinPostpones {
			continue
		}
		if in.Ctx.AvailableMin > 0 && t.EstimateMin*2 <= in.Ctx.AvailableMin {
			continue
		}
		if t.DueDate != nil {
			daysOut := int(domain.DateOf(*t.DueDate).Sub(in.Ctx.Today).Hours() / 24)
			if daysOut <= deferDeadlineGuard {
				continue
			}
		}
		tomorrow := domain.Tomorrow(in.Ctx.Today)
		return []domain.SmartRecommendation{{
			Type:  domain.RecDefer,
			Title: fmt.Sprintf("Deliberately defer %q", t.Title),
			Reasoning: []string{
				fmt.Sprintf("postponed %d times and needs %d of your %d available minutes",
					t.PostponeCount, t.EstimateMin, in.Ctx.AvailableMin),
				"an explicit defer beats another silent postponement",
			},
			Confidence: 0.65,
			Impact:     domain.ImpactMedium,
			Actions: []domain.ProposalAction{{
				Type:   domain.ActionMoveTask,
				TaskID: t.ID,
				ToDate: &tomorrow,
			}},
			Expected: domain.ExpectedOutcome{StressReduction: 0.3, CompletionProbability: 0.6},
		}}
	}
	return nil
}

// DetectBreak suggests a pause after a long stretch of completed work.
func DetectBreak(in Input) []domain.SmartRecommendation {
	worked := 0
	for _, t := range in.CompletedToday {
		if t.ActualMin > 0 {
			worked += t.ActualMin
		} else {
			worked += t.EstimateMin
		}
	}
	if worked < BreakThresholdMin {
		return nil
	}
	return []domain.SmartRecommendation{{
		Type:  domain.RecSuggestBreak,
		Title: "Take a break",
		Reasoning: []string{
			fmt.Sprintf("%d minutes of focused work completed today", worked),
		},
		Confidence: 0.9,
		Impact:     domain.ImpactLow,
		Actions:    []domain.ProposalAction{{Type: domain.ActionTakeBreak}},
		Expected:   domain.ExpectedOutcome{StressReduction: 0.5},
	}}
}
