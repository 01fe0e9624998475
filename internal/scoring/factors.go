package scoring

import (
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

// Canonical factor constants. The composition rule is
// deadline + priority - loadPenalty + postponeBonus; regression tests pin
// the exact values, so change them deliberately.
const (
	deadlineNone    = 10.0
	deadlineOverdue = 150.0

	loadPenaltyPerLevel = 2.0
	postponeBonusPerHop = 5.0
)

// deadlineTiers maps hours-until-due upper bounds to scores, strictly
// decreasing as distance grows.
var deadlineTiers = []struct {
	maxHours float64
	score    float64
}{
	{2, 100},
	{4, 80},
	{8, 60},
	{24, 40},
	{48, 30},
	{168, 15},
}

// DeadlineScore rates deadline urgency. No due date yields the baseline
// minimum; an overdue task the maximum. Total and monotonic: an earlier
// due date never scores lower than a later one.
func DeadlineScore(due *time.Time, now time.Time) float64 {
	if due == nil {
		return deadlineNone
	}
	hoursUntil := due.Sub(now).Hours()
	if hoursUntil < 0 {
		return deadlineOverdue
	}
	for _, tier := range deadlineTiers {
		if hoursUntil < tier.maxHours {
			return tier.score
		}
	}
	return deadlineNone
}

// PriorityScore maps priority 1 (highest) through 4 to a weight. Inputs are
// normalized by domain.ParsePriority before they reach here; out-of-range
// values still resolve to the conservative minimum.
func PriorityScore(priority int) float64 {
	switch priority {
	case 1:
		return 50
	case 2:
		return 30
	case 3:
		return 10
	default:
		return 5
	}
}

// CognitiveLoadPenalty is linear in load so that, all else equal, the
// easier task ranks at least as high.
func CognitiveLoadPenalty(load int) float64 {
	return float64(domain.ClampLoad(load)) * loadPenaltyPerLevel
}

// PostponeBonus rewards deferred tasks so they rise instead of sinking,
// preventing perpetual avoidance. Non-negative and non-decreasing in count.
func PostponeBonus(count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(count) * postponeBonusPerHop
}

// TaskScore is the canonical composition of the four factors.
func TaskScore(task domain.Task, now time.Time) float64 {
	return DeadlineScore(task.DueDate, now) +
		PriorityScore(task.Priority) -
		CognitiveLoadPenalty(task.CognitiveLoad) +
		PostponeBonus(task.PostponeCount)
}
