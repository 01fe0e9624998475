// Package recommend turns the day's task set and the behavior profile into
// actionable suggestions. Detectors are independent heuristics; the engine
// runs them all, isolates failures, and resolves their competing claims.
package recommend

import (
	"sort"
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

// Input is the read-only snapshot every detector sees.
type Input struct {
	// Ranked holds the pending tasks in planner order; detectors that
	// care about position (Reorder) read it front to back.
	Ranked []domain.Task
	// CompletedToday holds today's finished tasks, oldest first.
	CompletedToday []domain.Task
	Ctx            domain.DayContext
	Profile        *domain.BehaviorProfile
	Now            time.Time
}

// Detector examines the input and proposes zero or more recommendations.
type Detector func(Input) []domain.SmartRecommendation

// Engine runs a fixed detector set over one input snapshot.
type Engine struct {
	detectors []Detector
}

// NewEngine returns the engine with the standard detector set.
func NewEngine() *Engine {
	return &Engine{detectors: []Detector{
		DetectBatch,
		DetectEnergyMismatch,
		DetectDecompose,
		DetectReorder,
		DetectDefer,
		DetectBreak,
	}}
}

// Generate runs every detector, drops any that panic, and returns the
// surviving recommendations ordered by impact and confidence with at most
// one claim per task.
func (e *Engine) Generate(in Input) []domain.SmartRecommendation {
	if in.Profile == nil {
		in.Profile = domain.DefaultProfile("")
	}

	var all []domain.SmartRecommendation
	for _, d := range e.detectors {
		all = append(all, runDetector(d, in)...)
	}
	return resolveConflicts(all)
}

// runDetector isolates one detector so a bad heuristic cannot take down the
// whole generation pass.
func runDetector(d Detector, in Input) (recs []domain.SmartRecommendation) {
	defer func() {
		if recover() != nil {
			recs = nil
		}
	}()
	return d(in)
}

// resolveConflicts orders by impact then confidence and keeps the first
// recommendation to claim each task. Recommendations without task claims
// always survive.
func resolveConflicts(recs []domain.SmartRecommendation) []domain.SmartRecommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RankWeight() > recs[j].RankWeight()
	})

	claimed := map[string]bool{}
	var kept []domain.SmartRecommendation
	for _, rec := range recs {
		conflict := false
		for _, id := range rec.TaskIDs() {
			if claimed[id] {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		for _, id := range rec.TaskIDs() {
			claimed[id] = true
		}
		kept = append(kept, rec)
	}
	return kept
}
