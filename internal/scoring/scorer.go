package scoring

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/pkoziel/dayflow/internal/app"
	"github.com/pkoziel/dayflow/internal/domain"
)

// Strategy selects the postpone policy. The two policies pull in opposite
// directions on purpose: Additive rewards chronic postponement outright,
// Refined penalizes it but softens the penalty once a task crosses the
// escalation threshold. Both exist as named strategies rather than one
// silently unified rule.
type Strategy string

const (
	// StrategyAdditive treats postponements as a pure bonus per the
	// canonical factor library.
	StrategyAdditive Strategy = "additive"
	// StrategyRefined treats postponements as a penalty, halved once the
	// count reaches the escalation threshold so chronically avoided tasks
	// become more attractive again.
	StrategyRefined Strategy = "refined"
)

// PostponeEscalationThreshold is where the refined strategy starts softening
// the avoidance penalty.
const PostponeEscalationThreshold = 3

// Config carries the scorer's tunable weights.
type Config struct {
	Strategy             Strategy
	PriorityWeight       float64
	DeadlineWeight       float64
	ImpactWeight         float64
	FitWeight            float64
	ContextBonusStep     float64
	ContextBonusCap      float64
	ContextSwitchPenalty float64
	PostponeWeight       float64
}

// DefaultConfig returns the weights the planner ships with.
func DefaultConfig() Config {
	return Config{
		Strategy:             StrategyAdditive,
		PriorityWeight:       10,
		DeadlineWeight:       15,
		ImpactWeight:         10,
		FitWeight:            20,
		ContextBonusStep:     5,
		ContextBonusCap:      10,
		ContextSwitchPenalty: 3,
		PostponeWeight:       5,
	}
}

// Scorer turns one task plus the day's context into a score with an
// explainable breakdown. It is pure: safe for concurrent use across users.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score rates a task against the day context and the tasks already placed
// ahead of it in this session. The placed slice drives the context-grouping
// term, which makes scoring order-dependent by design.
func (s *Scorer) Score(task domain.Task, ctx domain.DayContext, placed []domain.Task) app.ScoreResult {
	result := app.ScoreResult{TaskID: task.ID}

	factors := []func(domain.Task, domain.DayContext, []domain.Task) (float64, *app.ScoreReason){
		s.scorePriority,
		s.scoreDeadline,
		s.scoreImpact,
		s.scoreEnergyFit,
		s.scoreContextFlow,
		s.scoreDuration,
		s.scorePostpone,
	}
	var total float64
	for _, f := range factors {
		delta, reason := f(task, ctx, placed)
		total += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}

	result.Total = total + tieBreak(task)
	return result
}

func (s *Scorer) scorePriority(task domain.Task, _ domain.DayContext, _ []domain.Task) (float64, *app.ScoreReason) {
	delta := float64(domain.MaxPriority+1-domain.ClampPriority(task.Priority)) * s.cfg.PriorityWeight
	return delta, &app.ScoreReason{
		Code:        app.ReasonPriority,
		Message:     fmt.Sprintf("Priority P%d", domain.ClampPriority(task.Priority)),
		WeightDelta: delta,
	}
}

func (s *Scorer) scoreDeadline(task domain.Task, ctx domain.DayContext, _ []domain.Task) (float64, *app.ScoreReason) {
	var delta float64
	msg := "No deadline"
	switch {
	case task.DueDate == nil:
	case task.Overdue(ctx.Today):
		delta = s.cfg.DeadlineWeight * 2
		msg = "Overdue"
	case task.DueOn(ctx.Today):
		delta = s.cfg.DeadlineWeight * 1.5
		msg = "Due today"
	case task.DueOn(domain.Tomorrow(ctx.Today)):
		delta = s.cfg.DeadlineWeight
		msg = "Due tomorrow"
	case daysUntil(task, ctx) <= 3:
		delta = s.cfg.DeadlineWeight * 0.5
		msg = "Due within 3 days"
	default:
		msg = "Due later"
	}
	return delta, &app.ScoreReason{Code: app.ReasonDeadline, Message: msg, WeightDelta: delta}
}

func daysUntil(task domain.Task, ctx domain.DayContext) int {
	if task.DueDate == nil {
		return math.MaxInt32
	}
	return int(domain.DateOf(*task.DueDate).Sub(ctx.Today).Hours() / 24)
}

func (s *Scorer) scoreImpact(task domain.Task, _ domain.DayContext, _ []domain.Task) (float64, *app.ScoreReason) {
	switch {
	case task.IsMust:
		delta := s.cfg.ImpactWeight * 2
		return delta, &app.ScoreReason{Code: app.ReasonImpact, Message: "MUST task", WeightDelta: delta}
	case task.IsImportant:
		delta := s.cfg.ImpactWeight
		return delta, &app.ScoreReason{Code: app.ReasonImpact, Message: "Marked important", WeightDelta: delta}
	}
	return 0, nil
}

// scoreEnergyFit rewards tasks whose cognitive load matches the current
// energy/focus state, with extra shaping for short and long tasks under low
// focus. Never negative in total: a hopeless fit contributes nothing rather
// than sinking the task below its deadline urgency.
func (s *Scorer) scoreEnergyFit(task domain.Task, ctx domain.DayContext, _ []domain.Task) (float64, *app.ScoreReason) {
	fitDiff := math.Abs(ctx.State() - float64(task.CognitiveLoad))
	fit := s.cfg.FitWeight * (1 - fitDiff/5)

	if ctx.Focus <= 2 && task.EstimateMin <= 15 {
		fit += 10
	}
	if ctx.Focus <= 2 && task.EstimateMin > 45 {
		fit -= 15
	}
	fit = math.Max(0, fit)

	var reason *app.ScoreReason
	if fit != 0 {
		reason = &app.ScoreReason{
			Code:        app.ReasonEnergyFit,
			Message:     fmt.Sprintf("Load %d vs state %.1f", task.CognitiveLoad, ctx.State()),
			WeightDelta: fit,
		}
	}
	return fit, reason
}

// scoreContextFlow is the order-dependent term: a bonus for continuing the
// context of the immediately preceding placed tasks, a penalty for
// switching away from a non-empty one. The first task of a session is
// neutral but still explained.
func (s *Scorer) scoreContextFlow(task domain.Task, _ domain.DayContext, placed []domain.Task) (float64, *app.ScoreReason) {
	if len(placed) == 0 {
		return 0, &app.ScoreReason{Code: app.ReasonContextFlow, Message: "First task of the session"}
	}
	prev := placed[len(placed)-1]

	if task.ContextType != "" && prev.ContextType == task.ContextType {
		run := 1
		for i := len(placed) - 2; i >= 0 && placed[i].ContextType == task.ContextType; i-- {
			run++
		}
		delta := math.Min(s.cfg.ContextBonusStep*float64(run), s.cfg.ContextBonusCap)
		return delta, &app.ScoreReason{
			Code:        app.ReasonContextFlow,
			Message:     fmt.Sprintf("Continues %q context (%d in a row)", task.ContextType, run+1),
			WeightDelta: delta,
		}
	}

	if prev.ContextType != "" && prev.ContextType != task.ContextType {
		delta := -s.cfg.ContextSwitchPenalty
		return delta, &app.ScoreReason{
			Code:        app.ReasonContextSwitch,
			Message:     fmt.Sprintf("Switches away from %q", prev.ContextType),
			WeightDelta: delta,
		}
	}

	return 0, &app.ScoreReason{Code: app.ReasonContextFlow, Message: "No context change"}
}

func (s *Scorer) scoreDuration(task domain.Task, _ domain.DayContext, _ []domain.Task) (float64, *app.ScoreReason) {
	var delta float64
	switch {
	case task.EstimateMin <= 15:
		return 0, nil
	case task.EstimateMin <= 30:
		delta = -2
	case task.EstimateMin <= 60:
		delta = -5
	default:
		delta = -9
	}
	return delta, &app.ScoreReason{
		Code:        app.ReasonDuration,
		Message:     fmt.Sprintf("Long task (%d min)", task.EstimateMin),
		WeightDelta: delta,
	}
}

func (s *Scorer) scorePostpone(task domain.Task, _ domain.DayContext, _ []domain.Task) (float64, *app.ScoreReason) {
	if task.PostponeCount <= 0 {
		return 0, nil
	}

	var delta float64
	var msg string
	switch s.cfg.Strategy {
	case StrategyRefined:
		penalty := float64(task.PostponeCount) * s.cfg.PostponeWeight
		if task.PostponeCount >= PostponeEscalationThreshold {
			penalty *= 0.5
			msg = fmt.Sprintf("Postponed %dx, penalty softened to force resolution", task.PostponeCount)
		} else {
			msg = fmt.Sprintf("Postponed %dx", task.PostponeCount)
		}
		delta = -penalty
	default:
		delta = PostponeBonus(task.PostponeCount)
		msg = fmt.Sprintf("Postponed %dx, boosted to prevent avoidance", task.PostponeCount)
	}
	return delta, &app.ScoreReason{Code: app.ReasonPostpone, Message: msg, WeightDelta: delta}
}

// tieBreak derives a small stable pseudo-value from the task's identity so
// no two tasks ever receive bit-identical totals. Not wall-clock random:
// repeated calls on identical input reproduce the same ordering.
func tieBreak(task domain.Task) float64 {
	h := fnv.New32a()
	h.Write([]byte(task.ID))
	fmt.Fprintf(h, "%d", task.CreatedAt.UnixNano())
	return float64(h.Sum32()%10000) / 1e6
}
