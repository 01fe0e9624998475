package app

import (
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

// PlanRequest asks for a ranked queue and recommendations for one day.
type PlanRequest struct {
	Energy        int
	Focus         int
	Mode          domain.WorkMode
	Now           *time.Time
	ContextFilter string
	AvailableMin  int
	// Adaptive enables the behavior-profile overlay on top of the base
	// scorer.
	Adaptive bool
}

// NewPlanRequest builds a request with the defaults a fresh session uses.
func NewPlanRequest(energy, focus int) PlanRequest {
	return PlanRequest{
		Energy:       energy,
		Focus:        focus,
		Mode:         domain.ModeStandard,
		AvailableMin: 8 * 60,
		Adaptive:     true,
	}
}

// RankedTask pairs a task with its score metadata.
type RankedTask struct {
	Task  domain.Task
	Score ScoreResult
}

// PlanResponse is the full output of one planning cycle: the total order
// plus zero or more recommendations. The caller persists, displays or
// discards it; the engine holds no state between cycles.
type PlanResponse struct {
	GeneratedAt     time.Time
	Mode            domain.WorkMode
	Ranked          []RankedTask
	Recommendations []domain.SmartRecommendation
	LightMinutes    int
	LightLimitMin   int
}

type PlanErrorCode string

const (
	ErrNoTasks             PlanErrorCode = "NO_TASKS"
	ErrNoEligibleTasks     PlanErrorCode = "NO_ELIGIBLE_TASKS"
	ErrInvalidDate         PlanErrorCode = "INVALID_DATE"
	ErrInvalidAvailableMin PlanErrorCode = "INVALID_AVAILABLE_MIN"
)

// PlanError distinguishes "nothing pending" from "the work-mode filter
// removed everything" so callers can react differently to each.
type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}
