package domain

import "time"

// FixedEvent is an upcoming immovable block of time, such as a meeting.
type FixedEvent struct {
	Start time.Time
	End   time.Time
}

// DayContext captures the user's current state for one planning session.
// It is assembled fresh per session and never persisted mid-computation.
type DayContext struct {
	Energy        int
	Focus         int
	Mode          WorkMode
	Today         time.Time
	ContextFilter string
	AvailableMin  int
	Events        []FixedEvent
}

// NewDayContext builds a context with clamped sliders and a normalized date.
func NewDayContext(energy, focus int, mode WorkMode, today time.Time) DayContext {
	if mode == "" {
		mode = ModeStandard
	}
	return DayContext{
		Energy: ClampScale(energy),
		Focus:  ClampScale(focus),
		Mode:   mode,
		Today:  DateOf(today),
	}
}

// State is the mean of energy and focus, the scalar the fit terms compare
// against cognitive load.
func (c DayContext) State() float64 {
	return float64(c.Energy+c.Focus) / 2
}
