package domain

import "time"

// Task is the unit of planning. Priority runs 1 (highest) to 4, cognitive
// load 1 (trivial) to 5. Both are clamped at the parsing boundary so the
// scorer never sees out-of-range values.
type Task struct {
	ID            string
	Title         string
	Priority      int
	IsMust        bool
	IsImportant   bool
	EstimateMin   int
	CognitiveLoad int
	ContextType   string
	DueDate       *time.Time
	Completed     bool
	CompletedAt   *time.Time
	ActualMin     int
	PostponeCount int
	Subtasks      []string
	Position      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Overdue reports whether the task's due date fell before the given day.
func (t Task) Overdue(today time.Time) bool {
	return t.DueDate != nil && DateOf(*t.DueDate).Before(DateOf(today))
}

// DueOn reports whether the task is due exactly on the given day.
func (t Task) DueOn(day time.Time) bool {
	return t.DueDate != nil && DateOf(*t.DueDate).Equal(DateOf(day))
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Tomorrow returns the calendar day after the given one.
func Tomorrow(day time.Time) time.Time {
	return DateOf(day).AddDate(0, 0, 1)
}
