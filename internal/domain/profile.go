package domain

import (
	"sort"
	"time"
)

// EnergyPattern is the learned energy/focus average for one hour of day.
type EnergyPattern struct {
	Hour      int     `json:"hour"`
	AvgEnergy float64 `json:"avg_energy"`
	AvgFocus  float64 `json:"avg_focus"`
	Samples   int     `json:"samples"`
}

// CompletionStreak is one day's completed/postponed tally.
type CompletionStreak struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Completed int    `json:"completed"`
	Postponed int    `json:"postponed"`
}

// PostponeStats aggregates postponement behavior for one cognitive-load bucket.
type PostponeStats struct {
	Count       int      `json:"count"`
	AvgPostpone float64  `json:"avg_postpone"`
	Reasons     []string `json:"reasons,omitempty"`
}

// BehaviorProfile is the per-user productivity model the adaptive overlay
// reads. Created with defaults on first use, updated incrementally by the
// learning service, never deleted.
type BehaviorProfile struct {
	UserID               string
	PeakStartHour        int
	PeakEndHour          int // exclusive
	PreferredDurationMin int
	SwitchSensitivity    float64 // 0..1
	PostponePatterns     map[string]PostponeStats
	EnergyPatterns       []EnergyPattern
	Streaks              []CompletionStreak
	UpdatedAt            time.Time
}

// DefaultProfile returns the profile used before any behavior is observed.
func DefaultProfile(userID string) *BehaviorProfile {
	return &BehaviorProfile{
		UserID:               userID,
		PeakStartHour:        9,
		PeakEndHour:          12,
		PreferredDurationMin: 30,
		SwitchSensitivity:    0.5,
		PostponePatterns:     map[string]PostponeStats{},
	}
}

// InPeakHours reports whether the given hour falls in the learned
// peak-productivity window.
func (p *BehaviorProfile) InPeakHours(hour int) bool {
	return hour >= p.PeakStartHour && hour < p.PeakEndHour
}

// PatternForHour returns the learned energy pattern for an hour, if any.
func (p *BehaviorProfile) PatternForHour(hour int) (EnergyPattern, bool) {
	for _, ep := range p.EnergyPatterns {
		if ep.Hour == hour {
			return ep, true
		}
	}
	return EnergyPattern{}, false
}

// RecentStreaks returns up to n most recent streak entries, newest first.
func (p *BehaviorProfile) RecentStreaks(n int) []CompletionStreak {
	streaks := make([]CompletionStreak, len(p.Streaks))
	copy(streaks, p.Streaks)
	sort.Slice(streaks, func(i, j int) bool { return streaks[i].Date > streaks[j].Date })
	if len(streaks) > n {
		streaks = streaks[:n]
	}
	return streaks
}

// LoadBucket keys postpone patterns by cognitive load.
func LoadBucket(cognitiveLoad int) string {
	switch ClampLoad(cognitiveLoad) {
	case 1:
		return "cognitive_1"
	case 2:
		return "cognitive_2"
	case 3:
		return "cognitive_3"
	case 4:
		return "cognitive_4"
	default:
		return "cognitive_5"
	}
}
