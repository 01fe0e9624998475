// Package learning maintains the per-user behavior profile from completion
// and postponement events. Every function here is pure over the profile it
// is handed; persistence belongs to the caller.
package learning

import (
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
)

const (
	// durationBlend is how far one observation pulls the preferred
	// duration toward the actual time spent.
	durationBlend = 0.15

	minPreferredDuration = 10
	maxPreferredDuration = 120

	// streakWindowDays bounds how much daily history the profile carries.
	streakWindowDays = 30

	// peakMinPatterns and peakMinSamples gate the peak-hour recompute so
	// a couple of lucky mornings do not rewrite the window.
	peakMinPatterns = 6
	peakMinSamples  = 2
	peakTopHours    = 3

	// switchMinHistory is the completion count required before the
	// switch sensitivity moves off its default.
	switchMinHistory = 10

	maxPostponeReasons = 5
)

// CompletionEvent is one observed task completion with the state the user
// reported at the time.
type CompletionEvent struct {
	Task        domain.Task
	Energy      int
	Focus       int
	ActualMin   int
	CompletedAt time.Time
}

// PostponeEvent is one observed postponement with the stated reason.
type PostponeEvent struct {
	Task   domain.Task
	Reason string
	At     time.Time
}

// ApplyCompletion folds a completion into the profile: the preferred
// duration drifts toward the observed one, the hour's energy pattern picks
// up a sample, the day's streak tally increments, and the derived peak
// window recomputes.
func ApplyCompletion(p *domain.BehaviorProfile, ev CompletionEvent) {
	if ev.ActualMin > 0 {
		blended := float64(p.PreferredDurationMin)*(1-durationBlend) + float64(ev.ActualMin)*durationBlend
		p.PreferredDurationMin = clampInt(int(blended+0.5), minPreferredDuration, maxPreferredDuration)
	}

	recordEnergySample(p, ev.CompletedAt.Hour(), ev.Energy, ev.Focus)
	bumpStreak(p, ev.CompletedAt, func(s *domain.CompletionStreak) { s.Completed++ })
	recomputePeakHours(p)
	p.UpdatedAt = ev.CompletedAt
}

// ApplyPostponement folds a postponement into the profile: the day's streak
// tally and the cognitive-load bucket's pattern both record it.
func ApplyPostponement(p *domain.BehaviorProfile, ev PostponeEvent) {
	bumpStreak(p, ev.At, func(s *domain.CompletionStreak) { s.Postponed++ })

	bucket := domain.LoadBucket(ev.Task.CognitiveLoad)
	if p.PostponePatterns == nil {
		p.PostponePatterns = map[string]domain.PostponeStats{}
	}
	stats := p.PostponePatterns[bucket]
	stats.Count++
	if stats.AvgPostpone == 0 {
		stats.AvgPostpone = float64(ev.Task.PostponeCount)
	} else {
		stats.AvgPostpone = (stats.AvgPostpone + float64(ev.Task.PostponeCount)) / 2
	}
	if ev.Reason != "" {
		stats.Reasons = append(stats.Reasons, ev.Reason)
		if len(stats.Reasons) > maxPostponeReasons {
			stats.Reasons = stats.Reasons[len(stats.Reasons)-maxPostponeReasons:]
		}
	}
	p.PostponePatterns[bucket] = stats
	p.UpdatedAt = ev.At
}

// SwitchSensitivity derives how much context switching hurts this user from
// their recent completion sequence, oldest first. Below the history
// threshold it reports ok=false and callers keep the profile's current
// value.
func SwitchSensitivity(recent []domain.Task) (float64, bool) {
	if len(recent) < switchMinHistory {
		return 0, false
	}

	switches, stays := 0, 0
	for i := 1; i < len(recent); i++ {
		prev, cur := recent[i-1], recent[i]
		if prev.ContextType == "" || cur.ContextType == "" {
			continue
		}
		if prev.ContextType == cur.ContextType {
			stays++
		} else {
			switches++
		}
	}
	total := switches + stays
	if total == 0 {
		return 0, false
	}

	switchRate := float64(switches) / float64(total)
	stayRate := float64(stays) / float64(total)
	sensitivity := 0.5 + stayRate - switchRate
	if sensitivity < 0 {
		sensitivity = 0
	}
	if sensitivity > 1 {
		sensitivity = 1
	}
	return sensitivity, true
}

// recordEnergySample folds one energy/focus observation into the hour's
// incremental averages.
func recordEnergySample(p *domain.BehaviorProfile, hour, energy, focus int) {
	for i := range p.EnergyPatterns {
		ep := &p.EnergyPatterns[i]
		if ep.Hour != hour {
			continue
		}
		n := float64(ep.Samples)
		ep.AvgEnergy = (ep.AvgEnergy*n + float64(energy)) / (n + 1)
		ep.AvgFocus = (ep.AvgFocus*n + float64(focus)) / (n + 1)
		ep.Samples++
		return
	}
	p.EnergyPatterns = append(p.EnergyPatterns, domain.EnergyPattern{
		Hour:      hour,
		AvgEnergy: float64(energy),
		AvgFocus:  float64(focus),
		Samples:   1,
	})
}

// bumpStreak applies mutate to the given day's streak entry, creating it if
// needed, then drops entries older than the retention window.
func bumpStreak(p *domain.BehaviorProfile, at time.Time, mutate func(*domain.CompletionStreak)) {
	day := at.UTC().Format("2006-01-02")
	found := false
	for i := range p.Streaks {
		if p.Streaks[i].Date == day {
			mutate(&p.Streaks[i])
			found = true
			break
		}
	}
	if !found {
		entry := domain.CompletionStreak{Date: day}
		mutate(&entry)
		p.Streaks = append(p.Streaks, entry)
	}

	cutoff := at.UTC().AddDate(0, 0, -streakWindowDays).Format("2006-01-02")
	kept := p.Streaks[:0]
	for _, s := range p.Streaks {
		if s.Date >= cutoff {
			kept = append(kept, s)
		}
	}
	p.Streaks = kept
}

// recomputePeakHours rederives the peak window as the span covering the
// three best-scoring hours, once enough hours have enough samples. The end
// hour stays exclusive.
func recomputePeakHours(p *domain.BehaviorProfile) {
	var qualified []domain.EnergyPattern
	for _, ep := range p.EnergyPatterns {
		if ep.Samples >= peakMinSamples {
			qualified = append(qualified, ep)
		}
	}
	if len(qualified) < peakMinPatterns {
		return
	}

	// Selection by average state, highest first.
	for i := 0; i < peakTopHours && i < len(qualified); i++ {
		best := i
		for j := i + 1; j < len(qualified); j++ {
			if state(qualified[j]) > state(qualified[best]) {
				best = j
			}
		}
		qualified[i], qualified[best] = qualified[best], qualified[i]
	}

	top := qualified[:peakTopHours]
	start, end := top[0].Hour, top[0].Hour
	for _, ep := range top[1:] {
		if ep.Hour < start {
			start = ep.Hour
		}
		if ep.Hour > end {
			end = ep.Hour
		}
	}
	p.PeakStartHour = start
	p.PeakEndHour = end + 1
}

func state(ep domain.EnergyPattern) float64 {
	return (ep.AvgEnergy + ep.AvgFocus) / 2
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
