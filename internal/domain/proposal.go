package domain

import "time"

// ProposalAction names one operation for the external task layer to execute.
// The engine only describes what should change; it never mutates tasks.
type ProposalAction struct {
	Type     ActionType
	TaskID   string
	FromDate *time.Time
	ToDate   *time.Time
	// Params carries action-specific knobs, e.g. target_duration for
	// decompose or time for reserve_morning.
	Params map[string]string
}

// Proposal is an expiring suggestion with one primary action and optional
// alternatives. Proposals are transient: generated per planning cycle and
// superseded whenever the task set changes materially.
type Proposal struct {
	ID           string
	Type         RecommendationType
	Reason       string
	Primary      ProposalAction
	Alternatives []ProposalAction
	Status       ProposalStatus
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// DefaultProposalTTL is how long a proposal stays actionable.
const DefaultProposalTTL = 24 * time.Hour

// Expired reports whether the proposal is past its expiry. Validity is
// checked at read time; no background sweeper exists.
func (p Proposal) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// ExpectedOutcome estimates the effect of accepting a recommendation.
type ExpectedOutcome struct {
	TimeSavedMin          int
	StressReduction       float64 // 0..1
	CompletionProbability float64 // 0..1
}

// SmartRecommendation is a scored, explainable suggestion produced by the
// recommendation generator.
type SmartRecommendation struct {
	Type       RecommendationType
	Title      string
	Reasoning  []string
	Confidence float64 // 0..1
	Impact     ImpactLevel
	Actions    []ProposalAction
	Expected   ExpectedOutcome
}

// TaskIDs returns the task ids this recommendation claims, in action order.
func (r SmartRecommendation) TaskIDs() []string {
	var ids []string
	for _, a := range r.Actions {
		if a.TaskID != "" {
			ids = append(ids, a.TaskID)
		}
	}
	return ids
}

// RankWeight orders recommendations by impact then confidence.
func (r SmartRecommendation) RankWeight() float64 {
	return float64(ImpactWeight(r.Impact)) * r.Confidence
}
