package app

// ScoreReasonCode names one factor contribution in a score breakdown.
type ScoreReasonCode string

const (
	ReasonPriority       ScoreReasonCode = "PRIORITY"
	ReasonDeadline       ScoreReasonCode = "DEADLINE"
	ReasonImpact         ScoreReasonCode = "IMPACT"
	ReasonEnergyFit      ScoreReasonCode = "ENERGY_FIT"
	ReasonContextFlow    ScoreReasonCode = "CONTEXT_FLOW"
	ReasonContextSwitch  ScoreReasonCode = "CONTEXT_SWITCH"
	ReasonDuration       ScoreReasonCode = "DURATION"
	ReasonPostpone       ScoreReasonCode = "POSTPONE"
	ReasonSwitchCost     ScoreReasonCode = "SWITCH_COST"
	ReasonTimeOfDay      ScoreReasonCode = "TIME_OF_DAY"
	ReasonCompletionOdds ScoreReasonCode = "COMPLETION_ODDS"
	ReasonMomentum       ScoreReasonCode = "MOMENTUM"
	ReasonEventProximity ScoreReasonCode = "EVENT_PROXIMITY"
)

// ScoreReason is one named, signed factor contribution with its
// human-readable explanation.
type ScoreReason struct {
	Code        ScoreReasonCode
	Message     string
	WeightDelta float64
}

// ScoreResult is the full scoring output for one task. The reason list is
// ordered the way the factors were applied; priority, deadline and context
// entries are always present, even at zero, so callers can explain a
// ranking without re-deriving it.
type ScoreResult struct {
	TaskID  string
	Total   float64
	Reasons []ScoreReason
	// Confidence is only set by the adaptive overlay: how much historical
	// data backs the personalized terms, 0..1.
	Confidence float64
}

// Reason returns the contribution for a code, if present.
func (r ScoreResult) Reason(code ScoreReasonCode) (ScoreReason, bool) {
	for _, reason := range r.Reasons {
		if reason.Code == code {
			return reason, true
		}
	}
	return ScoreReason{}, false
}
