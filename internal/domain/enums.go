package domain

// WorkMode narrows the eligible task set before ranking.
type WorkMode string

const (
	ModeStandard   WorkMode = "standard"
	ModeLowFocus   WorkMode = "low_focus"
	ModeHyperfocus WorkMode = "hyperfocus"
	ModeQuickWins  WorkMode = "quick_wins"
)

// ValidWorkModes is the canonical set of accepted work mode strings.
var ValidWorkModes = map[string]bool{
	"standard": true, "low_focus": true, "hyperfocus": true, "quick_wins": true,
}

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExpired  ProposalStatus = "expired"
)

// RecommendationType tags the closed set of proposal kinds the engine emits.
type RecommendationType string

const (
	RecBatch          RecommendationType = "BATCH"
	RecEnergyMismatch RecommendationType = "ENERGY_MATCH"
	RecDecompose      RecommendationType = "DECOMPOSE"
	RecReorder        RecommendationType = "REORDER"
	RecDefer          RecommendationType = "DEFER"
	RecReserveMorning RecommendationType = "RESERVE_MORNING"
	RecSuggestBreak   RecommendationType = "SUGGEST_BREAK"
)

type ImpactLevel string

const (
	ImpactHigh   ImpactLevel = "HIGH"
	ImpactMedium ImpactLevel = "MEDIUM"
	ImpactLow    ImpactLevel = "LOW"
)

// ImpactWeight returns a sort weight (higher = more impactful).
func ImpactWeight(i ImpactLevel) int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// ActionType names an operation the external task layer can execute.
type ActionType string

const (
	ActionMoveTask       ActionType = "move_task"
	ActionReorderTask    ActionType = "reorder_task"
	ActionDecomposeTask  ActionType = "decompose_task"
	ActionReserveMorning ActionType = "reserve_morning"
	ActionTakeBreak      ActionType = "take_break"
)
