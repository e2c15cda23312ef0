package models

// Actions a trading verdict may carry.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// Stances a research verdict may carry.
const (
	StanceBullish = "BULLISH"
	StanceBearish = "BEARISH"
	StanceNeutral = "NEUTRAL"
)

// Verdict is a judge role's structured decision for its phase. Decision is
// a stance for the research manager and an action for the risk judge.
type Verdict struct {
	Role       string  `json:"role"`
	Decision   string  `json:"decision"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

// TraderPlan is the trader's proposal handed to the risk team.
type TraderPlan struct {
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
}

// RunStatus is the terminal status of one run.
type RunStatus string

const (
	StatusCompleted RunStatus = "COMPLETED"
	StatusPartial   RunStatus = "PARTIAL"
	StatusFailed    RunStatus = "FAILED"
)

// FailureKind names why a FAILED run stopped.
type FailureKind string

const (
	FailureNone                  FailureKind = ""
	FailureInsufficientGrounding FailureKind = "insufficient_grounding"
	FailurePhase                 FailureKind = "phase_failure"
	FailureCancelled             FailureKind = "cancelled"
)

// RunResult is what the engine returns: the frozen state plus terminal
// status. The engine holds nothing across calls except through the memory
// store.
type RunResult struct {
	RunID   string      `json:"run_id"`
	State   *AgentState `json:"state"`
	Status  RunStatus   `json:"status"`
	Failure FailureKind `json:"failure,omitempty"`
}
