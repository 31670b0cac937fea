package service

// Escalation-ladder thresholds, scoped to one evaluation period.
const (
	warnThreshold         = 3
	shortSuspendThreshold = 5
	longSuspendThreshold  = 7
	banThresholdExclusive = 5
	shortSuspensionDays   = 3
	longSuspensionDays    = 7
)

// PenaltyAction is the evaluator's verdict.
type PenaltyAction string

const (
	PenaltyNone    PenaltyAction = "NONE"
	PenaltyWarn    PenaltyAction = "WARN"
	PenaltySuspend PenaltyAction = "SUSPEND"
	PenaltyBan     PenaltyAction = "BAN"
)

// PenaltyInput carries the period-scoped facts the ladder needs.
type PenaltyInput struct {
	DisputeCount   int
	WarnedInPeriod bool
	OpenSanction   bool
	PriorThreeDay  bool
	PriorSevenDay  bool
}

// PenaltyDecision is the next authorized rung, if any.
type PenaltyDecision struct {
	Action         PenaltyAction
	SuspensionDays int
}

// EvaluatePenalty walks the escalation ladder warning → 3-day → 7-day
// → ban and authorizes only the next unserved rung. A driver who jumps
// straight to a high dispute count still passes through every rung;
// thresholds are deliberately not exclusive. Pure function.
func EvaluatePenalty(in PenaltyInput) PenaltyDecision {
	if in.DisputeCount >= warnThreshold && !in.WarnedInPeriod {
		return PenaltyDecision{Action: PenaltyWarn}
	}
	if in.OpenSanction {
		return PenaltyDecision{Action: PenaltyNone}
	}
	switch {
	case !in.PriorThreeDay && in.DisputeCount >= shortSuspendThreshold:
		return PenaltyDecision{Action: PenaltySuspend, SuspensionDays: shortSuspensionDays}
	case in.PriorThreeDay && !in.PriorSevenDay && in.DisputeCount >= longSuspendThreshold:
		return PenaltyDecision{Action: PenaltySuspend, SuspensionDays: longSuspensionDays}
	case in.PriorSevenDay && in.DisputeCount > banThresholdExclusive:
		return PenaltyDecision{Action: PenaltyBan}
	}
	return PenaltyDecision{Action: PenaltyNone}
}
