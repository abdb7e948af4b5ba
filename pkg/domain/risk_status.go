package domain

import dErrors "statusline/pkg/domain-errors"

// RiskStatus is the lifecycle state of a risk.
//
// OPEN -> MONITORING -> MITIGATED -> RESOLVED, with CANCELLED reachable from
// every non-terminal state. RESOLVED and CANCELLED are terminal.
type RiskStatus string

const (
	RiskStatusOpen       RiskStatus = "OPEN"
	RiskStatusMonitoring RiskStatus = "MONITORING"
	RiskStatusMitigated  RiskStatus = "MITIGATED"
	RiskStatusResolved   RiskStatus = "RESOLVED"
	RiskStatusCancelled  RiskStatus = "CANCELLED"
)

var riskTransitions = map[RiskStatus][]RiskStatus{
	RiskStatusOpen:       {RiskStatusMonitoring, RiskStatusCancelled},
	RiskStatusMonitoring: {RiskStatusMitigated, RiskStatusCancelled},
	RiskStatusMitigated:  {RiskStatusResolved, RiskStatusCancelled},
	RiskStatusResolved:   nil,
	RiskStatusCancelled:  nil,
}

// RiskStatuses lists every status in lifecycle order.
func RiskStatuses() []RiskStatus {
	return []RiskStatus{RiskStatusOpen, RiskStatusMonitoring, RiskStatusMitigated, RiskStatusResolved, RiskStatusCancelled}
}

// ParseRiskStatus constructs a RiskStatus from external input.
func ParseRiskStatus(s string) (RiskStatus, error) {
	v := RiskStatus(s)
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid risk status: "+s)
	}
	return v, nil
}

func (s RiskStatus) IsValid() bool {
	_, ok := riskTransitions[s]
	return ok
}

func (s RiskStatus) IsTerminal() bool {
	return s == RiskStatusResolved || s == RiskStatusCancelled
}

// CanTransitionTo reports whether a risk in status s may move to target.
// Staying in the same status is not a transition.
func (s RiskStatus) CanTransitionTo(target RiskStatus) bool {
	for _, next := range riskTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s in one step.
func (s RiskStatus) NextStatuses() []RiskStatus {
	return append([]RiskStatus(nil), riskTransitions[s]...)
}

func (s RiskStatus) String() string {
	return string(s)
}
