package domain

import dErrors "statusline/pkg/domain-errors"

// DecisionStatus is the lifecycle state of a decision: PENDING moves to
// DECIDED or CANCELLED, both terminal.
type DecisionStatus string

const (
	DecisionStatusPending   DecisionStatus = "PENDING"
	DecisionStatusDecided   DecisionStatus = "DECIDED"
	DecisionStatusCancelled DecisionStatus = "CANCELLED"
)

var decisionTransitions = map[DecisionStatus][]DecisionStatus{
	DecisionStatusPending:   {DecisionStatusDecided, DecisionStatusCancelled},
	DecisionStatusDecided:   nil,
	DecisionStatusCancelled: nil,
}

// DecisionStatuses lists every status in lifecycle order.
func DecisionStatuses() []DecisionStatus {
	return []DecisionStatus{DecisionStatusPending, DecisionStatusDecided, DecisionStatusCancelled}
}

// ParseDecisionStatus constructs a DecisionStatus from external input.
func ParseDecisionStatus(s string) (DecisionStatus, error) {
	v := DecisionStatus(s)
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid decision status: "+s)
	}
	return v, nil
}

func (s DecisionStatus) IsValid() bool {
	_, ok := decisionTransitions[s]
	return ok
}

func (s DecisionStatus) IsTerminal() bool {
	return s == DecisionStatusDecided || s == DecisionStatusCancelled
}

// CanTransitionTo reports whether a decision in status s may move to target.
func (s DecisionStatus) CanTransitionTo(target DecisionStatus) bool {
	for _, next := range decisionTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s in one step.
func (s DecisionStatus) NextStatuses() []DecisionStatus {
	return append([]DecisionStatus(nil), decisionTransitions[s]...)
}

func (s DecisionStatus) String() string {
	return string(s)
}
