package domain

import dErrors "statusline/pkg/domain-errors"

// TransitionPolicy selects how status changes in updates are judged.
//
// Strict checks every requested status against the lifecycle tables and
// enforces the cross-field rules tied to status. Permissive only checks that
// the status is a member of its enumeration.
type TransitionPolicy string

const (
	TransitionPolicyStrict     TransitionPolicy = "strict"
	TransitionPolicyPermissive TransitionPolicy = "permissive"
)

// ParseTransitionPolicy reads a policy name. The empty string selects strict.
func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch TransitionPolicy(s) {
	case "", TransitionPolicyStrict:
		return TransitionPolicyStrict, nil
	case TransitionPolicyPermissive:
		return TransitionPolicyPermissive, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid transition policy: "+s)
	}
}

// IsStrict treats the zero value as strict.
func (p TransitionPolicy) IsStrict() bool {
	return p != TransitionPolicyPermissive
}

func (p TransitionPolicy) String() string {
	if p == "" {
		return string(TransitionPolicyStrict)
	}
	return string(p)
}
