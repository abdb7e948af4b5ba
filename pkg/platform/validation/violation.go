// Package validation holds the field-level rules every inbound payload is
// checked against before it reaches a service.
//
// A rule inspects one value and either accepts it or reports a Violation
// naming the field and the rule it broke. Checks never stop at the first bad
// field: callers collect every Violation for a payload and reject the payload
// as a whole.
package validation

import (
	"errors"
	"strings"

	dErrors "statusline/pkg/domain-errors"
)

// Kind separates structural failures from closed-enumeration and lifecycle
// failures so callers can react to each differently.
type Kind string

const (
	KindShape      Kind = "shape"
	KindEnum       Kind = "enum"
	KindTransition Kind = "transition"
)

// Rule identifiers reported in Violation.Rule.
const (
	RuleObject      = "object"
	RuleType        = "type"
	RuleRequired    = "required"
	RuleNotNull     = "not_null"
	RuleMinLength   = "min_length"
	RuleMaxLength   = "max_length"
	RuleMaxItems    = "max_items"
	RuleEmail       = "email"
	RuleIdentifier  = "identifier"
	RuleEnum        = "enum"
	RuleRange       = "range"
	RuleTimestamp   = "timestamp"
	RuleNotSettable = "not_settable"
	RuleTransition  = "transition"
	RuleCrossField  = "cross_field"
)

// Violation names one field and the rule it failed.
type Violation struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// Shape builds a structural violation.
func Shape(field, rule, message string) Violation {
	return Violation{Field: field, Kind: KindShape, Rule: rule, Message: message}
}

// Transition builds a lifecycle violation.
func Transition(field, message string) Violation {
	return Violation{Field: field, Kind: KindTransition, Rule: RuleTransition, Message: message}
}

// Violations is the failure side of a validation result. The zero value means
// the payload passed.
type Violations []Violation

func (vs Violations) Error() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Add appends v.
func (vs *Violations) Add(v Violation) {
	*vs = append(*vs, v)
}

// Merge appends every violation in other.
func (vs *Violations) Merge(other Violations) {
	*vs = append(*vs, other...)
}

// Has reports whether any violation names field.
func (vs Violations) Has(field string) bool {
	for _, v := range vs {
		if v.Field == field {
			return true
		}
	}
	return false
}

// HasKind reports whether any violation is of kind k.
func (vs Violations) HasKind(k Kind) bool {
	for _, v := range vs {
		if v.Kind == k {
			return true
		}
	}
	return false
}

// ForField returns the violations naming field.
func (vs Violations) ForField(field string) Violations {
	var out Violations
	for _, v := range vs {
		if v.Field == field {
			out = append(out, v)
		}
	}
	return out
}

// Err converts vs into a coded domain error, or nil when vs is empty.
// Lifecycle violations take precedence and surface as CodeInvalidTransition.
func (vs Violations) Err(message string) error {
	if len(vs) == 0 {
		return nil
	}
	code := dErrors.CodeValidation
	if vs.HasKind(KindTransition) {
		code = dErrors.CodeInvalidTransition
	}
	return dErrors.Wrap(vs, code, message)
}

// From extracts the violations carried by err, if any.
func From(err error) (Violations, bool) {
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}
