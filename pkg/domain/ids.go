package domain

import (
	"github.com/google/uuid"

	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/validation"
)

// Typed identifiers keep references to different aggregates from being mixed
// up at compile time. Identifiers are opaque: the core checks their shape and
// leaves existence to the stores.
type (
	ProjectID  string
	RiskID     string
	DecisionID string
	// ProfileID references the owning profile, managed by the identity
	// provider outside this service.
	ProfileID string
)

func (id ProjectID) String() string  { return string(id) }
func (id RiskID) String() string     { return string(id) }
func (id DecisionID) String() string { return string(id) }
func (id ProfileID) String() string  { return string(id) }

func (id ProjectID) IsNil() bool  { return id == "" }
func (id RiskID) IsNil() bool     { return id == "" }
func (id DecisionID) IsNil() bool { return id == "" }
func (id ProfileID) IsNil() bool  { return id == "" }

// NewProjectID, NewRiskID and NewDecisionID mint identifiers for new records.
func NewProjectID() ProjectID   { return ProjectID(uuid.NewString()) }
func NewRiskID() RiskID         { return RiskID(uuid.NewString()) }
func NewDecisionID() DecisionID { return DecisionID(uuid.NewString()) }

func parseID[T ~string](kind, s string) (T, error) {
	if msg := validation.IdentifierProblem(s); msg != "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" "+msg)
	}
	return T(s), nil
}

// ParseProjectID validates the shape of an external project reference.
//
// Errors: CodeInvalidInput when s is empty, too long or contains whitespace
// or control characters.
func ParseProjectID(s string) (ProjectID, error) {
	return parseID[ProjectID]("project id", s)
}

// ParseRiskID validates the shape of an external risk reference.
func ParseRiskID(s string) (RiskID, error) {
	return parseID[RiskID]("risk id", s)
}

// ParseDecisionID validates the shape of an external decision reference.
func ParseDecisionID(s string) (DecisionID, error) {
	return parseID[DecisionID]("decision id", s)
}

// ParseProfileID validates the shape of a profile reference.
func ParseProfileID(s string) (ProfileID, error) {
	return parseID[ProfileID]("profile id", s)
}
