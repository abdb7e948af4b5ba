package domain

import dErrors "statusline/pkg/domain-errors"

// Severity grades a risk. Members are ordered by ascending criticality.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Severities lists every severity, least critical first.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// ParseSeverity constructs a Severity from external input. Matching is exact:
// "high" is not a severity.
func ParseSeverity(s string) (Severity, error) {
	v := Severity(s)
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid severity: "+s)
	}
	return v, nil
}

func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank is 1 for LOW up to 4 for CRITICAL, 0 for unknown values.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Compare returns -1, 0 or 1 as s is less, equally or more critical than other.
func (s Severity) Compare(other Severity) int {
	switch a, b := s.Rank(), other.Rank(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}
