package models

import (
	"fmt"
	"strings"
	"time"

	"statusline/pkg/domain"
	"statusline/pkg/platform/validation"
)

// Risk is a threat to a project's delivery, owned by exactly one project.
//
// Invariants:
//   - Status starts at OPEN and only changes through ApplyPatch
//   - ResolvedAt is set only while Status is RESOLVED or CANCELLED
//   - Tags hold no blanks and no duplicates
type Risk struct {
	ID          domain.RiskID     `json:"id"`
	ProjectID   domain.ProjectID  `json:"projectId"`
	Description string            `json:"description"`
	Impact      string            `json:"impact"`
	Mitigation  *string           `json:"mitigation,omitempty"`
	Severity    domain.Severity   `json:"severity"`
	Status      domain.RiskStatus `json:"status"`
	ReviewDate  *time.Time        `json:"reviewDate,omitempty"`
	ResolvedAt  *time.Time        `json:"resolvedAt,omitempty"`
	Tags        []string          `json:"tags"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewRisk builds a risk from validated input. The lifecycle state is fixed
// here: every risk starts OPEN with no resolution time.
func NewRisk(id domain.RiskID, in *RiskInput, now time.Time) *Risk {
	tags := append([]string{}, in.Tags...)
	return &Risk{
		ID:          id,
		ProjectID:   in.ProjectID,
		Description: in.Description,
		Impact:      in.Impact,
		Mitigation:  copyString(in.Mitigation),
		Severity:    in.Severity,
		Status:      domain.RiskStatusOpen,
		ReviewDate:  copyTime(in.ReviewDate),
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy.
func (r *Risk) Clone() *Risk {
	c := *r
	c.Mitigation = copyString(r.Mitigation)
	c.ReviewDate = copyTime(r.ReviewDate)
	c.ResolvedAt = copyTime(r.ResolvedAt)
	c.Tags = append([]string{}, r.Tags...)
	return &c
}

// CheckPatch judges a shape-valid patch against the current record.
//
// Under the strict policy a status change must follow the lifecycle table
// and resolvedAt may only accompany a terminal status. The permissive policy
// accepts any patch that passed shape validation.
func (r *Risk) CheckPatch(patch *RiskPatch, policy domain.TransitionPolicy) validation.Violations {
	var vs validation.Violations
	if !policy.IsStrict() {
		return vs
	}

	next := r.Status
	if patch.Status != nil {
		next = *patch.Status
		if next != r.Status && !r.Status.CanTransitionTo(next) {
			vs.Add(validation.Transition("status", transitionMessage(r.Status, next)))
		}
	}

	if patch.ResolvedAt != nil && !next.IsTerminal() {
		vs.Add(validation.Shape("resolvedAt", validation.RuleCrossField,
			fmt.Sprintf("may only be set when status is %s or %s", domain.RiskStatusResolved, domain.RiskStatusCancelled)))
	}
	return vs
}

func transitionMessage(from, to domain.RiskStatus) string {
	next := from.NextStatuses()
	if len(next) == 0 {
		return fmt.Sprintf("cannot move from %s to %s: %s is terminal", from, to, from)
	}
	allowed := make([]string, len(next))
	for i, s := range next {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot move from %s to %s; allowed: %s", from, to, strings.Join(allowed, ", "))
}

// ApplyPatch copies the present patch fields onto r. Call CheckPatch first.
//
// Reaching a terminal status stamps ResolvedAt with now unless the patch or
// the record already carries one; ending in a non-terminal status clears it.
// Reports whether the status changed.
func (r *Risk) ApplyPatch(patch *RiskPatch, now time.Time) bool {
	prev := r.Status
	if patch.ProjectID != nil {
		r.ProjectID = *patch.ProjectID
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.Impact != nil {
		r.Impact = *patch.Impact
	}
	if patch.Mitigation != nil {
		r.Mitigation = copyString(patch.Mitigation)
	}
	if patch.Severity != nil {
		r.Severity = *patch.Severity
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.ReviewDate != nil {
		r.ReviewDate = copyTime(patch.ReviewDate)
	}
	if patch.ResolvedAt != nil {
		r.ResolvedAt = copyTime(patch.ResolvedAt)
	}
	if patch.Tags != nil {
		r.Tags = append([]string{}, (*patch.Tags)...)
	}

	switch {
	case !r.Status.IsTerminal():
		r.ResolvedAt = nil
	case r.ResolvedAt == nil:
		stamp := now
		r.ResolvedAt = &stamp
	}
	r.UpdatedAt = now
	return prev != r.Status
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
