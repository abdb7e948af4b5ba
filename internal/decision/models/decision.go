package models

import (
	"fmt"
	"strings"
	"time"

	"statusline/pkg/domain"
	"statusline/pkg/platform/validation"
)

// Decision records a choice taken, or still pending, on a project.
//
// Invariants:
//   - Status starts at PENDING and only changes through ApplyPatch
//   - Under the strict policy a DECIDED decision has an outcome and decidedAt
type Decision struct {
	ID          domain.DecisionID     `json:"id"`
	ProjectID   domain.ProjectID      `json:"projectId"`
	Description string                `json:"description"`
	Context     *string               `json:"context,omitempty"`
	DecidedBy   *string               `json:"decidedBy,omitempty"`
	Outcome     *string               `json:"outcome,omitempty"`
	DecidedAt   *time.Time            `json:"decidedAt,omitempty"`
	Status      domain.DecisionStatus `json:"status"`
	Tags        []string              `json:"tags"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// NewDecision builds a PENDING decision from validated input.
func NewDecision(id domain.DecisionID, in *DecisionInput, now time.Time) *Decision {
	return &Decision{
		ID:          id,
		ProjectID:   in.ProjectID,
		Description: in.Description,
		Context:     copyString(in.Context),
		DecidedBy:   copyString(in.DecidedBy),
		Status:      domain.DecisionStatusPending,
		Tags:        append([]string{}, in.Tags...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy.
func (d *Decision) Clone() *Decision {
	c := *d
	c.Context = copyString(d.Context)
	c.DecidedBy = copyString(d.DecidedBy)
	c.Outcome = copyString(d.Outcome)
	c.DecidedAt = copyTime(d.DecidedAt)
	c.Tags = append([]string{}, d.Tags...)
	return &c
}

// CheckPatch judges a shape-valid patch against the current record.
//
// Strict: the status change must follow the lifecycle table, outcome and
// decidedAt may only be written on a DECIDED result, and a DECIDED result
// needs both, from the patch or already on record.
func (d *Decision) CheckPatch(patch *DecisionPatch, policy domain.TransitionPolicy) validation.Violations {
	var vs validation.Violations
	if !policy.IsStrict() {
		return vs
	}

	next := d.Status
	if patch.Status != nil {
		next = *patch.Status
		if next != d.Status && !d.Status.CanTransitionTo(next) {
			vs.Add(validation.Transition("status", transitionMessage(d.Status, next)))
		}
	}

	if next != domain.DecisionStatusDecided {
		if patch.Outcome != nil {
			vs.Add(validation.Shape("outcome", validation.RuleCrossField, "may only be set when status is DECIDED"))
		}
		if patch.DecidedAt != nil {
			vs.Add(validation.Shape("decidedAt", validation.RuleCrossField, "may only be set when status is DECIDED"))
		}
		return vs
	}

	outcome := d.Outcome
	if patch.Outcome != nil {
		outcome = patch.Outcome
	}
	if outcome == nil || strings.TrimSpace(*outcome) == "" {
		vs.Add(validation.Shape("outcome", validation.RuleCrossField, "is required when status is DECIDED"))
	}
	if patch.DecidedAt == nil && d.DecidedAt == nil {
		vs.Add(validation.Shape("decidedAt", validation.RuleCrossField, "is required when status is DECIDED"))
	}
	return vs
}

func transitionMessage(from, to domain.DecisionStatus) string {
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

// ApplyPatch copies the present patch fields onto d and reports whether the
// status changed. Call CheckPatch first.
func (d *Decision) ApplyPatch(patch *DecisionPatch, now time.Time) bool {
	prev := d.Status
	if patch.ProjectID != nil {
		d.ProjectID = *patch.ProjectID
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Context != nil {
		d.Context = copyString(patch.Context)
	}
	if patch.DecidedBy != nil {
		d.DecidedBy = copyString(patch.DecidedBy)
	}
	if patch.Outcome != nil {
		d.Outcome = copyString(patch.Outcome)
	}
	if patch.DecidedAt != nil {
		d.DecidedAt = copyTime(patch.DecidedAt)
	}
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.Tags != nil {
		d.Tags = append([]string{}, (*patch.Tags)...)
	}
	d.UpdatedAt = now
	return prev != d.Status
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
