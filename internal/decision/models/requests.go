package models

import (
	"strings"
	"time"

	"statusline/pkg/domain"
	strs "statusline/pkg/platform/strings"
	"statusline/pkg/platform/validation"
)

// CreateDecisionRequest is the inbound create payload.
type CreateDecisionRequest struct {
	ProjectID   validation.Opt[string]   `json:"projectId"`
	Description validation.Opt[string]   `json:"description"`
	Context     validation.Opt[string]   `json:"context"`
	DecidedBy   validation.Opt[string]   `json:"decidedBy"`
	Outcome     validation.Opt[string]   `json:"outcome"`
	DecidedAt   validation.Opt[string]   `json:"decidedAt"`
	Status      validation.Opt[string]   `json:"status"`
	Tags        validation.Opt[[]string] `json:"tags"`
}

// DecisionInput is a validated create payload with defaults applied.
type DecisionInput struct {
	ProjectID   domain.ProjectID      `json:"projectId"`
	Description string                `json:"description"`
	Context     *string               `json:"context,omitempty"`
	DecidedBy   *string               `json:"decidedBy,omitempty"`
	Status      domain.DecisionStatus `json:"status"`
	Tags        []string              `json:"tags"`
}

// Normalize trims text fields and drops blank tags. Tag order and repeats
// are kept.
func (r *CreateDecisionRequest) Normalize() {
	trim(&r.ProjectID)
	trim(&r.Description)
	trim(&r.Context)
	trim(&r.DecidedBy)
	trim(&r.Outcome)
	trim(&r.Status)
	if r.Tags.Ok() {
		r.Tags.Value = strs.TrimNonBlank(r.Tags.Value)
	}
}

func (r *CreateDecisionRequest) Validate() (*DecisionInput, validation.Violations) {
	var vs validation.Violations
	in := &DecisionInput{Status: domain.DecisionStatusPending, Tags: []string{}}

	if validation.Require(&vs, "projectId", r.ProjectID) &&
		validation.Check(&vs, "projectId", r.ProjectID.Value, validation.Identifier()) {
		in.ProjectID = domain.ProjectID(r.ProjectID.Value)
	}
	if validation.Require(&vs, "description", r.Description) &&
		validation.Check(&vs, "description", r.Description.Value, validation.NonBlank()) {
		in.Description = r.Description.Value
	}
	if validation.Present(&vs, "context", r.Context) {
		in.Context = r.Context.Ptr()
	}
	if validation.Present(&vs, "decidedBy", r.DecidedBy) &&
		validation.Check(&vs, "decidedBy", r.DecidedBy.Value, validation.Identifier()) {
		in.DecidedBy = r.DecidedBy.Ptr()
	}
	if validation.Present(&vs, "tags", r.Tags) {
		in.Tags = r.Tags.Value
	}

	if r.Status.Set && (r.Status.Null || r.Status.Value != string(domain.DecisionStatusPending)) {
		vs.Add(validation.Shape("status", validation.RuleNotSettable, "is set by the lifecycle; new decisions start PENDING"))
	}
	if r.Outcome.Set {
		vs.Add(validation.Shape("outcome", validation.RuleNotSettable, "is recorded when the decision is made"))
	}
	if r.DecidedAt.Set {
		vs.Add(validation.Shape("decidedAt", validation.RuleNotSettable, "is recorded when the decision is made"))
	}

	if len(vs) > 0 {
		return nil, vs
	}
	return in, nil
}

// UpdateDecisionRequest is the inbound partial update payload.
type UpdateDecisionRequest struct {
	ProjectID   validation.Opt[string]   `json:"projectId"`
	Description validation.Opt[string]   `json:"description"`
	Context     validation.Opt[string]   `json:"context"`
	DecidedBy   validation.Opt[string]   `json:"decidedBy"`
	Outcome     validation.Opt[string]   `json:"outcome"`
	DecidedAt   validation.Opt[string]   `json:"decidedAt"`
	Status      validation.Opt[string]   `json:"status"`
	Tags        validation.Opt[[]string] `json:"tags"`
}

// DecisionPatch is a validated update. Nil fields were absent.
type DecisionPatch struct {
	ProjectID   *domain.ProjectID      `json:"projectId,omitempty"`
	Description *string                `json:"description,omitempty"`
	Context     *string                `json:"context,omitempty"`
	DecidedBy   *string                `json:"decidedBy,omitempty"`
	Outcome     *string                `json:"outcome,omitempty"`
	DecidedAt   *time.Time             `json:"decidedAt,omitempty"`
	Status      *domain.DecisionStatus `json:"status,omitempty"`
	Tags        *[]string              `json:"tags,omitempty"`
}

func (p *DecisionPatch) IsEmpty() bool {
	return *p == DecisionPatch{}
}

func (r *UpdateDecisionRequest) Normalize() {
	trim(&r.ProjectID)
	trim(&r.Description)
	trim(&r.Context)
	trim(&r.DecidedBy)
	trim(&r.Outcome)
	trim(&r.Status)
	if r.Tags.Ok() {
		r.Tags.Value = strs.TrimNonBlank(r.Tags.Value)
	}
}

func (r *UpdateDecisionRequest) Validate() (*DecisionPatch, validation.Violations) {
	var vs validation.Violations
	patch := &DecisionPatch{}

	if validation.Present(&vs, "projectId", r.ProjectID) &&
		validation.Check(&vs, "projectId", r.ProjectID.Value, validation.Identifier()) {
		id := domain.ProjectID(r.ProjectID.Value)
		patch.ProjectID = &id
	}
	if validation.Present(&vs, "description", r.Description) &&
		validation.Check(&vs, "description", r.Description.Value, validation.NonBlank()) {
		patch.Description = r.Description.Ptr()
	}
	if validation.Present(&vs, "context", r.Context) {
		patch.Context = r.Context.Ptr()
	}
	if validation.Present(&vs, "decidedBy", r.DecidedBy) &&
		validation.Check(&vs, "decidedBy", r.DecidedBy.Value, validation.Identifier()) {
		patch.DecidedBy = r.DecidedBy.Ptr()
	}
	if validation.Present(&vs, "outcome", r.Outcome) &&
		validation.Check(&vs, "outcome", r.Outcome.Value, validation.NonBlank()) {
		patch.Outcome = r.Outcome.Ptr()
	}
	if validation.Present(&vs, "decidedAt", r.DecidedAt) {
		if t, ok := validation.Timestamp(&vs, "decidedAt", r.DecidedAt.Value); ok {
			patch.DecidedAt = &t
		}
	}
	if validation.Present(&vs, "status", r.Status) &&
		validation.Check(&vs, "status", r.Status.Value, validation.Enum(domain.DecisionStatuses()...)) {
		s := domain.DecisionStatus(r.Status.Value)
		patch.Status = &s
	}
	if validation.Present(&vs, "tags", r.Tags) {
		tags := r.Tags.Value
		if tags == nil {
			tags = []string{}
		}
		patch.Tags = &tags
	}

	if len(vs) > 0 {
		return nil, vs
	}
	return patch, nil
}

// DecodeCreateDecision runs a raw payload through the create contract.
func DecodeCreateDecision(payload any) (*DecisionInput, validation.Violations) {
	var req CreateDecisionRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

// DecodeUpdateDecision runs a raw payload through the update contract.
func DecodeUpdateDecision(payload any) (*DecisionPatch, validation.Violations) {
	var req UpdateDecisionRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

func trim(o *validation.Opt[string]) {
	if o.Ok() {
		o.Value = strings.TrimSpace(o.Value)
	}
}
