package models

import (
	"strings"
	"time"

	"statusline/pkg/domain"
	strs "statusline/pkg/platform/strings"
	"statusline/pkg/platform/validation"
)

// CreateRiskRequest is the inbound create payload. Fields are optional at the
// type level so absence, null and wrong types can be reported per field.
type CreateRiskRequest struct {
	ProjectID   validation.Opt[string]   `json:"projectId"`
	Description validation.Opt[string]   `json:"description"`
	Impact      validation.Opt[string]   `json:"impact"`
	Mitigation  validation.Opt[string]   `json:"mitigation"`
	Severity    validation.Opt[string]   `json:"severity"`
	Status      validation.Opt[string]   `json:"status"`
	ReviewDate  validation.Opt[string]   `json:"reviewDate"`
	ResolvedAt  validation.Opt[string]   `json:"resolvedAt"`
	Tags        validation.Opt[[]string] `json:"tags"`
}

// RiskInput is a validated create payload with defaults applied.
type RiskInput struct {
	ProjectID   domain.ProjectID  `json:"projectId"`
	Description string            `json:"description"`
	Impact      string            `json:"impact"`
	Mitigation  *string           `json:"mitigation,omitempty"`
	Severity    domain.Severity   `json:"severity"`
	Status      domain.RiskStatus `json:"status"`
	ReviewDate  *time.Time        `json:"reviewDate,omitempty"`
	Tags        []string          `json:"tags"`
}

// Normalize trims text fields and de-duplicates tags.
func (r *CreateRiskRequest) Normalize() {
	trim(&r.ProjectID)
	trim(&r.Description)
	trim(&r.Impact)
	trim(&r.Mitigation)
	trim(&r.Severity)
	trim(&r.Status)
	if r.Tags.Ok() {
		r.Tags.Value = strs.DedupeAndTrim(r.Tags.Value)
	}
}

// Validate checks every field and returns the normalized input. Call
// Normalize first.
func (r *CreateRiskRequest) Validate() (*RiskInput, validation.Violations) {
	var vs validation.Violations
	in := &RiskInput{Status: domain.RiskStatusOpen, Tags: []string{}}

	if validation.Require(&vs, "projectId", r.ProjectID) &&
		validation.Check(&vs, "projectId", r.ProjectID.Value, validation.Identifier()) {
		in.ProjectID = domain.ProjectID(r.ProjectID.Value)
	}
	if validation.Require(&vs, "description", r.Description) &&
		validation.Check(&vs, "description", r.Description.Value, validation.NonBlank()) {
		in.Description = r.Description.Value
	}
	if validation.Require(&vs, "impact", r.Impact) &&
		validation.Check(&vs, "impact", r.Impact.Value, validation.NonBlank()) {
		in.Impact = r.Impact.Value
	}
	if validation.Present(&vs, "mitigation", r.Mitigation) {
		in.Mitigation = r.Mitigation.Ptr()
	}
	if validation.Require(&vs, "severity", r.Severity) &&
		validation.Check(&vs, "severity", r.Severity.Value, validation.Enum(domain.Severities()...)) {
		in.Severity = domain.Severity(r.Severity.Value)
	}
	if validation.Present(&vs, "reviewDate", r.ReviewDate) {
		if t, ok := validation.Timestamp(&vs, "reviewDate", r.ReviewDate.Value); ok {
			in.ReviewDate = &t
		}
	}
	if validation.Present(&vs, "tags", r.Tags) {
		in.Tags = r.Tags.Value
	}

	// A record that already carries its initial status round-trips.
	if r.Status.Set && (r.Status.Null || r.Status.Value != string(domain.RiskStatusOpen)) {
		vs.Add(validation.Shape("status", validation.RuleNotSettable, "is set by the lifecycle; new risks start OPEN"))
	}
	if r.ResolvedAt.Set {
		vs.Add(validation.Shape("resolvedAt", validation.RuleNotSettable, "is set when the risk reaches a terminal status"))
	}

	if len(vs) > 0 {
		return nil, vs
	}
	return in, nil
}

// UpdateRiskRequest is the inbound partial update payload.
type UpdateRiskRequest struct {
	ProjectID   validation.Opt[string]   `json:"projectId"`
	Description validation.Opt[string]   `json:"description"`
	Impact      validation.Opt[string]   `json:"impact"`
	Mitigation  validation.Opt[string]   `json:"mitigation"`
	Severity    validation.Opt[string]   `json:"severity"`
	Status      validation.Opt[string]   `json:"status"`
	ReviewDate  validation.Opt[string]   `json:"reviewDate"`
	ResolvedAt  validation.Opt[string]   `json:"resolvedAt"`
	Tags        validation.Opt[[]string] `json:"tags"`
}

// RiskPatch is a validated update. Nil fields were absent and must be left
// untouched.
type RiskPatch struct {
	ProjectID   *domain.ProjectID  `json:"projectId,omitempty"`
	Description *string            `json:"description,omitempty"`
	Impact      *string            `json:"impact,omitempty"`
	Mitigation  *string            `json:"mitigation,omitempty"`
	Severity    *domain.Severity   `json:"severity,omitempty"`
	Status      *domain.RiskStatus `json:"status,omitempty"`
	ReviewDate  *time.Time         `json:"reviewDate,omitempty"`
	ResolvedAt  *time.Time         `json:"resolvedAt,omitempty"`
	Tags        *[]string          `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *RiskPatch) IsEmpty() bool {
	return *p == RiskPatch{}
}

func (r *UpdateRiskRequest) Normalize() {
	trim(&r.ProjectID)
	trim(&r.Description)
	trim(&r.Impact)
	trim(&r.Mitigation)
	trim(&r.Severity)
	trim(&r.Status)
	if r.Tags.Ok() {
		r.Tags.Value = strs.DedupeAndTrim(r.Tags.Value)
	}
}

// Validate applies the create rules to every present field. Nothing is
// defaulted.
func (r *UpdateRiskRequest) Validate() (*RiskPatch, validation.Violations) {
	var vs validation.Violations
	patch := &RiskPatch{}

	if validation.Present(&vs, "projectId", r.ProjectID) &&
		validation.Check(&vs, "projectId", r.ProjectID.Value, validation.Identifier()) {
		id := domain.ProjectID(r.ProjectID.Value)
		patch.ProjectID = &id
	}
	if validation.Present(&vs, "description", r.Description) &&
		validation.Check(&vs, "description", r.Description.Value, validation.NonBlank()) {
		patch.Description = r.Description.Ptr()
	}
	if validation.Present(&vs, "impact", r.Impact) &&
		validation.Check(&vs, "impact", r.Impact.Value, validation.NonBlank()) {
		patch.Impact = r.Impact.Ptr()
	}
	if validation.Present(&vs, "mitigation", r.Mitigation) {
		patch.Mitigation = r.Mitigation.Ptr()
	}
	if validation.Present(&vs, "severity", r.Severity) &&
		validation.Check(&vs, "severity", r.Severity.Value, validation.Enum(domain.Severities()...)) {
		s := domain.Severity(r.Severity.Value)
		patch.Severity = &s
	}
	if validation.Present(&vs, "status", r.Status) &&
		validation.Check(&vs, "status", r.Status.Value, validation.Enum(domain.RiskStatuses()...)) {
		s := domain.RiskStatus(r.Status.Value)
		patch.Status = &s
	}
	if validation.Present(&vs, "reviewDate", r.ReviewDate) {
		if t, ok := validation.Timestamp(&vs, "reviewDate", r.ReviewDate.Value); ok {
			patch.ReviewDate = &t
		}
	}
	if validation.Present(&vs, "resolvedAt", r.ResolvedAt) {
		if t, ok := validation.Timestamp(&vs, "resolvedAt", r.ResolvedAt.Value); ok {
			patch.ResolvedAt = &t
		}
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

// DecodeCreateRisk runs a raw payload through the create contract.
func DecodeCreateRisk(payload any) (*RiskInput, validation.Violations) {
	var req CreateRiskRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

// DecodeUpdateRisk runs a raw payload through the update contract.
func DecodeUpdateRisk(payload any) (*RiskPatch, validation.Violations) {
	var req UpdateRiskRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

func dedupe(values []string) []string {
	return strs.DedupeAndTrim(values)
}

func trim(o *validation.Opt[string]) {
	if o.Ok() {
		o.Value = strings.TrimSpace(o.Value)
	}
}
