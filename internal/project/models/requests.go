package models

import (
	"strings"

	"statusline/pkg/domain"
	strs "statusline/pkg/platform/strings"
	"statusline/pkg/platform/validation"
)

// CreateProjectRequest is the inbound create payload.
type CreateProjectRequest struct {
	Name            validation.Opt[string]   `json:"name"`
	Description     validation.Opt[string]   `json:"description"`
	MasterProfileID validation.Opt[string]   `json:"masterProfileId"`
	Objectives      validation.Opt[[]string] `json:"objectives"`
	SponsorName     validation.Opt[string]   `json:"sponsorName"`
	SponsorRole     validation.Opt[string]   `json:"sponsorRole"`
	SponsorEmail    validation.Opt[string]   `json:"sponsorEmail"`
}

// ProjectInput is a validated create payload with defaults applied.
type ProjectInput struct {
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	MasterProfileID domain.ProfileID `json:"masterProfileId"`
	Objectives      []string         `json:"objectives"`
	SponsorName     *string          `json:"sponsorName,omitempty"`
	SponsorRole     *string          `json:"sponsorRole,omitempty"`
	SponsorEmail    *string          `json:"sponsorEmail,omitempty"`
}

func (r *CreateProjectRequest) Normalize() {
	trim(&r.Name)
	trim(&r.Description)
	trim(&r.MasterProfileID)
	trim(&r.SponsorName)
	trim(&r.SponsorRole)
	trim(&r.SponsorEmail)
	if r.Objectives.Ok() {
		r.Objectives.Value = strs.TrimNonBlank(r.Objectives.Value)
	}
}

func (r *CreateProjectRequest) Validate() (*ProjectInput, validation.Violations) {
	var vs validation.Violations
	in := &ProjectInput{Objectives: []string{}}

	if validation.Require(&vs, "name", r.Name) &&
		validation.Check(&vs, "name", r.Name.Value, validation.NonBlank(), validation.MaxLen(MaxNameLength)) {
		in.Name = r.Name.Value
	}
	if validation.Present(&vs, "description", r.Description) {
		in.Description = r.Description.Ptr()
	}
	if validation.Require(&vs, "masterProfileId", r.MasterProfileID) &&
		validation.Check(&vs, "masterProfileId", r.MasterProfileID.Value, validation.Identifier()) {
		in.MasterProfileID = domain.ProfileID(r.MasterProfileID.Value)
	}
	if validation.Present(&vs, "objectives", r.Objectives) && checkObjectives(&vs, r.Objectives.Value) {
		in.Objectives = r.Objectives.Value
	}
	if validation.Present(&vs, "sponsorName", r.SponsorName) {
		in.SponsorName = r.SponsorName.Ptr()
	}
	if validation.Present(&vs, "sponsorRole", r.SponsorRole) {
		in.SponsorRole = r.SponsorRole.Ptr()
	}
	if validation.Present(&vs, "sponsorEmail", r.SponsorEmail) &&
		validation.Check(&vs, "sponsorEmail", r.SponsorEmail.Value, validation.EmailOrEmpty()) {
		in.SponsorEmail = r.SponsorEmail.Ptr()
	}

	if len(vs) > 0 {
		return nil, vs
	}
	return in, nil
}

// UpdateProjectRequest is the inbound partial update payload.
type UpdateProjectRequest struct {
	Name            validation.Opt[string]   `json:"name"`
	Description     validation.Opt[string]   `json:"description"`
	MasterProfileID validation.Opt[string]   `json:"masterProfileId"`
	Objectives      validation.Opt[[]string] `json:"objectives"`
	SponsorName     validation.Opt[string]   `json:"sponsorName"`
	SponsorRole     validation.Opt[string]   `json:"sponsorRole"`
	SponsorEmail    validation.Opt[string]   `json:"sponsorEmail"`
}

// ProjectPatch is a validated update. Nil fields were absent.
type ProjectPatch struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	MasterProfileID *domain.ProfileID `json:"masterProfileId,omitempty"`
	Objectives      *[]string         `json:"objectives,omitempty"`
	SponsorName     *string           `json:"sponsorName,omitempty"`
	SponsorRole     *string           `json:"sponsorRole,omitempty"`
	SponsorEmail    *string           `json:"sponsorEmail,omitempty"`
}

func (p *ProjectPatch) IsEmpty() bool {
	return *p == ProjectPatch{}
}

func (r *UpdateProjectRequest) Normalize() {
	trim(&r.Name)
	trim(&r.Description)
	trim(&r.MasterProfileID)
	trim(&r.SponsorName)
	trim(&r.SponsorRole)
	trim(&r.SponsorEmail)
	if r.Objectives.Ok() {
		r.Objectives.Value = strs.TrimNonBlank(r.Objectives.Value)
	}
}

func (r *UpdateProjectRequest) Validate() (*ProjectPatch, validation.Violations) {
	var vs validation.Violations
	patch := &ProjectPatch{}

	if validation.Present(&vs, "name", r.Name) &&
		validation.Check(&vs, "name", r.Name.Value, validation.NonBlank(), validation.MaxLen(MaxNameLength)) {
		patch.Name = r.Name.Ptr()
	}
	if validation.Present(&vs, "description", r.Description) {
		patch.Description = r.Description.Ptr()
	}
	if validation.Present(&vs, "masterProfileId", r.MasterProfileID) &&
		validation.Check(&vs, "masterProfileId", r.MasterProfileID.Value, validation.Identifier()) {
		id := domain.ProfileID(r.MasterProfileID.Value)
		patch.MasterProfileID = &id
	}
	if validation.Present(&vs, "objectives", r.Objectives) && checkObjectives(&vs, r.Objectives.Value) {
		objectives := r.Objectives.Value
		if objectives == nil {
			objectives = []string{}
		}
		patch.Objectives = &objectives
	}
	if validation.Present(&vs, "sponsorName", r.SponsorName) {
		patch.SponsorName = r.SponsorName.Ptr()
	}
	if validation.Present(&vs, "sponsorRole", r.SponsorRole) {
		patch.SponsorRole = r.SponsorRole.Ptr()
	}
	if validation.Present(&vs, "sponsorEmail", r.SponsorEmail) &&
		validation.Check(&vs, "sponsorEmail", r.SponsorEmail.Value, validation.EmailOrEmpty()) {
		patch.SponsorEmail = r.SponsorEmail.Ptr()
	}

	if len(vs) > 0 {
		return nil, vs
	}
	return patch, nil
}

func DecodeCreateProject(payload any) (*ProjectInput, validation.Violations) {
	var req CreateProjectRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

func DecodeUpdateProject(payload any) (*ProjectPatch, validation.Violations) {
	var req UpdateProjectRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

func checkObjectives(vs *validation.Violations, objectives []string) bool {
	return validation.Check(vs, "objectives", objectives,
		validation.MaxItems[string](MaxObjectives),
		validation.Each(validation.MaxLen(MaxObjectiveLength)),
	)
}

func trim(o *validation.Opt[string]) {
	if o.Ok() {
		o.Value = strings.TrimSpace(o.Value)
	}
}
