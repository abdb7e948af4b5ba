package models

import (
	"time"

	"statusline/pkg/domain"
)

// Field limits for projects.
const (
	MaxNameLength      = 100
	MaxObjectives      = 50
	MaxObjectiveLength = 500
)

// Project is the aggregate root: risks and decisions belong to exactly one
// project and go with it when it is deleted. Projects have no lifecycle.
type Project struct {
	ID              domain.ProjectID `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	MasterProfileID domain.ProfileID `json:"masterProfileId"`
	Objectives      []string         `json:"objectives"`
	SponsorName     *string          `json:"sponsorName,omitempty"`
	SponsorRole     *string          `json:"sponsorRole,omitempty"`
	// SponsorEmail keeps "" as a value meaning "no email on file".
	SponsorEmail *string   `json:"sponsorEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewProject(id domain.ProjectID, in *ProjectInput, now time.Time) *Project {
	return &Project{
		ID:              id,
		Name:            in.Name,
		Description:     copyString(in.Description),
		MasterProfileID: in.MasterProfileID,
		Objectives:      append([]string{}, in.Objectives...),
		SponsorName:     copyString(in.SponsorName),
		SponsorRole:     copyString(in.SponsorRole),
		SponsorEmail:    copyString(in.SponsorEmail),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (p *Project) Clone() *Project {
	c := *p
	c.Description = copyString(p.Description)
	c.Objectives = append([]string{}, p.Objectives...)
	c.SponsorName = copyString(p.SponsorName)
	c.SponsorRole = copyString(p.SponsorRole)
	c.SponsorEmail = copyString(p.SponsorEmail)
	return &c
}

// ApplyPatch copies the present patch fields onto p.
func (p *Project) ApplyPatch(patch *ProjectPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = copyString(patch.Description)
	}
	if patch.MasterProfileID != nil {
		p.MasterProfileID = *patch.MasterProfileID
	}
	if patch.Objectives != nil {
		p.Objectives = append([]string{}, (*patch.Objectives)...)
	}
	if patch.SponsorName != nil {
		p.SponsorName = copyString(patch.SponsorName)
	}
	if patch.SponsorRole != nil {
		p.SponsorRole = copyString(patch.SponsorRole)
	}
	if patch.SponsorEmail != nil {
		p.SponsorEmail = copyString(patch.SponsorEmail)
	}
	p.UpdatedAt = now
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
