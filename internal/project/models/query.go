package models

import (
	"net/url"

	"statusline/pkg/domain"
	"statusline/pkg/platform/validation"
)

// ListProjectsRequest is the inbound list query. Projects are always listed
// for one master profile.
type ListProjectsRequest struct {
	MasterProfileID validation.Opt[string] `json:"masterProfileId"`
	Limit           validation.Opt[int]    `json:"limit"`
	Offset          validation.Opt[int]    `json:"offset"`
}

type ListProjectsQuery struct {
	MasterProfileID domain.ProfileID `json:"masterProfileId"`
	validation.Page
}

func ListProjectsRequestFromValues(values url.Values) (ListProjectsRequest, validation.Violations) {
	var vs validation.Violations
	req := ListProjectsRequest{
		MasterProfileID: validation.QueryString(values, "masterProfileId"),
		Limit:           validation.QueryInt(&vs, values, "limit"),
		Offset:          validation.QueryInt(&vs, values, "offset"),
	}
	return req, vs
}

func (r *ListProjectsRequest) Normalize() {
	trim(&r.MasterProfileID)
}

func (r *ListProjectsRequest) Validate() (*ListProjectsQuery, validation.Violations) {
	var vs validation.Violations
	q := &ListProjectsQuery{}
	if validation.Require(&vs, "masterProfileId", r.MasterProfileID) &&
		validation.Check(&vs, "masterProfileId", r.MasterProfileID.Value, validation.Identifier()) {
		q.MasterProfileID = domain.ProfileID(r.MasterProfileID.Value)
	}
	q.Page = validation.CheckPage(&vs, r.Limit, r.Offset)

	if len(vs) > 0 {
		return nil, vs
	}
	return q, nil
}

// DecodeListProjects runs a JSON payload through the list contract.
func DecodeListProjects(payload any) (*ListProjectsQuery, validation.Violations) {
	var req ListProjectsRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

func (q *ListProjectsQuery) Matches(p *Project) bool {
	return p.MasterProfileID == q.MasterProfileID
}
