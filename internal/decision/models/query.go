package models

import (
	"fmt"
	"net/url"

	"statusline/pkg/domain"
	strs "statusline/pkg/platform/strings"
	"statusline/pkg/platform/validation"
)

// ListDecisionsRequest is the inbound list query.
type ListDecisionsRequest struct {
	ProjectID validation.Opt[string]   `json:"projectId"`
	Status    validation.Opt[[]string] `json:"status"`
	Limit     validation.Opt[int]      `json:"limit"`
	Offset    validation.Opt[int]      `json:"offset"`
}

// ListDecisionsQuery is a validated list query. An empty status filter
// matches every decision.
type ListDecisionsQuery struct {
	ProjectID domain.ProjectID        `json:"projectId"`
	Statuses  []domain.DecisionStatus `json:"status,omitempty"`
	validation.Page
}

func ListDecisionsRequestFromValues(values url.Values) (ListDecisionsRequest, validation.Violations) {
	var vs validation.Violations
	req := ListDecisionsRequest{
		ProjectID: validation.QueryString(values, "projectId"),
		Status:    validation.QueryList(values, "status"),
		Limit:     validation.QueryInt(&vs, values, "limit"),
		Offset:    validation.QueryInt(&vs, values, "offset"),
	}
	return req, vs
}

func (r *ListDecisionsRequest) Normalize() {
	trim(&r.ProjectID)
	if r.Status.Ok() {
		r.Status.Value = strs.DedupeAndTrim(r.Status.Value)
	}
}

func (r *ListDecisionsRequest) Validate() (*ListDecisionsQuery, validation.Violations) {
	var vs validation.Violations
	q := &ListDecisionsQuery{}

	if validation.Require(&vs, "projectId", r.ProjectID) &&
		validation.Check(&vs, "projectId", r.ProjectID.Value, validation.Identifier()) {
		q.ProjectID = domain.ProjectID(r.ProjectID.Value)
	}
	if validation.Present(&vs, "status", r.Status) {
		rule := validation.Enum(domain.DecisionStatuses()...)
		for i, v := range r.Status.Value {
			if validation.Check(&vs, fmt.Sprintf("status[%d]", i), v, rule) {
				q.Statuses = append(q.Statuses, domain.DecisionStatus(v))
			}
		}
	}
	q.Page = validation.CheckPage(&vs, r.Limit, r.Offset)

	if len(vs) > 0 {
		return nil, vs
	}
	return q, nil
}

// DecodeListDecisions runs a JSON payload through the list contract.
func DecodeListDecisions(payload any) (*ListDecisionsQuery, validation.Violations) {
	var req ListDecisionsRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

// Matches reports whether d passes the query filters.
func (q *ListDecisionsQuery) Matches(d *Decision) bool {
	if d.ProjectID != q.ProjectID {
		return false
	}
	if len(q.Statuses) == 0 {
		return true
	}
	for _, s := range q.Statuses {
		if s == d.Status {
			return true
		}
	}
	return false
}
