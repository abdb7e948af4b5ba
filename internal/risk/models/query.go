package models

import (
	"fmt"
	"net/url"

	"statusline/pkg/domain"
	"statusline/pkg/platform/validation"
)

// ListRisksRequest is the inbound list query, from URL values or JSON.
type ListRisksRequest struct {
	ProjectID validation.Opt[string]   `json:"projectId"`
	Status    validation.Opt[[]string] `json:"status"`
	Severity  validation.Opt[[]string] `json:"severity"`
	Limit     validation.Opt[int]      `json:"limit"`
	Offset    validation.Opt[int]      `json:"offset"`
}

// ListRisksQuery is a validated list query. Empty filters match everything;
// a non-empty filter matches any of its members.
type ListRisksQuery struct {
	ProjectID  domain.ProjectID    `json:"projectId"`
	Statuses   []domain.RiskStatus `json:"status,omitempty"`
	Severities []domain.Severity   `json:"severity,omitempty"`
	validation.Page
}

// ListRisksRequestFromValues reads a request from URL query values. Integer
// parse failures are returned as violations.
func ListRisksRequestFromValues(values url.Values) (ListRisksRequest, validation.Violations) {
	var vs validation.Violations
	req := ListRisksRequest{
		ProjectID: validation.QueryString(values, "projectId"),
		Status:    validation.QueryList(values, "status"),
		Severity:  validation.QueryList(values, "severity"),
		Limit:     validation.QueryInt(&vs, values, "limit"),
		Offset:    validation.QueryInt(&vs, values, "offset"),
	}
	return req, vs
}

func (r *ListRisksRequest) Normalize() {
	trim(&r.ProjectID)
	if r.Status.Ok() {
		r.Status.Value = dedupe(r.Status.Value)
	}
	if r.Severity.Ok() {
		r.Severity.Value = dedupe(r.Severity.Value)
	}
}

// Validate rejects unknown filter values and out-of-range pages before any
// query runs.
func (r *ListRisksRequest) Validate() (*ListRisksQuery, validation.Violations) {
	var vs validation.Violations
	q := &ListRisksQuery{}

	if validation.Require(&vs, "projectId", r.ProjectID) &&
		validation.Check(&vs, "projectId", r.ProjectID.Value, validation.Identifier()) {
		q.ProjectID = domain.ProjectID(r.ProjectID.Value)
	}
	if validation.Present(&vs, "status", r.Status) {
		q.Statuses = enumFilter[domain.RiskStatus](&vs, "status", r.Status.Value, domain.RiskStatuses())
	}
	if validation.Present(&vs, "severity", r.Severity) {
		q.Severities = enumFilter[domain.Severity](&vs, "severity", r.Severity.Value, domain.Severities())
	}
	q.Page = validation.CheckPage(&vs, r.Limit, r.Offset)

	if len(vs) > 0 {
		return nil, vs
	}
	return q, nil
}

// DecodeListRisks runs a JSON payload through the list contract.
func DecodeListRisks(payload any) (*ListRisksQuery, validation.Violations) {
	var req ListRisksRequest
	if vs := validation.Decode(payload, &req); len(vs) > 0 {
		return nil, vs
	}
	req.Normalize()
	return req.Validate()
}

// Matches reports whether r passes the query filters. Pagination is not
// considered.
func (q *ListRisksQuery) Matches(r *Risk) bool {
	if r.ProjectID != q.ProjectID {
		return false
	}
	return anyOf(q.Statuses, r.Status) && anyOf(q.Severities, r.Severity)
}

func enumFilter[T ~string](vs *validation.Violations, field string, values []string, allowed []T) []T {
	rule := validation.Enum(allowed...)
	out := make([]T, 0, len(values))
	for i, v := range values {
		if validation.Check(vs, fmt.Sprintf("%s[%d]", field, i), v, rule) {
			out = append(out, T(v))
		}
	}
	return out
}

func anyOf[T comparable](filter []T, v T) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if f == v {
			return true
		}
	}
	return false
}
