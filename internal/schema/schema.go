// Package schema runs a raw payload through the contract of one entity and
// operation without touching storage. It backs the offline validator CLI.
package schema

import (
	"fmt"

	decision "statusline/internal/decision/models"
	project "statusline/internal/project/models"
	risk "statusline/internal/risk/models"
	"statusline/pkg/domain"
	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/validation"
)

type Entity string

const (
	EntityProject  Entity = "project"
	EntityRisk     Entity = "risk"
	EntityDecision Entity = "decision"
)

func Entities() []Entity {
	return []Entity{EntityProject, EntityRisk, EntityDecision}
}

type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationList   Operation = "list"
)

func Operations() []Operation {
	return []Operation{OperationCreate, OperationUpdate, OperationList}
}

// Request names the contract to apply. CurrentStatus is only read for
// updates; when set, the patch is also judged as a status change from it
// under Policy.
type Request struct {
	Entity        Entity
	Operation     Operation
	Payload       any
	CurrentStatus string
	Policy        domain.TransitionPolicy
}

// Validate returns the normalized value for the payload: a create input, an
// update patch or a list query. Failures carry validation.Violations.
func Validate(req Request) (any, error) {
	var vs validation.Violations
	validation.Check(&vs, "entity", string(req.Entity), validation.Enum(Entities()...))
	validation.Check(&vs, "operation", string(req.Operation), validation.Enum(Operations()...))
	if len(vs) > 0 {
		return nil, dErrors.Wrap(vs, dErrors.CodeBadRequest, "unknown contract")
	}

	switch req.Entity {
	case EntityProject:
		return validateProject(req)
	case EntityRisk:
		return validateRisk(req)
	default:
		return validateDecision(req)
	}
}

func validateProject(req Request) (any, error) {
	switch req.Operation {
	case OperationCreate:
		return result(project.DecodeCreateProject(req.Payload))
	case OperationUpdate:
		if req.CurrentStatus != "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "projects have no status")
		}
		return result(project.DecodeUpdateProject(req.Payload))
	default:
		return result(project.DecodeListProjects(req.Payload))
	}
}

func validateRisk(req Request) (any, error) {
	switch req.Operation {
	case OperationCreate:
		return result(risk.DecodeCreateRisk(req.Payload))
	case OperationList:
		return result(risk.DecodeListRisks(req.Payload))
	}

	patch, vs := risk.DecodeUpdateRisk(req.Payload)
	if len(vs) > 0 || req.CurrentStatus == "" {
		return result(patch, vs)
	}
	var current validation.Violations
	if !validation.Check(&current, "currentStatus", req.CurrentStatus, validation.Enum(domain.RiskStatuses()...)) {
		return nil, current.Err(fmt.Sprintf("invalid %s payload", EntityRisk))
	}
	record := &risk.Risk{Status: domain.RiskStatus(req.CurrentStatus)}
	return result(patch, record.CheckPatch(patch, req.Policy))
}

func validateDecision(req Request) (any, error) {
	switch req.Operation {
	case OperationCreate:
		return result(decision.DecodeCreateDecision(req.Payload))
	case OperationList:
		return result(decision.DecodeListDecisions(req.Payload))
	}

	patch, vs := decision.DecodeUpdateDecision(req.Payload)
	if len(vs) > 0 || req.CurrentStatus == "" {
		return result(patch, vs)
	}
	var current validation.Violations
	if !validation.Check(&current, "currentStatus", req.CurrentStatus, validation.Enum(domain.DecisionStatuses()...)) {
		return nil, current.Err(fmt.Sprintf("invalid %s payload", EntityDecision))
	}
	record := &decision.Decision{Status: domain.DecisionStatus(req.CurrentStatus)}
	return result(patch, record.CheckPatch(patch, req.Policy))
}

func result[T any](value *T, vs validation.Violations) (any, error) {
	if len(vs) > 0 {
		return nil, vs.Err("payload rejected")
	}
	return value, nil
}
