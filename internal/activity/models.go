package activity

import (
	"time"

	"statusline/pkg/domain"
)

// Entity names the kind of record an event is about.
type Entity string

const (
	EntityProject  Entity = "project"
	EntityRisk     Entity = "risk"
	EntityDecision Entity = "decision"
)

// Action is what happened to the record.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionStatusChanged Action = "status_changed"
	ActionDeleted       Action = "deleted"
)

// Event is emitted by the services after a write succeeds. It feeds the
// per-project activity feed that report generation reads from. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         string           `json:"id"`
	ProjectID  domain.ProjectID `json:"projectId"`
	Entity     Entity           `json:"entity"`
	EntityID   string           `json:"entityId"`
	Action     Action           `json:"action"`
	FromStatus string           `json:"fromStatus,omitempty"`
	ToStatus   string           `json:"toStatus,omitempty"`
	RequestID  string           `json:"requestId,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}
