package activity

import (
	"context"
	"sync"

	"statusline/pkg/domain"
)

// InMemoryStore keeps the newest maxLen events per project.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.ProjectID][]Event
	maxLen int
}

func NewInMemoryStore(maxLen int) *InMemoryStore {
	if maxLen <= 0 {
		maxLen = 1000
	}
	return &InMemoryStore{events: make(map[domain.ProjectID][]Event), maxLen: maxLen}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.events[event.ProjectID], event)
	if len(list) > s.maxLen {
		list = list[len(list)-s.maxLen:]
	}
	s.events[event.ProjectID] = list
	return nil
}

func (s *InMemoryStore) ListByProject(_ context.Context, projectID domain.ProjectID, limit int) ([]Event, error) {
	if limit <= 0 {
		return []Event{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.events[projectID]
	out := make([]Event, 0, min(limit, len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
