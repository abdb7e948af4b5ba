package store

import (
	"context"
	"sort"
	"sync"

	"statusline/internal/decision/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
)

// InMemoryStore keeps decisions in a map, cloning on every boundary.
type InMemoryStore struct {
	mu        sync.RWMutex
	decisions map[domain.DecisionID]*models.Decision
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{decisions: make(map[domain.DecisionID]*models.Decision)}
}

func (s *InMemoryStore) Create(_ context.Context, decision *models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decisions[decision.ID]; ok {
		return sentinel.ErrConflict
	}
	s.decisions[decision.ID] = decision.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.DecisionID) (*models.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decision, ok := s.decisions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return decision.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, decision *models.Decision, expected domain.DecisionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.decisions[decision.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Status != expected {
		return sentinel.ErrConflict
	}
	s.decisions[decision.ID] = decision.Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.DecisionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decisions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.decisions, id)
	return nil
}

func (s *InMemoryStore) DeleteByProject(_ context.Context, projectID domain.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, decision := range s.decisions {
		if decision.ProjectID == projectID {
			delete(s.decisions, id)
		}
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q *models.ListDecisionsQuery) ([]*models.Decision, int, error) {
	s.mu.RLock()
	matched := make([]*models.Decision, 0)
	for _, decision := range s.decisions {
		if q.Matches(decision) {
			matched = append(matched, decision.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return validation.Window(matched, q.Page), len(matched), nil
}
