package store

import (
	"context"
	"sort"
	"sync"

	"statusline/internal/risk/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
)

// InMemoryStore keeps risks in a map. Records are cloned on the way in and
// out so callers never share state with the store.
type InMemoryStore struct {
	mu    sync.RWMutex
	risks map[domain.RiskID]*models.Risk
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{risks: make(map[domain.RiskID]*models.Risk)}
}

func (s *InMemoryStore) Create(_ context.Context, risk *models.Risk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[risk.ID]; ok {
		return sentinel.ErrConflict
	}
	s.risks[risk.ID] = risk.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.RiskID) (*models.Risk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	risk, ok := s.risks[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return risk.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, risk *models.Risk, expected domain.RiskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.risks[risk.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if current.Status != expected {
		return sentinel.ErrConflict
	}
	s.risks[risk.ID] = risk.Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.RiskID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.risks, id)
	return nil
}

// DeleteByProject removes every risk owned by projectID.
func (s *InMemoryStore) DeleteByProject(_ context.Context, projectID domain.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, risk := range s.risks {
		if risk.ProjectID == projectID {
			delete(s.risks, id)
		}
	}
	return nil
}

// List returns the requested page of matching risks, newest first, and the
// number of matches overall.
func (s *InMemoryStore) List(_ context.Context, q *models.ListRisksQuery) ([]*models.Risk, int, error) {
	s.mu.RLock()
	matched := make([]*models.Risk, 0)
	for _, risk := range s.risks {
		if q.Matches(risk) {
			matched = append(matched, risk.Clone())
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
