package store

import (
	"context"
	"sort"
	"sync"

	"statusline/internal/project/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
)

// InMemoryStore keeps projects in a map, cloning records at the boundary.
type InMemoryStore struct {
	mu       sync.RWMutex
	projects map[domain.ProjectID]*models.Project
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{projects: make(map[domain.ProjectID]*models.Project)}
}

func (s *InMemoryStore) Create(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; ok {
		return sentinel.ErrConflict
	}
	s.projects[project.ID] = project.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ProjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return project.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.projects[project.ID] = project.Clone()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, q *models.ListProjectsQuery) ([]*models.Project, int, error) {
	s.mu.RLock()
	matched := make([]*models.Project, 0)
	for _, project := range s.projects {
		if q.Matches(project) {
			matched = append(matched, project.Clone())
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
