package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"statusline/internal/project/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	base  time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) newProject(id, profile string, minute int) *models.Project {
	at := s.base.Add(time.Duration(minute) * time.Minute)
	return &models.Project{
		ID:              domain.ProjectID(id),
		Name:            "Project " + id,
		MasterProfileID: domain.ProfileID(profile),
		Objectives:      []string{"ship"},
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

func (s *InMemoryStoreSuite) TestCreateFindUpdate() {
	project := s.newProject("c1", "mp-1", 0)
	s.Require().NoError(s.store.Create(s.ctx, project))
	s.ErrorIs(s.store.Create(s.ctx, project), sentinel.ErrConflict)

	project.Objectives[0] = "mutated"
	found, err := s.store.FindByID(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal([]string{"ship"}, found.Objectives)

	found.Name = "Renamed"
	s.Require().NoError(s.store.Update(s.ctx, found))
	again, err := s.store.FindByID(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal("Renamed", again.Name)

	s.ErrorIs(s.store.Update(s.ctx, s.newProject("c9", "mp-1", 0)), sentinel.ErrNotFound)
	_, err = s.store.FindByID(s.ctx, "c9")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Create(s.ctx, s.newProject("c1", "mp-1", 0)))
	s.NoError(s.store.Delete(s.ctx, "c1"))
	s.ErrorIs(s.store.Delete(s.ctx, "c1"), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListByMasterProfile() {
	for i, id := range []string{"c1", "c2", "c3"} {
		s.Require().NoError(s.store.Create(s.ctx, s.newProject(id, "mp-1", i)))
	}
	s.Require().NoError(s.store.Create(s.ctx, s.newProject("c4", "mp-2", 9)))

	items, total, err := s.store.List(s.ctx, &models.ListProjectsQuery{
		MasterProfileID: "mp-1",
		Page:            validation.Page{Limit: 2, Offset: 0},
	})
	s.Require().NoError(err)
	s.Equal(3, total)
	s.Require().Len(items, 2)
	s.Equal(domain.ProjectID("c3"), items[0].ID)
	s.Equal(domain.ProjectID("c2"), items[1].ID)

	items, total, err = s.store.List(s.ctx, &models.ListProjectsQuery{
		MasterProfileID: "mp-3",
		Page:            validation.Page{Limit: 20},
	})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(items)
}
