package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"statusline/internal/activity"
	"statusline/internal/platform/metrics"
	"statusline/internal/project/models"
	"statusline/pkg/domain"
	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/tx"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

const entity = "project"

type Store interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id domain.ProjectID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id domain.ProjectID) error
	List(ctx context.Context, q *models.ListProjectsQuery) ([]*models.Project, int, error)
}

// DependentStore holds records owned by a project. They are removed in the
// same unit of work as the project itself.
type DependentStore interface {
	DeleteByProject(ctx context.Context, projectID domain.ProjectID) error
}

type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service manages projects, the aggregate root risks and decisions hang off.
type Service struct {
	projects   Store
	dependents []DependentStore
	tx         tx.Runner
	logger     *slog.Logger
	metrics    *metrics.Metrics
	publisher  ActivityPublisher
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithActivityPublisher(publisher ActivityPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithDependents registers stores whose records are deleted with their
// project.
func WithDependents(stores ...DependentStore) Option {
	return func(s *Service) {
		s.dependents = append(s.dependents, stores...)
	}
}

// WithTxRunner sets the transaction runner used for cascading deletes.
// Defaults to tx.NoTx.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(projects Store, opts ...Option) (*Service, error) {
	if projects == nil {
		return nil, errors.New("project store is required")
	}
	s := &Service{
		projects: projects,
		tx:       tx.NoTx,
		logger:   slog.Default(),
		tracer:   otel.Tracer("statusline/project"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create validates payload against the create contract and stores a new
// project.
func (s *Service) Create(ctx context.Context, payload any) (_ *models.Project, err error) {
	ctx, span := s.tracer.Start(ctx, "project.Create")
	defer endSpan(span, &err)
	defer s.observe("create", time.Now())

	in, vs := models.DecodeCreateProject(payload)
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "create", vs, "invalid project")
	}

	project := models.NewProject(domain.NewProjectID(), in, requestcontext.Now(ctx))
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, s.storeError(ctx, err, "failed to create project")
	}

	span.SetAttributes(attribute.String("project_id", project.ID.String()))
	s.logger.InfoContext(ctx, "project created",
		"request_id", requestcontext.RequestID(ctx),
		"project_id", project.ID,
		"master_profile_id", project.MasterProfileID,
	)
	if s.metrics != nil {
		s.metrics.IncrementCreated(entity)
	}
	s.emit(ctx, project.ID, activity.ActionCreated)
	return project, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Project, error) {
	id, err := domain.ParseProjectID(rawID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to load project")
	}
	return project, nil
}

// Exists reports whether a project with id is stored. Risk and decision
// services use it to check ownership before writing.
func (s *Service) Exists(ctx context.Context, id domain.ProjectID) (bool, error) {
	_, err := s.projects.FindByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) Update(ctx context.Context, rawID string, payload any) (_ *models.Project, err error) {
	ctx, span := s.tracer.Start(ctx, "project.Update")
	defer endSpan(span, &err)
	defer s.observe("update", time.Now())

	id, err := domain.ParseProjectID(rawID)
	if err != nil {
		return nil, err
	}
	patch, vs := models.DecodeUpdateProject(payload)
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "update", vs, "invalid project update")
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to load project")
	}
	if patch.IsEmpty() {
		return project, nil
	}
	project.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, s.storeError(ctx, err, "failed to update project")
	}

	s.logger.InfoContext(ctx, "project updated",
		"request_id", requestcontext.RequestID(ctx),
		"project_id", project.ID,
	)
	s.emit(ctx, project.ID, activity.ActionUpdated)
	return project, nil
}

// Delete removes a project and everything it owns in one unit of work.
func (s *Service) Delete(ctx context.Context, rawID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "project.Delete")
	defer endSpan(span, &err)
	defer s.observe("delete", time.Now())

	id, err := domain.ParseProjectID(rawID)
	if err != nil {
		return err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, dependents := range s.dependents {
			if err := dependents.DeleteByProject(ctx, id); err != nil {
				return err
			}
		}
		return s.projects.Delete(ctx, id)
	})
	if err != nil {
		return s.storeError(ctx, err, "failed to delete project")
	}

	s.logger.InfoContext(ctx, "project deleted",
		"request_id", requestcontext.RequestID(ctx),
		"project_id", id,
	)
	if s.metrics != nil {
		s.metrics.IncrementDeleted(entity)
	}
	s.emit(ctx, id, activity.ActionDeleted)
	return nil
}

func (s *Service) List(ctx context.Context, req models.ListProjectsRequest) (_ *validation.Paged[*models.Project], err error) {
	ctx, span := s.tracer.Start(ctx, "project.List")
	defer endSpan(span, &err)
	defer s.observe("list", time.Now())

	req.Normalize()
	q, vs := req.Validate()
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "list", vs, "invalid project query")
	}
	items, total, err := s.projects.List(ctx, q)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to list projects")
	}
	page := validation.NewPaged(items, q.Page, total)
	return &page, nil
}

func (s *Service) rejected(ctx context.Context, op string, vs validation.Violations, message string) error {
	s.logger.WarnContext(ctx, message,
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"violations", vs.Error(),
	)
	if s.metrics != nil {
		s.metrics.ObserveViolations(entity, op, vs)
	}
	return vs.Err(message)
}

func (s *Service) storeError(ctx context.Context, err error, message string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "project already exists")
	}
	s.logger.ErrorContext(ctx, message,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}

func (s *Service) emit(ctx context.Context, id domain.ProjectID, action activity.Action) {
	if s.publisher == nil {
		return
	}
	event := activity.Event{
		ProjectID: id,
		Entity:    activity.EntityProject,
		EntityID:  id.String(),
		Action:    action,
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record project activity",
			"request_id", requestcontext.RequestID(ctx),
			"project_id", id,
			"error", err,
		)
	}
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDuration(entity, op, start)
	}
}

func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}
