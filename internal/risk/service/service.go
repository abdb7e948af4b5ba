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
	"statusline/internal/risk/models"
	"statusline/pkg/domain"
	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

const entity = "risk"

type Store interface {
	Create(ctx context.Context, risk *models.Risk) error
	FindByID(ctx context.Context, id domain.RiskID) (*models.Risk, error)
	// Update replaces the stored risk only while its status still equals
	// expected; otherwise it returns sentinel.ErrConflict.
	Update(ctx context.Context, risk *models.Risk, expected domain.RiskStatus) error
	Delete(ctx context.Context, id domain.RiskID) error
	List(ctx context.Context, q *models.ListRisksQuery) ([]*models.Risk, int, error)
}

type ProjectChecker interface {
	Exists(ctx context.Context, id domain.ProjectID) (bool, error)
}

type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service validates risk payloads and drives the risk lifecycle. Nothing
// reaches the store until the whole payload has passed validation.
type Service struct {
	risks     Store
	projects  ProjectChecker
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher ActivityPublisher
	policy    domain.TransitionPolicy
	tracer    trace.Tracer
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

// WithTransitionPolicy selects how status changes are judged. Defaults to
// strict.
func WithTransitionPolicy(policy domain.TransitionPolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// New constructs a Service.
func New(risks Store, projects ProjectChecker, opts ...Option) (*Service, error) {
	if risks == nil {
		return nil, errors.New("risk store is required")
	}
	if projects == nil {
		return nil, errors.New("project checker is required")
	}
	s := &Service{
		risks:    risks,
		projects: projects,
		logger:   slog.Default(),
		policy:   domain.TransitionPolicyStrict,
		tracer:   otel.Tracer("statusline/risk"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Policy reports the transition policy in force.
func (s *Service) Policy() domain.TransitionPolicy {
	return s.policy
}

// Create validates payload against the create contract and stores a new OPEN
// risk under an existing project.
func (s *Service) Create(ctx context.Context, payload any) (_ *models.Risk, err error) {
	ctx, span := s.tracer.Start(ctx, "risk.Create")
	defer endSpan(span, &err)
	defer s.observe("create", time.Now())

	in, vs := models.DecodeCreateRisk(payload)
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "create", vs, "invalid risk")
	}
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	risk := models.NewRisk(domain.NewRiskID(), in, requestcontext.Now(ctx))
	if err := s.risks.Create(ctx, risk); err != nil {
		return nil, s.storeError(ctx, err, "failed to create risk")
	}

	span.SetAttributes(attribute.String("risk_id", risk.ID.String()))
	s.logger.InfoContext(ctx, "risk created",
		"request_id", requestcontext.RequestID(ctx),
		"risk_id", risk.ID,
		"project_id", risk.ProjectID,
		"severity", risk.Severity,
	)
	if s.metrics != nil {
		s.metrics.IncrementCreated(entity)
	}
	s.emit(ctx, risk, activity.ActionCreated, "")
	return risk, nil
}

// Get loads one risk.
func (s *Service) Get(ctx context.Context, rawID string) (*models.Risk, error) {
	id, err := domain.ParseRiskID(rawID)
	if err != nil {
		return nil, err
	}
	risk, err := s.risks.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to load risk")
	}
	return risk, nil
}

// Update validates payload against the update contract, checks the requested
// status change against the lifecycle and applies the patch. A concurrent
// status change between read and write surfaces as CodeConflict.
func (s *Service) Update(ctx context.Context, rawID string, payload any) (_ *models.Risk, err error) {
	ctx, span := s.tracer.Start(ctx, "risk.Update")
	defer endSpan(span, &err)
	defer s.observe("update", time.Now())

	id, err := domain.ParseRiskID(rawID)
	if err != nil {
		return nil, err
	}
	patch, vs := models.DecodeUpdateRisk(payload)
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "update", vs, "invalid risk update")
	}

	risk, err := s.risks.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to load risk")
	}
	if vs := risk.CheckPatch(patch, s.policy); len(vs) > 0 {
		return nil, s.rejected(ctx, "update", vs, "invalid risk update")
	}
	if patch.ProjectID != nil && *patch.ProjectID != risk.ProjectID {
		if err := s.requireProject(ctx, *patch.ProjectID); err != nil {
			return nil, err
		}
	}
	if patch.IsEmpty() {
		return risk, nil
	}

	from := risk.Status
	changed := risk.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.risks.Update(ctx, risk, from); err != nil {
		return nil, s.storeError(ctx, err, "failed to update risk")
	}

	s.logger.InfoContext(ctx, "risk updated",
		"request_id", requestcontext.RequestID(ctx),
		"risk_id", risk.ID,
		"status", risk.Status,
	)
	s.emit(ctx, risk, activity.ActionUpdated, "")
	if changed {
		if s.metrics != nil {
			s.metrics.IncrementTransition(entity, string(from), string(risk.Status))
		}
		s.emit(ctx, risk, activity.ActionStatusChanged, from)
	}
	return risk, nil
}

// Delete removes one risk.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := domain.ParseRiskID(rawID)
	if err != nil {
		return err
	}
	risk, err := s.risks.FindByID(ctx, id)
	if err != nil {
		return s.storeError(ctx, err, "failed to load risk")
	}
	if err := s.risks.Delete(ctx, id); err != nil {
		return s.storeError(ctx, err, "failed to delete risk")
	}
	if s.metrics != nil {
		s.metrics.IncrementDeleted(entity)
	}
	s.emit(ctx, risk, activity.ActionDeleted, "")
	return nil
}

// List validates the query contract and returns one page of risks, newest
// first.
func (s *Service) List(ctx context.Context, req models.ListRisksRequest) (_ *validation.Paged[*models.Risk], err error) {
	ctx, span := s.tracer.Start(ctx, "risk.List")
	defer endSpan(span, &err)
	defer s.observe("list", time.Now())

	req.Normalize()
	q, vs := req.Validate()
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "list", vs, "invalid risk query")
	}
	items, total, err := s.risks.List(ctx, q)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to list risks")
	}
	page := validation.NewPaged(items, q.Page, total)
	return &page, nil
}

func (s *Service) requireProject(ctx context.Context, id domain.ProjectID) error {
	ok, err := s.projects.Exists(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load project")
	}
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	return nil
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
		return dErrors.New(dErrors.CodeNotFound, "risk not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "risk was changed by another request; reload and retry")
	case errors.Is(err, sentinel.ErrInvalidReference):
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	s.logger.ErrorContext(ctx, message,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}

func (s *Service) emit(ctx context.Context, risk *models.Risk, action activity.Action, from domain.RiskStatus) {
	if s.publisher == nil {
		return
	}
	event := activity.Event{
		ProjectID: risk.ProjectID,
		Entity:    activity.EntityRisk,
		EntityID:  risk.ID.String(),
		Action:    action,
	}
	if action == activity.ActionStatusChanged {
		event.FromStatus = string(from)
		event.ToStatus = string(risk.Status)
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record risk activity",
			"request_id", requestcontext.RequestID(ctx),
			"risk_id", risk.ID,
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
