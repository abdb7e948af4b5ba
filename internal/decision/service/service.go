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
	"statusline/internal/decision/models"
	"statusline/pkg/domain"
	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
	"statusline/pkg/requestcontext"
)

const entity = "decision"

type Store interface {
	Create(ctx context.Context, decision *models.Decision) error
	FindByID(ctx context.Context, id domain.DecisionID) (*models.Decision, error)
	// Update replaces the stored decision only while its status still equals
	// expected; otherwise it returns sentinel.ErrConflict.
	Update(ctx context.Context, decision *models.Decision, expected domain.DecisionStatus) error
	Delete(ctx context.Context, id domain.DecisionID) error
	List(ctx context.Context, q *models.ListDecisionsQuery) ([]*models.Decision, int, error)
}

type ProjectChecker interface {
	Exists(ctx context.Context, id domain.ProjectID) (bool, error)
}

type ActivityPublisher interface {
	Emit(ctx context.Context, event activity.Event) error
}

// Service validates decision payloads and drives the decision lifecycle. Nothing
// reaches the store until the whole payload has passed validation.
type Service struct {
	decisions Store
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
func New(decisions Store, projects ProjectChecker, opts ...Option) (*Service, error) {
	if decisions == nil {
		return nil, errors.New("decision store is required")
	}
	if projects == nil {
		return nil, errors.New("project checker is required")
	}
	s := &Service{
		decisions: decisions,
		projects:  projects,
		logger:    slog.Default(),
		policy:    domain.TransitionPolicyStrict,
		tracer:    otel.Tracer("statusline/decision"),
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

// Create validates payload against the create contract and stores a new
// PENDING decision under an existing project.
func (s *Service) Create(ctx context.Context, payload any) (_ *models.Decision, err error) {
	ctx, span := s.tracer.Start(ctx, "decision.Create")
	defer endSpan(span, &err)
	defer s.observe("create", time.Now())

	in, vs := models.DecodeCreateDecision(payload)
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "create", vs, "invalid decision")
	}
	if err := s.requireProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	decision := models.NewDecision(domain.NewDecisionID(), in, requestcontext.Now(ctx))
	if err := s.decisions.Create(ctx, decision); err != nil {
		return nil, s.storeError(ctx, err, "failed to create decision")
	}

	span.SetAttributes(attribute.String("decision_id", decision.ID.String()))
	s.logger.InfoContext(ctx, "decision created",
		"request_id", requestcontext.RequestID(ctx),
		"decision_id", decision.ID,
		"project_id", decision.ProjectID,
	)
	if s.metrics != nil {
		s.metrics.IncrementCreated(entity)
	}
	s.emit(ctx, decision, activity.ActionCreated, "")
	return decision, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Decision, error) {
	id, err := domain.ParseDecisionID(rawID)
	if err != nil {
		return nil, err
	}
	decision, err := s.decisions.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to load decision")
	}
	return decision, nil
}

// Update validates payload against the update contract and, under the strict
// policy, the decision lifecycle. Recording an outcome means moving to
// DECIDED with outcome and decidedAt in the same patch.
func (s *Service) Update(ctx context.Context, rawID string, payload any) (_ *models.Decision, err error) {
	ctx, span := s.tracer.Start(ctx, "decision.Update")
	defer endSpan(span, &err)
	defer s.observe("update", time.Now())

	id, err := domain.ParseDecisionID(rawID)
	if err != nil {
		return nil, err
	}
	patch, vs := models.DecodeUpdateDecision(payload)
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "update", vs, "invalid decision update")
	}

	decision, err := s.decisions.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to load decision")
	}
	if vs := decision.CheckPatch(patch, s.policy); len(vs) > 0 {
		return nil, s.rejected(ctx, "update", vs, "invalid decision update")
	}
	if patch.ProjectID != nil && *patch.ProjectID != decision.ProjectID {
		if err := s.requireProject(ctx, *patch.ProjectID); err != nil {
			return nil, err
		}
	}
	if patch.IsEmpty() {
		return decision, nil
	}

	from := decision.Status
	changed := decision.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.decisions.Update(ctx, decision, from); err != nil {
		return nil, s.storeError(ctx, err, "failed to update decision")
	}

	s.logger.InfoContext(ctx, "decision updated",
		"request_id", requestcontext.RequestID(ctx),
		"decision_id", decision.ID,
		"status", decision.Status,
	)
	s.emit(ctx, decision, activity.ActionUpdated, "")
	if changed {
		if s.metrics != nil {
			s.metrics.IncrementTransition(entity, string(from), string(decision.Status))
		}
		s.emit(ctx, decision, activity.ActionStatusChanged, from)
	}
	return decision, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := domain.ParseDecisionID(rawID)
	if err != nil {
		return err
	}
	decision, err := s.decisions.FindByID(ctx, id)
	if err != nil {
		return s.storeError(ctx, err, "failed to load decision")
	}
	if err := s.decisions.Delete(ctx, id); err != nil {
		return s.storeError(ctx, err, "failed to delete decision")
	}
	if s.metrics != nil {
		s.metrics.IncrementDeleted(entity)
	}
	s.emit(ctx, decision, activity.ActionDeleted, "")
	return nil
}

// List validates the query contract and returns one page of decisions,
// newest first.
func (s *Service) List(ctx context.Context, req models.ListDecisionsRequest) (_ *validation.Paged[*models.Decision], err error) {
	ctx, span := s.tracer.Start(ctx, "decision.List")
	defer endSpan(span, &err)
	defer s.observe("list", time.Now())

	req.Normalize()
	q, vs := req.Validate()
	if len(vs) > 0 {
		return nil, s.rejected(ctx, "list", vs, "invalid decision query")
	}
	items, total, err := s.decisions.List(ctx, q)
	if err != nil {
		return nil, s.storeError(ctx, err, "failed to list decisions")
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
		return dErrors.New(dErrors.CodeNotFound, "decision not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "decision was changed by another request; reload and retry")
	case errors.Is(err, sentinel.ErrInvalidReference):
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	s.logger.ErrorContext(ctx, message,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}

func (s *Service) emit(ctx context.Context, decision *models.Decision, action activity.Action, from domain.DecisionStatus) {
	if s.publisher == nil {
		return
	}
	event := activity.Event{
		ProjectID: decision.ProjectID,
		Entity:    activity.EntityDecision,
		EntityID:  decision.ID.String(),
		Action:    action,
	}
	if action == activity.ActionStatusChanged {
		event.FromStatus = string(from)
		event.ToStatus = string(decision.Status)
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record decision activity",
			"request_id", requestcontext.RequestID(ctx),
			"decision_id", decision.ID,
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
