package response

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/survey"
	"survey-studio/backend/internal/survey/field"
)

type Querier interface {
	CreateResponse(ctx context.Context, arg CreateResponseParams) (SurveyResponse, error)
	GetResponseByID(ctx context.Context, id uuid.UUID) (SurveyResponse, error)
	ListResponsesByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]SurveyResponse, error)
	DeleteResponse(ctx context.Context, id uuid.UUID) error
	DeleteResponsesByInstanceID(ctx context.Context, instanceID uuid.UUID) error
	CreateSession(ctx context.Context, arg CreateSessionParams) (SurveySession, error)
	GetSessionByID(ctx context.Context, id uuid.UUID) (SurveySession, error)
	ListSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]SurveySession, error)
	UpdateSessionStatus(ctx context.Context, arg UpdateSessionStatusParams) (SurveySession, error)
	DeleteSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) error
}

type InstanceStore interface {
	GetActiveBySlug(ctx context.Context, slug string) (instance.Instance, error)
}

type ConfigStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error)
}

// ScaleSource loads the rating scale registry used to resolve field
// options during answer validation.
type ScaleSource interface {
	LoadRegistry(ctx context.Context, kind optionset.Kind) (*optionset.Registry, error)
}

type Service struct {
	logger    *zap.Logger
	queries   Querier
	tracer    trace.Tracer
	instances InstanceStore
	configs   ConfigStore
	scales    ScaleSource
}

func NewService(logger *zap.Logger, db DBTX, instances InstanceStore, configs ConfigStore, scales ScaleSource) *Service {
	return &Service{
		logger:    logger,
		queries:   New(db),
		tracer:    otel.Tracer("response/service"),
		instances: instances,
		configs:   configs,
		scales:    scales,
	}
}

// StartSession opens a session against an active instance. Respondents
// reach this through the public slug, so lifecycle enforcement happens in
// the instance lookup.
func (s *Service) StartSession(ctx context.Context, slug string) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "StartSession")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	inst, err := s.instances.GetActiveBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return Session{}, err
	}

	tracker := logutil.StartDBOperation(ctx, logger, "CreateSession", map[string]interface{}{
		"instance_id": inst.ID.String(),
	})

	row, err := s.queries.CreateSession(ctx, CreateSessionParams{
		InstanceID: inst.ID,
		Status:     string(StatusStarted),
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create survey session")
		span.RecordError(err)
		return Session{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toSession(row), nil
}

// UpdateSessionStatus moves a session through the funnel. Backward moves
// and transitions out of a terminal state are rejected.
func (s *Service) UpdateSessionStatus(ctx context.Context, id uuid.UUID, next Status) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateSessionStatus")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetSessionByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_sessions", "id", id.String(), logger, "get survey session")
		span.RecordError(err)
		return Session{}, err
	}

	current, err := ParseStatus(row.Status)
	if err != nil {
		span.RecordError(err)
		return Session{}, err
	}

	if !current.CanTransitionTo(next) {
		err = fmt.Errorf("session %s cannot move from %s to %s: %w", id, current, next, internal.ErrInvalidSessionStatus)
		span.RecordError(err)
		return Session{}, err
	}

	updated, err := s.queries.UpdateSessionStatus(ctx, UpdateSessionStatusParams{ID: id, Status: string(next)})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "update survey session status")
		span.RecordError(err)
		return Session{}, err
	}

	return toSession(updated), nil
}

type SubmitRequest struct {
	SessionID uuid.UUID
	Answers   map[string]json.RawMessage
}

// Submit validates a submission against the instance's bound config and
// stores it. Validation is all-or-nothing: any failing answer rejects the
// whole submission and nothing is written. A carried session is marked
// completed when its current status allows it.
func (s *Service) Submit(ctx context.Context, slug string, req SubmitRequest) (Response, error) {
	ctx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	inst, err := s.instances.GetActiveBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return Response{}, err
	}

	cfg, err := s.configs.GetByID(ctx, inst.ConfigID)
	if err != nil {
		span.RecordError(err)
		return Response{}, err
	}

	if err := s.validateAnswers(ctx, cfg, req.Answers); err != nil {
		span.RecordError(err)
		return Response{}, err
	}

	answers, err := json.Marshal(req.Answers)
	if err != nil {
		span.RecordError(err)
		return Response{}, fmt.Errorf("failed to encode answers: %w", err)
	}

	tracker := logutil.StartDBOperation(ctx, logger, "CreateResponse", map[string]interface{}{
		"instance_id": inst.ID.String(),
	})

	row, err := s.queries.CreateResponse(ctx, CreateResponseParams{
		InstanceID: inst.ID,
		SessionID:  req.SessionID,
		Answers:    answers,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create survey response")
		span.RecordError(err)
		return Response{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	if req.SessionID != uuid.Nil {
		s.completeSession(ctx, logger, req.SessionID)
	}

	return toResponse(row)
}

// completeSession best-effort marks the submitting session completed. A
// session already in a terminal state is left alone; the response itself
// has already been stored.
func (s *Service) completeSession(ctx context.Context, logger *zap.Logger, id uuid.UUID) {
	row, err := s.queries.GetSessionByID(ctx, id)
	if err != nil {
		logger.Warn("failed to load session after submit", zap.String("session_id", id.String()), zap.Error(err))
		return
	}

	current, err := ParseStatus(row.Status)
	if err != nil || !current.CanTransitionTo(StatusCompleted) {
		return
	}

	if _, err := s.queries.UpdateSessionStatus(ctx, UpdateSessionStatusParams{ID: id, Status: string(StatusCompleted)}); err != nil {
		logger.Warn("failed to complete session after submit", zap.String("session_id", id.String()), zap.Error(err))
	}
}

func (s *Service) validateAnswers(ctx context.Context, cfg survey.Config, answers map[string]json.RawMessage) error {
	var registry *optionset.Registry

	for _, f := range cfg.AllFields() {
		raw := answers[f.ID]

		if !field.Answered(raw) {
			if f.Required {
				return field.ErrRequiredField{FieldID: f.ID, Label: f.Label}
			}
			continue
		}

		options := f.Options
		if f.RatingScaleID != "" {
			if registry == nil {
				loaded, err := s.scales.LoadRegistry(ctx, optionset.KindRatingScale)
				if err != nil {
					return err
				}
				registry = loaded
			}
			resolved, err := registry.Resolve(f)
			if err != nil {
				return err
			}
			options = resolved
		}

		answerable, err := field.New(f, options)
		if err != nil {
			return err
		}
		if err := answerable.Validate(raw); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Response, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetResponseByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_responses", "id", id.String(), logger, "get survey response")
		span.RecordError(err)
		return Response{}, err
	}

	return toResponse(row)
}

func (s *Service) ListByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]Response, error) {
	ctx, span := s.tracer.Start(ctx, "ListByInstanceID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "ListResponsesByInstanceID", map[string]interface{}{
		"instance_id": instanceID.String(),
	})

	rows, err := s.queries.ListResponsesByInstanceID(ctx, instanceID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list survey responses")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), instanceID.String())

	responses := make([]Response, 0, len(rows))
	for _, row := range rows {
		resp, err := toResponse(row)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *Service) ListSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]Session, error) {
	ctx, span := s.tracer.Start(ctx, "ListSessionsByInstanceID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	rows, err := s.queries.ListSessionsByInstanceID(ctx, instanceID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list survey sessions")
		span.RecordError(err)
		return nil, err
	}

	sessions := make([]Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, toSession(row))
	}
	return sessions, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if err := s.queries.DeleteResponse(ctx, id); err != nil {
		err = databaseutil.WrapDBError(err, logger, "delete survey response")
		span.RecordError(err)
		return err
	}
	return nil
}

// DeleteByInstanceID removes everything an instance owns: responses and
// sessions. The instance service calls this while cascading a delete.
func (s *Service) DeleteByInstanceID(ctx context.Context, instanceID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeleteByInstanceID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if err := s.queries.DeleteResponsesByInstanceID(ctx, instanceID); err != nil {
		err = databaseutil.WrapDBError(err, logger, "delete responses for instance")
		span.RecordError(err)
		return err
	}
	if err := s.queries.DeleteSessionsByInstanceID(ctx, instanceID); err != nil {
		err = databaseutil.WrapDBError(err, logger, "delete sessions for instance")
		span.RecordError(err)
		return err
	}
	return nil
}

func toSession(row SurveySession) Session {
	return Session{
		ID:         row.ID,
		InstanceID: row.InstanceID,
		Status:     Status(row.Status),
		StartedAt:  row.StartedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

func toResponse(row SurveyResponse) (Response, error) {
	var answers map[string]json.RawMessage
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &answers); err != nil {
			return Response{}, fmt.Errorf("corrupted answers for response %s: %w: %w", row.ID, err, internal.ErrInternalServerError)
		}
	}
	return Response{
		ID:          row.ID,
		InstanceID:  row.InstanceID,
		SessionID:   row.SessionID,
		Answers:     answers,
		SubmittedAt: row.SubmittedAt.Time,
	}, nil
}
