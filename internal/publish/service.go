package publish

import (
	"context"
	"fmt"
	"time"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/survey"
)

type ConfigStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error)
}

type InstanceStore interface {
	Create(ctx context.Context, req instance.CreateRequest) (instance.Instance, error)
}

type Service struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	configs   ConfigStore
	instances InstanceStore
}

func NewService(logger *zap.Logger, configs ConfigStore, instances InstanceStore) *Service {
	return &Service{
		logger:    logger,
		tracer:    otel.Tracer("publish/service"),
		configs:   configs,
		instances: instances,
	}
}

type Request struct {
	Title       string
	Description string
	Slug        string
	StartDate   *time.Time
	EndDate     *time.Time
}

// PublishSurvey binds a saved config to a public slug. It is responsible
// for:
//  1. Ensuring the config exists and validates for publication
//  2. Ensuring the config is active
//  3. Creating the instance that respondents will reach via the slug
func (s *Service) PublishSurvey(ctx context.Context, configID uuid.UUID, req Request) (instance.Instance, error) {
	ctx, span := s.tracer.Start(ctx, "PublishSurvey")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	cfg, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		span.RecordError(err)
		return instance.Instance{}, err
	}

	if err := survey.ValidateForSave(cfg); err != nil {
		span.RecordError(err)
		return instance.Instance{}, fmt.Errorf("config %s is not publishable: %w", configID, err)
	}

	if !cfg.IsActive {
		err = fmt.Errorf("config %s: %w", configID, internal.ErrSurveyNotActive)
		span.RecordError(err)
		return instance.Instance{}, err
	}

	title := req.Title
	if title == "" {
		title = cfg.Title
	}

	inst, err := s.instances.Create(ctx, instance.CreateRequest{
		ConfigID:    configID,
		Title:       title,
		Description: req.Description,
		Slug:        req.Slug,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		span.RecordError(err)
		return instance.Instance{}, err
	}

	logger.Info("Survey published",
		zap.String("config_id", configID.String()),
		zap.String("instance_id", inst.ID.String()),
		zap.String("slug", inst.Slug),
	)
	return inst, nil
}
