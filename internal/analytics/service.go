package analytics

import (
	"context"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/response"
	"survey-studio/backend/internal/survey"
)

type ResponseSource interface {
	ListByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]response.Response, error)
	ListSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]response.Session, error)
}

type InstanceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (instance.Instance, error)
}

type ConfigStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error)
}

type Service struct {
	logger    *zap.Logger
	tracer    trace.Tracer
	responses ResponseSource
	instances InstanceStore
	configs   ConfigStore
}

func NewService(logger *zap.Logger, responses ResponseSource, instances InstanceStore, configs ConfigStore) *Service {
	return &Service{
		logger:    logger,
		tracer:    otel.Tracer("analytics/service"),
		responses: responses,
		instances: instances,
		configs:   configs,
	}
}

type FunnelReport struct {
	Funnel
	CompletionRate  int `json:"completionRate"`
	AbandonmentRate int `json:"abandonmentRate"`
}

type Report struct {
	InstanceID     uuid.UUID           `json:"instanceId"`
	Granularity    Granularity         `json:"granularity"`
	TotalResponses int                 `json:"totalResponses"`
	Buckets        map[string]int      `json:"buckets"`
	Funnel         FunnelReport        `json:"funnel"`
	Distributions  []FieldDistribution `json:"distributions"`
}

// Report assembles the full dashboard payload for one instance: time
// buckets, the session funnel and per-field distributions against the
// instance's bound config.
func (s *Service) Report(ctx context.Context, instanceID uuid.UUID, granularity Granularity) (Report, error) {
	ctx, span := s.tracer.Start(ctx, "Report")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	inst, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	cfg, err := s.configs.GetByID(ctx, inst.ConfigID)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	responses, err := s.responses.ListByInstanceID(ctx, instanceID)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	sessions, err := s.responses.ListSessionsByInstanceID(ctx, instanceID)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	buckets, err := CountByBucket(responses, granularity)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}

	funnel := BuildFunnel(sessions)

	logger.Debug("analytics report built",
		zap.String("instance_id", instanceID.String()),
		zap.Int("responses", len(responses)),
		zap.Int("sessions", len(sessions)),
	)

	return Report{
		InstanceID:     instanceID,
		Granularity:    granularity,
		TotalResponses: len(responses),
		Buckets:        buckets,
		Funnel: FunnelReport{
			Funnel:          funnel,
			CompletionRate:  funnel.CompletionRate(),
			AbandonmentRate: funnel.AbandonmentRate(),
		},
		Distributions: Distribute(cfg, responses),
	}, nil
}
