package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/response"
	"survey-studio/backend/internal/survey"
)

type ConfigStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error)
	Create(ctx context.Context, title, description string) (survey.Config, error)
	Save(ctx context.Context, id uuid.UUID, cfg survey.Config) (survey.Config, error)
}

type OptionSetStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (optionset.OptionSet, error)
	Create(ctx context.Context, kind optionset.Kind, name, description string, options []survey.Option) (optionset.OptionSet, error)
}

type InstanceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (instance.Instance, error)
	Create(ctx context.Context, req instance.CreateRequest) (instance.Instance, error)
}

type ResponseSource interface {
	ListByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]response.Response, error)
}

type Service struct {
	logger     *zap.Logger
	tracer     trace.Tracer
	sourceName string
	configs    ConfigStore
	optionSets OptionSetStore
	instances  InstanceStore
	responses  ResponseSource
	now        func() time.Time
}

// NewService wires the export surface. sourceName stamps the envelope
// metadata so a file's origin survives the move to another installation.
func NewService(
	logger *zap.Logger,
	sourceName string,
	configs ConfigStore,
	optionSets OptionSetStore,
	instances InstanceStore,
	responses ResponseSource,
) *Service {
	return &Service{
		logger:     logger,
		tracer:     otel.Tracer("export/service"),
		sourceName: sourceName,
		configs:    configs,
		optionSets: optionSets,
		instances:  instances,
		responses:  responses,
		now:        time.Now,
	}
}

func (s *Service) ExportConfig(ctx context.Context, id uuid.UUID) (Envelope, error) {
	ctx, span := s.tracer.Start(ctx, "ExportConfig")
	defer span.End()

	cfg, err := s.configs.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return Envelope{}, err
	}

	return NewEnvelope(EntitySurveyConfig, ConfigPayload{
		ID:          cfg.ID,
		Title:       cfg.Title,
		Description: cfg.Description,
		Sections:    cfg.Sections,
	}, s.metadata(cfg.ID, cfg.Title, cfg.Description))
}

func (s *Service) ExportOptionSet(ctx context.Context, id uuid.UUID) (Envelope, error) {
	ctx, span := s.tracer.Start(ctx, "ExportOptionSet")
	defer span.End()

	set, err := s.optionSets.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return Envelope{}, err
	}

	entityType, ok := kindToEntity[set.Kind]
	if !ok {
		err = fmt.Errorf("option set %s has kind %q: %w", id, set.Kind, internal.ErrInvalidOptionSetKind)
		span.RecordError(err)
		return Envelope{}, err
	}

	return NewEnvelope(entityType, OptionSetPayload{
		ID:          set.ID,
		Name:        set.Name,
		Description: set.Description,
		Options:     set.Options,
	}, s.metadata(set.ID, set.Name, set.Description))
}

func (s *Service) ExportInstance(ctx context.Context, id uuid.UUID) (Envelope, error) {
	ctx, span := s.tracer.Start(ctx, "ExportInstance")
	defer span.End()

	inst, err := s.instances.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return Envelope{}, err
	}

	return NewEnvelope(EntitySurveyInstance, InstancePayload{
		ID:          inst.ID.String(),
		ConfigID:    inst.ConfigID.String(),
		Title:       inst.Title,
		Description: inst.Description,
		Slug:        inst.Slug,
	}, s.metadata(inst.ID.String(), inst.Title, inst.Description))
}

// ImportResult reports what an uploaded file became.
type ImportResult struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}

// Import decodes an uploaded file and creates the entity it carries.
// Configs go through the validated save path, so a config that would be
// rejected by the builder is rejected here too.
func (s *Service) Import(ctx context.Context, data []byte) (ImportResult, error) {
	ctx, span := s.tracer.Start(ctx, "Import")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	env, err := Decode(data)
	if err != nil {
		span.RecordError(err)
		return ImportResult{}, err
	}

	var result ImportResult
	switch env.Type {
	case EntitySurveyConfig:
		result, err = s.importConfig(ctx, env)
	case EntityRatingScale, EntityRadioSet, EntityMultiSelectSet, EntitySelectSet:
		result, err = s.importOptionSet(ctx, env)
	case EntitySurveyInstance:
		result, err = s.importInstance(ctx, env)
	default:
		err = fmt.Errorf("entity type %q: %w", env.Type, internal.ErrUnknownEntityType)
	}
	if err != nil {
		span.RecordError(err)
		return ImportResult{}, err
	}

	logger.Info("entity imported",
		zap.String("type", string(result.Type)),
		zap.String("id", result.ID),
	)
	return result, nil
}

func (s *Service) importConfig(ctx context.Context, env Envelope) (ImportResult, error) {
	payload, err := DecodeConfig(env)
	if err != nil {
		return ImportResult{}, err
	}

	created, err := s.configs.Create(ctx, payload.Title, payload.Description)
	if err != nil {
		return ImportResult{}, err
	}

	id, err := uuid.Parse(created.ID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("created config has invalid id %q: %w", created.ID, internal.ErrInternalServerError)
	}

	created.Sections = payload.Sections
	saved, err := s.configs.Save(ctx, id, created)
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{Type: EntitySurveyConfig, ID: saved.ID}, nil
}

func (s *Service) importOptionSet(ctx context.Context, env Envelope) (ImportResult, error) {
	payload, kind, err := DecodeOptionSet(env)
	if err != nil {
		return ImportResult{}, err
	}

	set, err := s.optionSets.Create(ctx, kind, payload.Name, payload.Description, payload.Options)
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{Type: env.Type, ID: set.ID}, nil
}

func (s *Service) importInstance(ctx context.Context, env Envelope) (ImportResult, error) {
	payload, err := DecodeInstance(env)
	if err != nil {
		return ImportResult{}, err
	}

	configID, err := uuid.Parse(payload.ConfigID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("configId %q: %w", payload.ConfigID, internal.ErrImportValidation)
	}

	slug := payload.Slug
	if slug == "" {
		slug = deriveSlug(payload.Title)
	}

	inst, err := s.instances.Create(ctx, instance.CreateRequest{
		ConfigID:    configID,
		Title:       payload.Title,
		Description: payload.Description,
		Slug:        slug,
	})
	if err != nil {
		return ImportResult{}, err
	}

	return ImportResult{Type: EntitySurveyInstance, ID: inst.ID.String()}, nil
}

// ExportResponsesXLSX renders an instance's responses as a spreadsheet,
// grouped by the bound config's sections.
func (s *Service) ExportResponsesXLSX(ctx context.Context, instanceID uuid.UUID) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "ExportResponsesXLSX")
	defer span.End()

	inst, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	cfg, err := s.configs.GetByID(ctx, inst.ConfigID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	responses, err := s.responses.ListByInstanceID(ctx, instanceID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	workbook, err := ResponseWorkbook(&cfg, responses)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer workbook.Close()

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) metadata(originalID, title, description string) Metadata {
	return Metadata{
		ExportedAt:   s.now().UTC(),
		ExportedFrom: s.sourceName,
		OriginalID:   originalID,
		Title:        title,
		Description:  description,
	}
}

// deriveSlug builds a slug from a title for imports whose file carried
// none. A uuid fragment avoids colliding with an existing instance.
func deriveSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	base := strings.TrimRight(b.String(), "-")
	if base == "" {
		base = "imported"
	}
	return base + "-" + uuid.NewString()[:8]
}
