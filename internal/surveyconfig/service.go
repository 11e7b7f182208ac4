package surveyconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
	"survey-studio/backend/internal/survey/builder"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (SurveyConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (SurveyConfig, error)
	List(ctx context.Context) ([]SurveyConfig, error)
	UpdateMeta(ctx context.Context, arg UpdateMetaParams) (SurveyConfig, error)
	UpdateSections(ctx context.Context, arg UpdateSectionsParams) (SurveyConfig, error)
	Save(ctx context.Context, arg SaveParams) (SurveyConfig, error)
	SetActive(ctx context.Context, arg SetActiveParams) (SurveyConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
	now     func() time.Time
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("surveyconfig/service"),
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, title, description string) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	sections, err := json.Marshal([]survey.Section{})
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, fmt.Errorf("failed to marshal empty section list: %w", err)
	}

	dbParams := map[string]interface{}{
		"title":       title,
		"description": description,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	row, err := s.queries.Create(ctx, CreateParams{
		Title:       title,
		Description: pgtype.Text{String: description, Valid: true},
		Sections:    sections,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create survey config")
		span.RecordError(err)
		return survey.Config{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toConfig(row)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_configs", "id", id.String(), logger, "get survey config")
		span.RecordError(err)
		return survey.Config{}, err
	}

	return toConfig(row)
}

func (s *Service) List(ctx context.Context) ([]survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "List", nil)

	rows, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list survey configs")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), "")

	configs := make([]survey.Config, 0, len(rows))
	for _, row := range rows {
		cfg, err := toConfig(row)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

func (s *Service) UpdateMeta(ctx context.Context, id uuid.UUID, title, description string) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateMeta")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"id":          id.String(),
		"title":       title,
		"description": description,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "UpdateMeta", dbParams)

	row, err := s.queries.UpdateMeta(ctx, UpdateMetaParams{
		ID:          id,
		Title:       title,
		Description: pgtype.Text{String: description, Valid: true},
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "update survey config")
		span.RecordError(err)
		return survey.Config{}, err
	}

	tracker.SuccessWrite(id.String())

	return toConfig(row)
}

// ApplyCommands runs a batch of builder commands against the stored config
// and persists the resulting section tree. The batch is atomic in memory: a
// failing command aborts the whole batch before anything is written.
func (s *Service) ApplyCommands(ctx context.Context, id uuid.UUID, commands []builder.Command) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "ApplyCommands")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_configs", "id", id.String(), logger, "get survey config for edit")
		span.RecordError(err)
		return survey.Config{}, err
	}

	cfg, err := toConfig(row)
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, err
	}

	state := builder.State{Config: cfg}
	now := s.now()
	for _, cmd := range commands {
		state, err = builder.Apply(state, cmd, now)
		if err != nil {
			span.RecordError(err)
			return survey.Config{}, err
		}
	}

	sections, err := json.Marshal(state.Config.Sections)
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, fmt.Errorf("failed to marshal sections: %w", err)
	}

	dbParams := map[string]interface{}{
		"id":       id.String(),
		"commands": len(commands),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "UpdateSections", dbParams)

	updated, err := s.queries.UpdateSections(ctx, UpdateSectionsParams{
		ID:        id,
		Sections:  sections,
		UpdatedAt: pgtype.Timestamptz{Time: state.Config.Metadata.UpdatedAt, Valid: true},
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "update survey sections")
		span.RecordError(err)
		return survey.Config{}, err
	}

	tracker.SuccessWrite(id.String())

	return toConfig(updated)
}

// Save validates the whole config and persists it, bumping the version. The
// config is accepted or rejected as a unit; a validation failure writes
// nothing.
func (s *Service) Save(ctx context.Context, id uuid.UUID, cfg survey.Config) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "Save")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	cfg.Normalize()
	if err := survey.ValidateForSave(cfg); err != nil {
		span.RecordError(err)
		logger.Warn("survey config rejected by save validation", zap.String("id", id.String()), zap.Error(err))
		return survey.Config{}, err
	}

	sections, err := json.Marshal(cfg.Sections)
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, fmt.Errorf("failed to marshal sections: %w", err)
	}

	dbParams := map[string]interface{}{
		"id":    id.String(),
		"title": cfg.Title,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Save", dbParams)

	row, err := s.queries.Save(ctx, SaveParams{
		ID:          id,
		Title:       cfg.Title,
		Description: pgtype.Text{String: cfg.Description, Valid: true},
		Sections:    sections,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "save survey config")
		span.RecordError(err)
		return survey.Config{}, err
	}

	tracker.SuccessWrite(id.String())

	return toConfig(row)
}

// AnalyzeFields derives the bulk editor's uniform/absent/mixed view for a
// group of fields of the stored config.
func (s *Service) AnalyzeFields(ctx context.Context, id uuid.UUID, fieldIDs []string) (builder.FieldAnalysis, error) {
	ctx, span := s.tracer.Start(ctx, "AnalyzeFields")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_configs", "id", id.String(), logger, "get survey config for analysis")
		span.RecordError(err)
		return builder.FieldAnalysis{}, err
	}

	cfg, err := toConfig(row)
	if err != nil {
		span.RecordError(err)
		return builder.FieldAnalysis{}, err
	}

	return builder.AnalyzeFields(&cfg, fieldIDs), nil
}

// ApplyBulk overwrites one or more field properties to an explicit value
// across a group of fields and persists the result.
func (s *Service) ApplyBulk(ctx context.Context, id uuid.UUID, fieldIDs []string, update builder.BulkUpdate) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "ApplyBulk")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_configs", "id", id.String(), logger, "get survey config for bulk edit")
		span.RecordError(err)
		return survey.Config{}, err
	}

	cfg, err := toConfig(row)
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, err
	}

	state, err := builder.ApplyBulk(builder.State{Config: cfg}, fieldIDs, update, s.now)
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, err
	}

	sections, err := json.Marshal(state.Config.Sections)
	if err != nil {
		span.RecordError(err)
		return survey.Config{}, fmt.Errorf("failed to marshal sections: %w", err)
	}

	dbParams := map[string]interface{}{
		"id":     id.String(),
		"fields": len(fieldIDs),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "UpdateSections", dbParams)

	updated, err := s.queries.UpdateSections(ctx, UpdateSectionsParams{
		ID:        id,
		Sections:  sections,
		UpdatedAt: pgtype.Timestamptz{Time: state.Config.Metadata.UpdatedAt, Valid: true},
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "bulk update survey fields")
		span.RecordError(err)
		return survey.Config{}, err
	}

	tracker.SuccessWrite(id.String())

	return toConfig(updated)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) (survey.Config, error) {
	ctx, span := s.tracer.Start(ctx, "SetActive")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"id":        id.String(),
		"is_active": isActive,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "SetActive", dbParams)

	row, err := s.queries.SetActive(ctx, SetActiveParams{ID: id, IsActive: isActive})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "set survey active state")
		span.RecordError(err)
		return survey.Config{}, err
	}

	tracker.SuccessWrite(id.String())

	return toConfig(row)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	dbParams := map[string]interface{}{
		"id": id.String(),
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Delete", dbParams)

	if err := s.queries.Delete(ctx, id); err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "delete survey config")
		span.RecordError(err)
		return err
	}

	tracker.SuccessWrite(id.String())

	return nil
}

func toConfig(row SurveyConfig) (survey.Config, error) {
	var sections []survey.Section
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &sections); err != nil {
			return survey.Config{}, fmt.Errorf("corrupted section tree for survey config %s: %w: %w", row.ID, err, internal.ErrInternalServerError)
		}
	}

	cfg := survey.Config{
		ID:          row.ID.String(),
		Title:       row.Title,
		Description: row.Description.String,
		Sections:    sections,
		Version:     int(row.Version),
		IsActive:    row.IsActive,
		Metadata: survey.Metadata{
			CreatedAt: row.CreatedAt.Time,
			UpdatedAt: row.UpdatedAt.Time,
		},
	}
	cfg.Normalize()
	return cfg, nil
}
