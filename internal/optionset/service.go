package optionset

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
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (OptionSetRow, error)
	GetByID(ctx context.Context, id uuid.UUID) (OptionSetRow, error)
	ListByKind(ctx context.Context, kind string) ([]OptionSetRow, error)
	ExistsByKindAndName(ctx context.Context, arg ExistsByKindAndNameParams) (bool, error)
	Update(ctx context.Context, arg UpdateParams) (OptionSetRow, error)
	SetActive(ctx context.Context, arg SetActiveParams) (OptionSetRow, error)
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
		tracer:  otel.Tracer("optionset/service"),
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, kind Kind, name, description string, options []survey.Option) (OptionSet, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	taken, err := s.queries.ExistsByKindAndName(ctx, ExistsByKindAndNameParams{
		Kind: string(kind),
		Name: name,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check option set name")
		span.RecordError(err)
		return OptionSet{}, err
	}
	if taken {
		err = fmt.Errorf("%s %q: %w", kind, name, internal.ErrOptionSetNameTaken)
		span.RecordError(err)
		return OptionSet{}, err
	}

	encoded, err := json.Marshal(nonNilOptions(options))
	if err != nil {
		span.RecordError(err)
		return OptionSet{}, fmt.Errorf("failed to marshal options: %w", err)
	}

	dbParams := map[string]interface{}{
		"kind": string(kind),
		"name": name,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	row, err := s.queries.Create(ctx, CreateParams{
		Kind:        string(kind),
		Name:        name,
		Description: pgtype.Text{String: description, Valid: true},
		Options:     encoded,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create option set")
		span.RecordError(err)
		return OptionSet{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toOptionSet(row)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (OptionSet, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "option_sets", "id", id.String(), logger, "get option set")
		span.RecordError(err)
		return OptionSet{}, err
	}

	return toOptionSet(row)
}

func (s *Service) ListByKind(ctx context.Context, kind Kind) ([]OptionSet, error) {
	ctx, span := s.tracer.Start(ctx, "ListByKind")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "ListByKind", map[string]interface{}{"kind": string(kind)})

	rows, err := s.queries.ListByKind(ctx, string(kind))
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list option sets")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), string(kind))

	sets := make([]OptionSet, 0, len(rows))
	for _, row := range rows {
		set, err := toOptionSet(row)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		sets = append(sets, set)
	}

	return sets, nil
}

// LoadRegistry snapshots one kind into an in-memory registry for option
// resolution.
func (s *Service) LoadRegistry(ctx context.Context, kind Kind) (*Registry, error) {
	ctx, span := s.tracer.Start(ctx, "LoadRegistry")
	defer span.End()

	sets, err := s.ListByKind(ctx, kind)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return NewRegistry(kind, sets, s.now()), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name, description string, options []survey.Option) (OptionSet, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	current, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "option_sets", "id", id.String(), logger, "get option set for update")
		span.RecordError(err)
		return OptionSet{}, err
	}

	taken, err := s.queries.ExistsByKindAndName(ctx, ExistsByKindAndNameParams{
		Kind: current.Kind,
		Name: name,
		ID:   id,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check option set name")
		span.RecordError(err)
		return OptionSet{}, err
	}
	if taken {
		err = fmt.Errorf("%s %q: %w", current.Kind, name, internal.ErrOptionSetNameTaken)
		span.RecordError(err)
		return OptionSet{}, err
	}

	encoded, err := json.Marshal(nonNilOptions(options))
	if err != nil {
		span.RecordError(err)
		return OptionSet{}, fmt.Errorf("failed to marshal options: %w", err)
	}

	dbParams := map[string]interface{}{
		"id":   id.String(),
		"name": name,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Update", dbParams)

	row, err := s.queries.Update(ctx, UpdateParams{
		ID:          id,
		Name:        name,
		Description: pgtype.Text{String: description, Valid: true},
		Options:     encoded,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "update option set")
		span.RecordError(err)
		return OptionSet{}, err
	}

	tracker.SuccessWrite(id.String())

	return toOptionSet(row)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) (OptionSet, error) {
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
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "set option set active state")
		span.RecordError(err)
		return OptionSet{}, err
	}

	tracker.SuccessWrite(id.String())

	return toOptionSet(row)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "Delete", map[string]interface{}{"id": id.String()})

	if err := s.queries.Delete(ctx, id); err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "delete option set")
		span.RecordError(err)
		return err
	}

	tracker.SuccessWrite(id.String())

	return nil
}

func nonNilOptions(options []survey.Option) []survey.Option {
	if options == nil {
		return []survey.Option{}
	}
	return options
}

func toOptionSet(row OptionSetRow) (OptionSet, error) {
	var options []survey.Option
	if len(row.Options) > 0 {
		if err := json.Unmarshal(row.Options, &options); err != nil {
			return OptionSet{}, fmt.Errorf("corrupted options for option set %s: %w: %w", row.ID, err, internal.ErrInternalServerError)
		}
	}
	if options == nil {
		options = []survey.Option{}
	}

	return OptionSet{
		ID:          row.ID.String(),
		Kind:        Kind(row.Kind),
		Name:        row.Name,
		Description: row.Description.String,
		Options:     options,
		IsActive:    row.IsActive,
		Metadata: survey.Metadata{
			CreatedAt: row.CreatedAt.Time,
			UpdatedAt: row.UpdatedAt.Time,
		},
	}, nil
}
