package instance

import (
	"context"
	"errors"
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
	"survey-studio/backend/internal/cache"
	"survey-studio/backend/internal/survey"
)

// slugCacheTTL bounds staleness of the public slug lookup; invalidation on
// update/delete keeps the common path exact.
const slugCacheTTL = 5 * time.Minute

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (SurveyInstance, error)
	GetByID(ctx context.Context, id uuid.UUID) (SurveyInstance, error)
	GetBySlug(ctx context.Context, slug string) (SurveyInstance, error)
	List(ctx context.Context) ([]SurveyInstance, error)
	ListByConfigID(ctx context.Context, configID uuid.UUID) ([]SurveyInstance, error)
	ExistsBySlug(ctx context.Context, arg ExistsBySlugParams) (bool, error)
	Update(ctx context.Context, arg UpdateParams) (SurveyInstance, error)
	SetActive(ctx context.Context, arg SetActiveParams) (SurveyInstance, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResponseStore removes an instance's responses when the instance goes
// away. Wired to the response service at startup.
type ResponseStore interface {
	DeleteByInstanceID(ctx context.Context, instanceID uuid.UUID) error
}

type Service struct {
	logger        *zap.Logger
	queries       Querier
	tracer        trace.Tracer
	cache         *cache.Client
	responseStore ResponseStore
	now           func() time.Time
}

func NewService(logger *zap.Logger, db DBTX, cacheClient *cache.Client) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("instance/service"),
		cache:   cacheClient,
		now:     time.Now,
	}
}

// SetResponseStore attaches the response cascade. It is wired after
// construction because the response service resolves instances through
// this service.
func (s *Service) SetResponseStore(store ResponseStore) {
	s.responseStore = store
}

type CreateRequest struct {
	ConfigID    uuid.UUID
	Title       string
	Description string
	Slug        string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Instance, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		span.RecordError(err)
		return Instance{}, err
	}

	taken, err := s.queries.ExistsBySlug(ctx, ExistsBySlugParams{Slug: req.Slug})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check instance slug")
		span.RecordError(err)
		return Instance{}, err
	}
	if taken {
		err = fmt.Errorf("slug %q: %w", req.Slug, internal.ErrSlugAlreadyExists)
		span.RecordError(err)
		return Instance{}, err
	}

	dbParams := map[string]interface{}{
		"config_id": req.ConfigID.String(),
		"slug":      req.Slug,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Create", dbParams)

	row, err := s.queries.Create(ctx, CreateParams{
		ConfigID:    req.ConfigID,
		Title:       req.Title,
		Description: pgtype.Text{String: req.Description, Valid: true},
		Slug:        req.Slug,
		StartDate:   toTimestamptz(req.StartDate),
		EndDate:     toTimestamptz(req.EndDate),
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "create survey instance")
		span.RecordError(err)
		return Instance{}, err
	}

	tracker.SuccessWrite(row.ID.String())

	return toInstance(row), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Instance, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_instances", "id", id.String(), logger, "get survey instance")
		span.RecordError(err)
		return Instance{}, err
	}

	return toInstance(row), nil
}

// GetBySlug is the public lookup on the respondent path. It consults the
// slug cache first and falls back to the database on a miss.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Instance, error) {
	ctx, span := s.tracer.Start(ctx, "GetBySlug")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if cached, err := s.cache.Get(ctx, slugCacheKey(slug)); err == nil {
		if id, parseErr := uuid.Parse(cached); parseErr == nil {
			if row, dbErr := s.queries.GetByID(ctx, id); dbErr == nil {
				return toInstance(row), nil
			}
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("slug cache lookup failed", zap.String("slug", slug), zap.Error(err))
	}

	row, err := s.queries.GetBySlug(ctx, slug)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_instances", "slug", slug, logger, "get survey instance by slug")
		span.RecordError(err)
		return Instance{}, err
	}

	if err := s.cache.Set(ctx, slugCacheKey(slug), row.ID.String(), slugCacheTTL); err != nil {
		logger.Warn("slug cache store failed", zap.String("slug", slug), zap.Error(err))
	}

	return toInstance(row), nil
}

// GetActiveBySlug resolves a slug and enforces the lifecycle: inactive or
// out-of-range instances are not served to respondents.
func (s *Service) GetActiveBySlug(ctx context.Context, slug string) (Instance, error) {
	ctx, span := s.tracer.Start(ctx, "GetActiveBySlug")
	defer span.End()

	inst, err := s.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return Instance{}, err
	}

	if !inst.ActiveAt(s.now()) {
		err = fmt.Errorf("slug %q: %w", slug, internal.ErrInstanceNotActive)
		span.RecordError(err)
		return Instance{}, err
	}

	return inst, nil
}

func (s *Service) List(ctx context.Context) ([]Instance, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "List", nil)

	rows, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list survey instances")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), "")

	return toInstances(rows), nil
}

func (s *Service) ListByConfigID(ctx context.Context, configID uuid.UUID) ([]Instance, error) {
	ctx, span := s.tracer.Start(ctx, "ListByConfigID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tracker := logutil.StartDBOperation(ctx, logger, "ListByConfigID", map[string]interface{}{"config_id": configID.String()})

	rows, err := s.queries.ListByConfigID(ctx, configID)
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "list survey instances by config")
		span.RecordError(err)
		return nil, err
	}

	tracker.SuccessRead(len(rows), configID.String())

	return toInstances(rows), nil
}

type UpdateRequest struct {
	Title       string
	Description string
	Slug        string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Instance, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	if err := validateDateRange(req.StartDate, req.EndDate); err != nil {
		span.RecordError(err)
		return Instance{}, err
	}

	current, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_instances", "id", id.String(), logger, "get survey instance for update")
		span.RecordError(err)
		return Instance{}, err
	}

	taken, err := s.queries.ExistsBySlug(ctx, ExistsBySlugParams{Slug: req.Slug, ID: id})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check instance slug")
		span.RecordError(err)
		return Instance{}, err
	}
	if taken {
		err = fmt.Errorf("slug %q: %w", req.Slug, internal.ErrSlugAlreadyExists)
		span.RecordError(err)
		return Instance{}, err
	}

	dbParams := map[string]interface{}{
		"id":   id.String(),
		"slug": req.Slug,
	}
	tracker := logutil.StartDBOperation(ctx, logger, "Update", dbParams)

	row, err := s.queries.Update(ctx, UpdateParams{
		ID:          id,
		Title:       req.Title,
		Description: pgtype.Text{String: req.Description, Valid: true},
		Slug:        req.Slug,
		StartDate:   toTimestamptz(req.StartDate),
		EndDate:     toTimestamptz(req.EndDate),
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "update survey instance")
		span.RecordError(err)
		return Instance{}, err
	}

	tracker.SuccessWrite(id.String())

	if err := s.cache.Del(ctx, slugCacheKey(current.Slug), slugCacheKey(req.Slug)); err != nil {
		logger.Warn("slug cache invalidation failed", zap.String("slug", req.Slug), zap.Error(err))
	}

	return toInstance(row), nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) (Instance, error) {
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
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "set survey instance active state")
		span.RecordError(err)
		return Instance{}, err
	}

	tracker.SuccessWrite(id.String())

	return toInstance(row), nil
}

// Delete removes the instance, its responses and its cache entry. The
// response cascade runs first so a crash cannot leave responses without an
// owning instance while the instance still resolves.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	current, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "survey_instances", "id", id.String(), logger, "get survey instance for delete")
		span.RecordError(err)
		return err
	}

	if s.responseStore != nil {
		if err := s.responseStore.DeleteByInstanceID(ctx, id); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to cascade responses for instance %s: %w", id, err)
		}
	}

	tracker := logutil.StartDBOperation(ctx, logger, "Delete", map[string]interface{}{"id": id.String()})

	if err := s.queries.Delete(ctx, id); err != nil {
		err = databaseutil.WrapDBErrorWithTracker(err, tracker, "delete survey instance")
		span.RecordError(err)
		return err
	}

	tracker.SuccessWrite(id.String())

	if err := s.cache.Del(ctx, slugCacheKey(current.Slug)); err != nil {
		logger.Warn("slug cache invalidation failed", zap.String("slug", current.Slug), zap.Error(err))
	}

	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return internal.ErrInvalidDateRange
	}
	return nil
}

func slugCacheKey(slug string) string {
	return "instance:slug:" + slug
}

func toTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func toInstance(row SurveyInstance) Instance {
	inst := Instance{
		ID:          row.ID,
		ConfigID:    row.ConfigID,
		Title:       row.Title,
		Description: row.Description.String,
		Slug:        row.Slug,
		IsActive:    row.IsActive,
		Metadata: survey.Metadata{
			CreatedAt: row.CreatedAt.Time,
			UpdatedAt: row.UpdatedAt.Time,
		},
	}
	if row.StartDate.Valid {
		start := row.StartDate.Time
		inst.StartDate = &start
	}
	if row.EndDate.Valid {
		end := row.EndDate.Time
		inst.EndDate = &end
	}
	return inst
}

func toInstances(rows []SurveyInstance) []Instance {
	instances := make([]Instance, 0, len(rows))
	for _, row := range rows {
		instances = append(instances, toInstance(row))
	}
	return instances
}
