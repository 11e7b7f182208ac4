package instancebuilder

import (
	"context"
	"testing"
	"time"

	"survey-studio/backend/internal/instance"
	"survey-studio/backend/test/testdata"
	"survey-studio/backend/test/testdata/dbbuilder"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Queries() *instance.Queries {
	return instance.New(b.db)
}

func (b Builder) Create(opts ...Option) instance.SurveyInstance {
	queries := b.Queries()

	p := &FactoryParams{
		Title:       testdata.RandomName(),
		Description: testdata.RandomDescription(),
		Slug:        testdata.RandomSlug(),
	}
	for _, opt := range opts {
		opt(p)
	}

	startDate := pgtype.Timestamptz{Valid: false}
	if p.StartDate != nil {
		startDate = pgtype.Timestamptz{Time: *p.StartDate, Valid: true}
	}

	endDate := pgtype.Timestamptz{Valid: false}
	if p.EndDate != nil {
		endDate = pgtype.Timestamptz{Time: *p.EndDate, Valid: true}
	}

	row, err := queries.Create(context.Background(), instance.CreateParams{
		ConfigID:    p.ConfigID,
		Title:       p.Title,
		Description: pgtype.Text{String: p.Description, Valid: p.Description != ""},
		Slug:        p.Slug,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	require.NoError(b.t, err)

	return row
}

// Window is a convenience for WithStartDate plus WithEndDate around now.
func Window(before, after time.Duration) (start, end time.Time) {
	now := time.Now().UTC()
	return now.Add(-before), now.Add(after)
}
