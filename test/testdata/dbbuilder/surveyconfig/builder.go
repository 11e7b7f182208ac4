package surveyconfigbuilder

import (
	"context"
	"encoding/json"
	"testing"

	"survey-studio/backend/internal/survey"
	"survey-studio/backend/internal/surveyconfig"
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

func (b Builder) Queries() *surveyconfig.Queries {
	return surveyconfig.New(b.db)
}

func (b Builder) Create(opts ...Option) surveyconfig.SurveyConfig {
	queries := b.Queries()

	p := &FactoryParams{
		Title:       testdata.RandomName(),
		Description: testdata.RandomDescription(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.Sections == nil {
		p.Sections = []survey.Section{}
	}

	sections, err := json.Marshal(p.Sections)
	require.NoError(b.t, err)

	row, err := queries.Create(context.Background(), surveyconfig.CreateParams{
		Title:       p.Title,
		Description: pgtype.Text{String: p.Description, Valid: p.Description != ""},
		Sections:    sections,
	})
	require.NoError(b.t, err)

	return row
}
