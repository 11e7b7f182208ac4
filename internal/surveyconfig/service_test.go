package surveyconfig

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
	"survey-studio/backend/internal/survey/builder"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (SurveyConfig, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveyConfig)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (SurveyConfig, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(SurveyConfig)
	return row, args.Error(1)
}

func (m *mockQuerier) List(ctx context.Context) ([]SurveyConfig, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]SurveyConfig)
	return rows, args.Error(1)
}

func (m *mockQuerier) UpdateMeta(ctx context.Context, arg UpdateMetaParams) (SurveyConfig, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveyConfig)
	return row, args.Error(1)
}

func (m *mockQuerier) UpdateSections(ctx context.Context, arg UpdateSectionsParams) (SurveyConfig, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveyConfig)
	return row, args.Error(1)
}

func (m *mockQuerier) Save(ctx context.Context, arg SaveParams) (SurveyConfig, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveyConfig)
	return row, args.Error(1)
}

func (m *mockQuerier) SetActive(ctx context.Context, arg SetActiveParams) (SurveyConfig, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveyConfig)
	return row, args.Error(1)
}

func (m *mockQuerier) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(t *testing.T) (*Service, *mockQuerier) {
	t.Helper()

	q := &mockQuerier{}
	return &Service{
		logger:  zap.NewNop(),
		queries: q,
		tracer:  noop.NewTracerProvider().Tracer("test"),
		now:     func() time.Time { return testNow },
	}, q
}

func mustJSONMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func storedRow(t *testing.T, id uuid.UUID, sections []survey.Section) SurveyConfig {
	t.Helper()
	return SurveyConfig{
		ID:          id,
		Title:       "Feedback",
		Description: pgtype.Text{String: "Quarterly", Valid: true},
		Sections:    mustJSONMarshal(t, sections),
		Version:     1,
		CreatedAt:   pgtype.Timestamptz{Time: testNow.Add(-time.Hour), Valid: true},
		UpdatedAt:   pgtype.Timestamptz{Time: testNow.Add(-time.Hour), Valid: true},
	}
}

func TestService_ApplyCommands(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	sections := []survey.Section{
		{
			ID:    "sec-1",
			Title: "Main",
			Fields: []survey.Field{
				{ID: "f-1", Label: "Name", Type: survey.FieldTypeText, Options: []survey.Option{}},
			},
			Subsections: []survey.Subsection{},
			Content: []survey.ContentRef{
				{Kind: survey.ContentKindField, RefID: "f-1"},
			},
		},
	}

	t.Run("batch applies and persists with the builder's timestamp", func(t *testing.T) {
		t.Parallel()

		service, q := newTestService(t)
		q.On("GetByID", mock.Anything, id).Return(storedRow(t, id, sections), nil)
		q.On("UpdateSections", mock.Anything, mock.MatchedBy(func(arg UpdateSectionsParams) bool {
			var got []survey.Section
			require.NoError(t, json.Unmarshal(arg.Sections, &got))
			return arg.ID == id &&
				arg.UpdatedAt.Time.Equal(testNow) &&
				len(got) == 1 &&
				len(got[0].Fields) == 2
		})).Return(storedRow(t, id, sections), nil)

		_, err := service.ApplyCommands(context.Background(), id, []builder.Command{
			builder.AddField{
				SectionID: "sec-1",
				Field:     survey.Field{ID: "f-2", Label: "Email", Type: survey.FieldTypeEmail},
			},
		})
		require.NoError(t, err)
		q.AssertExpectations(t)
	})

	t.Run("failing command aborts before any write", func(t *testing.T) {
		t.Parallel()

		service, q := newTestService(t)
		q.On("GetByID", mock.Anything, id).Return(storedRow(t, id, sections), nil)

		_, err := service.ApplyCommands(context.Background(), id, []builder.Command{
			builder.AddField{
				SectionID: "sec-1",
				Field:     survey.Field{ID: "f-2", Label: "Email", Type: survey.FieldTypeEmail},
			},
			builder.ReorderSections{FromIndex: 0, ToIndex: 9},
		})
		require.ErrorIs(t, err, internal.ErrIndexOutOfRange)
		q.AssertNotCalled(t, "UpdateSections", mock.Anything, mock.Anything)
	})
}

func TestService_GetByID_KeepsStoredTimestamps(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	service, q := newTestService(t)
	q.On("GetByID", mock.Anything, id).Return(storedRow(t, id, []survey.Section{}), nil)

	got, err := service.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, testNow.Add(-time.Hour), got.Metadata.CreatedAt)
	require.Equal(t, testNow.Add(-time.Hour), got.Metadata.UpdatedAt)
}

func TestService_ApplyBulk(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	sections := []survey.Section{
		{
			ID:    "sec-1",
			Title: "Main",
			Fields: []survey.Field{
				{ID: "f-1", Label: "Name", Type: survey.FieldTypeText, Options: []survey.Option{}},
				{ID: "f-2", Label: "Email", Type: survey.FieldTypeEmail, Options: []survey.Option{}},
			},
			Subsections: []survey.Subsection{},
			Content: []survey.ContentRef{
				{Kind: survey.ContentKindField, RefID: "f-1"},
				{Kind: survey.ContentKindField, RefID: "f-2"},
			},
		},
	}

	t.Run("overwrites the property on every target field", func(t *testing.T) {
		t.Parallel()

		service, q := newTestService(t)
		q.On("GetByID", mock.Anything, id).Return(storedRow(t, id, sections), nil)
		q.On("UpdateSections", mock.Anything, mock.MatchedBy(func(arg UpdateSectionsParams) bool {
			var got []survey.Section
			require.NoError(t, json.Unmarshal(arg.Sections, &got))
			return arg.ID == id &&
				arg.UpdatedAt.Time.Equal(testNow) &&
				got[0].Fields[0].Required &&
				got[0].Fields[1].Required
		})).Return(storedRow(t, id, sections), nil)

		_, err := service.ApplyBulk(context.Background(), id, []string{"f-1", "f-2"}, builder.BulkUpdate{
			Required: boolPtr(true),
		})
		require.NoError(t, err)
		q.AssertExpectations(t)
	})

	t.Run("unknown field aborts the batch before any write", func(t *testing.T) {
		t.Parallel()

		service, q := newTestService(t)
		q.On("GetByID", mock.Anything, id).Return(storedRow(t, id, sections), nil)

		_, err := service.ApplyBulk(context.Background(), id, []string{"f-1", "f-missing"}, builder.BulkUpdate{
			Required: boolPtr(true),
		})
		require.ErrorIs(t, err, internal.ErrFieldNotFound)
		q.AssertNotCalled(t, "UpdateSections", mock.Anything, mock.Anything)
	})
}

func TestService_Save(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("valid config is persisted with a version bump", func(t *testing.T) {
		t.Parallel()

		cfg := survey.Config{
			Title: "Feedback",
			Sections: []survey.Section{
				{
					ID: "sec-1",
					Fields: []survey.Field{
						{
							ID:   "f-1",
							Type: survey.FieldTypeRadio,
							Options: []survey.Option{
								{Value: "y", Label: "Yes"},
								{Value: "n", Label: "No"},
							},
						},
					},
				},
			},
		}

		service, q := newTestService(t)
		saved := storedRow(t, id, cfg.Sections)
		saved.Version = 2
		q.On("Save", mock.Anything, mock.MatchedBy(func(arg SaveParams) bool {
			return arg.ID == id && arg.Title == "Feedback"
		})).Return(saved, nil)

		got, err := service.Save(context.Background(), id, cfg)
		require.NoError(t, err)
		require.Equal(t, 2, got.Version)
		q.AssertExpectations(t)
	})

	t.Run("option config violation rejects the whole save", func(t *testing.T) {
		t.Parallel()

		cfg := survey.Config{
			Title: "Feedback",
			Sections: []survey.Section{
				{
					ID: "sec-1",
					Fields: []survey.Field{
						{ID: "f-1", Label: "Pick one", Type: survey.FieldTypeRadio, Options: []survey.Option{}},
					},
				},
			},
		}

		service, q := newTestService(t)

		_, err := service.Save(context.Background(), id, cfg)
		require.ErrorIs(t, err, internal.ErrValidationFailed)
		q.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

// TestService_BuildRadioSurveyAndSave walks the authoring flow end to end:
// create sections and fields through commands, mark the field required, then
// pass save validation.
func TestService_BuildRadioSurveyAndSave(t *testing.T) {
	t.Parallel()

	state := builder.State{}
	var err error

	steps := []builder.Command{
		builder.SetConfig{Config: survey.Config{ID: "cfg-1", Title: "Feedback"}},
		builder.AddSection{Section: survey.Section{ID: "sec-1", Title: "Main", Type: survey.SectionTypeRadio}},
		builder.AddField{
			SectionID: "sec-1",
			Field: survey.Field{
				ID:   "f-1",
				Type: survey.FieldTypeRadio,
				Options: []survey.Option{
					{Value: "y", Label: "Yes"},
					{Value: "n", Label: "No"},
				},
			},
		},
		builder.UpdateField{SectionID: "sec-1", FieldID: "f-1", Required: boolPtr(true)},
	}
	for _, cmd := range steps {
		state, err = builder.Apply(state, cmd, testNow)
		require.NoError(t, err)
	}

	require.True(t, state.Config.FindSection("sec-1").Fields[0].Required)
	require.NoError(t, survey.ValidateForSave(state.Config))
}

func boolPtr(b bool) *bool { return &b }
