package export

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/survey"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type mockConfigStore struct {
	mock.Mock
}

func (m *mockConfigStore) GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error) {
	args := m.Called(ctx, id)
	cfg, _ := args.Get(0).(survey.Config)
	return cfg, args.Error(1)
}

func (m *mockConfigStore) Create(ctx context.Context, title, description string) (survey.Config, error) {
	args := m.Called(ctx, title, description)
	cfg, _ := args.Get(0).(survey.Config)
	return cfg, args.Error(1)
}

func (m *mockConfigStore) Save(ctx context.Context, id uuid.UUID, cfg survey.Config) (survey.Config, error) {
	args := m.Called(ctx, id, cfg)
	saved, _ := args.Get(0).(survey.Config)
	return saved, args.Error(1)
}

type mockOptionSetStore struct {
	mock.Mock
}

func (m *mockOptionSetStore) GetByID(ctx context.Context, id uuid.UUID) (optionset.OptionSet, error) {
	args := m.Called(ctx, id)
	set, _ := args.Get(0).(optionset.OptionSet)
	return set, args.Error(1)
}

func (m *mockOptionSetStore) Create(ctx context.Context, kind optionset.Kind, name, description string, options []survey.Option) (optionset.OptionSet, error) {
	args := m.Called(ctx, kind, name, description, options)
	set, _ := args.Get(0).(optionset.OptionSet)
	return set, args.Error(1)
}

type mockInstanceStore struct {
	mock.Mock
}

func (m *mockInstanceStore) GetByID(ctx context.Context, id uuid.UUID) (instance.Instance, error) {
	args := m.Called(ctx, id)
	inst, _ := args.Get(0).(instance.Instance)
	return inst, args.Error(1)
}

func (m *mockInstanceStore) Create(ctx context.Context, req instance.CreateRequest) (instance.Instance, error) {
	args := m.Called(ctx, req)
	inst, _ := args.Get(0).(instance.Instance)
	return inst, args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockConfigStore, *mockOptionSetStore, *mockInstanceStore) {
	t.Helper()

	configs := &mockConfigStore{}
	optionSets := &mockOptionSetStore{}
	instances := &mockInstanceStore{}
	return &Service{
		logger:     zap.NewNop(),
		tracer:     noop.NewTracerProvider().Tracer("test"),
		sourceName: "survey-studio-test",
		configs:    configs,
		optionSets: optionSets,
		instances:  instances,
		now:        func() time.Time { return testNow },
	}, configs, optionSets, instances
}

func TestService_Import_ConfigGoesThroughValidatedSave(t *testing.T) {
	t.Parallel()

	sections := []survey.Section{
		{
			ID:    "sec-1",
			Title: "Basics",
			Type:  survey.SectionTypePersonalInfo,
			Fields: []survey.Field{
				{ID: "f-name", Label: "Name", Type: survey.FieldTypeText},
			},
			Content: []survey.ContentRef{
				{Kind: survey.ContentKindField, ID: "f-name"},
			},
		},
	}

	env, err := NewEnvelope(EntitySurveyConfig, ConfigPayload{
		Title:    "Feedback",
		Sections: sections,
	}, Metadata{ExportedAt: testNow})
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)

	createdID := uuid.New()
	created := survey.Config{ID: createdID.String(), Title: "Feedback"}
	saved := created
	saved.Sections = sections

	service, configs, _, _ := newTestService(t)
	configs.On("Create", mock.Anything, "Feedback", "").Return(created, nil)
	configs.On("Save", mock.Anything, createdID, mock.MatchedBy(func(cfg survey.Config) bool {
		return len(cfg.Sections) == 1 && cfg.Sections[0].ID == "sec-1"
	})).Return(saved, nil)

	result, err := service.Import(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, EntitySurveyConfig, result.Type)
	require.Equal(t, createdID.String(), result.ID)
	configs.AssertExpectations(t)
}

func TestService_Import_OptionSetLandsInItsKind(t *testing.T) {
	t.Parallel()

	service, _, optionSets, _ := newTestService(t)
	optionSets.On("Create", mock.Anything, optionset.KindRadio, "Colors", "", []survey.Option{
		{Value: "red", Label: "Red"},
	}).Return(optionset.OptionSet{ID: "set-1", Kind: optionset.KindRadio, Name: "Colors"}, nil)

	result, err := service.Import(context.Background(), []byte(`{"name":"Colors","kind":"radio","options":[{"value":"red","label":"Red"}]}`))
	require.NoError(t, err)
	require.Equal(t, EntityRadioSet, result.Type)
	require.Equal(t, "set-1", result.ID)
}

func TestService_Import_InstanceDerivesMissingSlug(t *testing.T) {
	t.Parallel()

	configID := uuid.New()
	instanceID := uuid.New()

	service, _, _, instances := newTestService(t)
	instances.On("Create", mock.Anything, mock.MatchedBy(func(req instance.CreateRequest) bool {
		return req.ConfigID == configID && len(req.Slug) > len("spring-run-")
	})).Return(instance.Instance{ID: instanceID}, nil)

	data := []byte(`{"title":"Spring Run","configId":"` + configID.String() + `"}`)
	result, err := service.Import(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, instanceID.String(), result.ID)
	instances.AssertExpectations(t)
}
