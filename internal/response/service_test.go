package response

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/survey"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) CreateResponse(ctx context.Context, arg CreateResponseParams) (SurveyResponse, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveyResponse)
	return row, args.Error(1)
}

func (m *mockQuerier) GetResponseByID(ctx context.Context, id uuid.UUID) (SurveyResponse, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(SurveyResponse)
	return row, args.Error(1)
}

func (m *mockQuerier) ListResponsesByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]SurveyResponse, error) {
	args := m.Called(ctx, instanceID)
	rows, _ := args.Get(0).([]SurveyResponse)
	return rows, args.Error(1)
}

func (m *mockQuerier) DeleteResponse(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockQuerier) DeleteResponsesByInstanceID(ctx context.Context, instanceID uuid.UUID) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

func (m *mockQuerier) CreateSession(ctx context.Context, arg CreateSessionParams) (SurveySession, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveySession)
	return row, args.Error(1)
}

func (m *mockQuerier) GetSessionByID(ctx context.Context, id uuid.UUID) (SurveySession, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(SurveySession)
	return row, args.Error(1)
}

func (m *mockQuerier) ListSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]SurveySession, error) {
	args := m.Called(ctx, instanceID)
	rows, _ := args.Get(0).([]SurveySession)
	return rows, args.Error(1)
}

func (m *mockQuerier) UpdateSessionStatus(ctx context.Context, arg UpdateSessionStatusParams) (SurveySession, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(SurveySession)
	return row, args.Error(1)
}

func (m *mockQuerier) DeleteSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

type mockInstanceStore struct {
	mock.Mock
}

func (m *mockInstanceStore) GetActiveBySlug(ctx context.Context, slug string) (instance.Instance, error) {
	args := m.Called(ctx, slug)
	inst, _ := args.Get(0).(instance.Instance)
	return inst, args.Error(1)
}

type mockConfigStore struct {
	mock.Mock
}

func (m *mockConfigStore) GetByID(ctx context.Context, id uuid.UUID) (survey.Config, error) {
	args := m.Called(ctx, id)
	cfg, _ := args.Get(0).(survey.Config)
	return cfg, args.Error(1)
}

type mockScaleSource struct {
	mock.Mock
}

func (m *mockScaleSource) LoadRegistry(ctx context.Context, kind optionset.Kind) (*optionset.Registry, error) {
	args := m.Called(ctx, kind)
	registry, _ := args.Get(0).(*optionset.Registry)
	return registry, args.Error(1)
}

type testDeps struct {
	queries   *mockQuerier
	instances *mockInstanceStore
	configs   *mockConfigStore
	scales    *mockScaleSource
}

func newTestService(t *testing.T) (*Service, testDeps) {
	t.Helper()

	deps := testDeps{
		queries:   &mockQuerier{},
		instances: &mockInstanceStore{},
		configs:   &mockConfigStore{},
		scales:    &mockScaleSource{},
	}
	return &Service{
		logger:    zap.NewNop(),
		queries:   deps.queries,
		tracer:    noop.NewTracerProvider().Tracer("test"),
		instances: deps.instances,
		configs:   deps.configs,
		scales:    deps.scales,
	}, deps
}

func submitConfig() survey.Config {
	return survey.Config{
		ID:    uuid.NewString(),
		Title: "Feedback",
		Sections: []survey.Section{
			{
				ID:    "sec-1",
				Title: "Basics",
				Type:  survey.SectionTypePersonalInfo,
				Fields: []survey.Field{
					{ID: "f-name", Label: "Name", Type: survey.FieldTypeText, Required: true},
					{ID: "f-color", Label: "Color", Type: survey.FieldTypeRadio, Options: []survey.Option{
						{Label: "Red", Value: "red"},
						{Label: "Blue", Value: "blue"},
					}},
				},
				Content: []survey.ContentRef{
					{Kind: survey.ContentKindField, ID: "f-name"},
					{Kind: survey.ContentKindField, ID: "f-color"},
				},
			},
		},
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "started to in_progress", from: StatusStarted, to: StatusInProgress, want: true},
		{name: "started to completed", from: StatusStarted, to: StatusCompleted, want: true},
		{name: "in_progress to completed", from: StatusInProgress, to: StatusCompleted, want: true},
		{name: "in_progress to abandoned", from: StatusInProgress, to: StatusAbandoned, want: true},
		{name: "in_progress to expired", from: StatusInProgress, to: StatusExpired, want: true},
		{name: "in_progress back to started", from: StatusInProgress, to: StatusStarted, want: false},
		{name: "completed is frozen", from: StatusCompleted, to: StatusInProgress, want: false},
		{name: "abandoned is frozen", from: StatusAbandoned, to: StatusCompleted, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	inst := instance.Instance{ID: uuid.New(), ConfigID: uuid.New(), Slug: "feedback", IsActive: true}

	t.Run("missing required field rejects the submission", func(t *testing.T) {
		t.Parallel()

		service, deps := newTestService(t)
		deps.instances.On("GetActiveBySlug", mock.Anything, "feedback").Return(inst, nil)
		deps.configs.On("GetByID", mock.Anything, inst.ConfigID).Return(submitConfig(), nil)

		_, err := service.Submit(context.Background(), "feedback", SubmitRequest{
			Answers: map[string]json.RawMessage{
				"f-color": json.RawMessage(`"red"`),
			},
		})
		require.ErrorIs(t, err, internal.ErrAnswerValidation)
		deps.queries.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything)
	})

	t.Run("unknown option value rejects the submission", func(t *testing.T) {
		t.Parallel()

		service, deps := newTestService(t)
		deps.instances.On("GetActiveBySlug", mock.Anything, "feedback").Return(inst, nil)
		deps.configs.On("GetByID", mock.Anything, inst.ConfigID).Return(submitConfig(), nil)

		_, err := service.Submit(context.Background(), "feedback", SubmitRequest{
			Answers: map[string]json.RawMessage{
				"f-name":  json.RawMessage(`"Ada"`),
				"f-color": json.RawMessage(`"green"`),
			},
		})
		require.ErrorIs(t, err, internal.ErrAnswerValidation)
		deps.queries.AssertNotCalled(t, "CreateResponse", mock.Anything, mock.Anything)
	})

	t.Run("valid submission stores answers and completes the session", func(t *testing.T) {
		t.Parallel()

		sessionID := uuid.New()
		responseID := uuid.New()
		answers := map[string]json.RawMessage{
			"f-name":  json.RawMessage(`"Ada"`),
			"f-color": json.RawMessage(`"red"`),
		}
		encoded, err := json.Marshal(answers)
		require.NoError(t, err)

		service, deps := newTestService(t)
		deps.instances.On("GetActiveBySlug", mock.Anything, "feedback").Return(inst, nil)
		deps.configs.On("GetByID", mock.Anything, inst.ConfigID).Return(submitConfig(), nil)
		deps.queries.On("CreateResponse", mock.Anything, CreateResponseParams{
			InstanceID: inst.ID,
			SessionID:  sessionID,
			Answers:    encoded,
		}).Return(SurveyResponse{ID: responseID, InstanceID: inst.ID, SessionID: sessionID, Answers: encoded}, nil)
		deps.queries.On("GetSessionByID", mock.Anything, sessionID).Return(SurveySession{
			ID:         sessionID,
			InstanceID: inst.ID,
			Status:     string(StatusInProgress),
		}, nil)
		deps.queries.On("UpdateSessionStatus", mock.Anything, UpdateSessionStatusParams{
			ID:     sessionID,
			Status: string(StatusCompleted),
		}).Return(SurveySession{ID: sessionID, Status: string(StatusCompleted)}, nil)

		resp, err := service.Submit(context.Background(), "feedback", SubmitRequest{
			SessionID: sessionID,
			Answers:   answers,
		})
		require.NoError(t, err)
		require.Equal(t, responseID, resp.ID)
		require.Equal(t, json.RawMessage(`"red"`), resp.Answers["f-color"])
		deps.queries.AssertExpectations(t)
	})
}

func TestService_UpdateSessionStatus(t *testing.T) {
	t.Parallel()

	sessionID := uuid.New()

	t.Run("terminal session rejects further transitions", func(t *testing.T) {
		t.Parallel()

		service, deps := newTestService(t)
		deps.queries.On("GetSessionByID", mock.Anything, sessionID).Return(SurveySession{
			ID:     sessionID,
			Status: string(StatusCompleted),
		}, nil)

		_, err := service.UpdateSessionStatus(context.Background(), sessionID, StatusInProgress)
		require.ErrorIs(t, err, internal.ErrInvalidSessionStatus)
		deps.queries.AssertNotCalled(t, "UpdateSessionStatus", mock.Anything, mock.Anything)
	})

	t.Run("forward transition is applied", func(t *testing.T) {
		t.Parallel()

		service, deps := newTestService(t)
		deps.queries.On("GetSessionByID", mock.Anything, sessionID).Return(SurveySession{
			ID:     sessionID,
			Status: string(StatusStarted),
		}, nil)
		deps.queries.On("UpdateSessionStatus", mock.Anything, UpdateSessionStatusParams{
			ID:     sessionID,
			Status: string(StatusInProgress),
		}).Return(SurveySession{ID: sessionID, Status: string(StatusInProgress)}, nil)

		session, err := service.UpdateSessionStatus(context.Background(), sessionID, StatusInProgress)
		require.NoError(t, err)
		require.Equal(t, StatusInProgress, session.Status)
	})
}
