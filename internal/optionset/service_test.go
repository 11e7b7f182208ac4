package optionset

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/survey"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (OptionSetRow, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(OptionSetRow)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (OptionSetRow, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(OptionSetRow)
	return row, args.Error(1)
}

func (m *mockQuerier) ListByKind(ctx context.Context, kind string) ([]OptionSetRow, error) {
	args := m.Called(ctx, kind)
	rows, _ := args.Get(0).([]OptionSetRow)
	return rows, args.Error(1)
}

func (m *mockQuerier) ExistsByKindAndName(ctx context.Context, arg ExistsByKindAndNameParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuerier) Update(ctx context.Context, arg UpdateParams) (OptionSetRow, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(OptionSetRow)
	return row, args.Error(1)
}

func (m *mockQuerier) SetActive(ctx context.Context, arg SetActiveParams) (OptionSetRow, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(OptionSetRow)
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
		now:     func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}, q
}

func TestService_Create_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	service, q := newTestService(t)
	q.On("ExistsByKindAndName", mock.Anything, ExistsByKindAndNameParams{
		Kind: "rating_scale",
		Name: "Agreement",
	}).Return(true, nil)

	_, err := service.Create(context.Background(), KindRatingScale, "Agreement", "", nil)
	require.ErrorIs(t, err, internal.ErrOptionSetNameTaken)
	q.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Update_AllowsKeepingOwnName(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	service, q := newTestService(t)

	q.On("GetByID", mock.Anything, id).Return(OptionSetRow{ID: id, Kind: "radio", Name: "Colors"}, nil)
	q.On("ExistsByKindAndName", mock.Anything, ExistsByKindAndNameParams{
		Kind: "radio",
		Name: "Colors",
		ID:   id,
	}).Return(false, nil)
	q.On("Update", mock.Anything, mock.MatchedBy(func(arg UpdateParams) bool {
		return arg.ID == id && arg.Name == "Colors"
	})).Return(OptionSetRow{ID: id, Kind: "radio", Name: "Colors", Options: []byte(`[]`)}, nil)

	got, err := service.Update(context.Background(), id, "Colors", "", []survey.Option{})
	require.NoError(t, err)
	require.Equal(t, "Colors", got.Name)
	q.AssertExpectations(t)
}
