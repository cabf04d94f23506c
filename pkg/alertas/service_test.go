package alertas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"domly/pkg/notify"
	"domly/pkg/testhelpers"
)

type mockAlertaRepository struct {
	mock.Mock
}

func (m *mockAlertaRepository) CreateAlerta(ctx context.Context, ativoID string, in Input) (Alerta, error) {
	args := m.Called(ctx, ativoID, in)
	a, _ := args.Get(0).(Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaRepository) GetAlertaByID(ctx context.Context, id string) (Alerta, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaRepository) UpdateEstado(ctx context.Context, id, estado string) (Alerta, error) {
	args := m.Called(ctx, id, estado)
	a, _ := args.Get(0).(Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaRepository) DeleteAlerta(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAlertaRepository) ListByAtivo(ctx context.Context, ativoID string) ([]Alerta, error) {
	args := m.Called(ctx, ativoID)
	a, _ := args.Get(0).([]Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaRepository) ListByUser(ctx context.Context, userID string) ([]AlertaView, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).([]AlertaView)
	return a, args.Error(1)
}

func newTestService() (AlertaService, *mockAlertaRepository, *testhelpers.RecordingPublisher) {
	repo := new(mockAlertaRepository)
	events := testhelpers.NewRecordingPublisher()
	owners := testhelpers.OwnerChecker{"a1": "u1", "al1": "u1"}
	return NewAlertaService(repo, owners, events, zap.NewNop()), repo, events
}

func TestAlertaService_Create_PublishesEvent(t *testing.T) {
	svc, repo, events := newTestService()
	ctx := context.Background()
	in := Input{Tipo: "avaria", Titulo: "Fuga de água", Mensagem: "Cave inundada"}
	repo.On("CreateAlerta", ctx, "a1", in).Return(Alerta{ID: "al1", AtivoID: "a1", Tipo: "avaria", Titulo: in.Titulo, Estado: EstadoPendente}, nil)

	a, err := svc.CreateAlerta(ctx, "u1", "a1", Input{Tipo: "avaria", Titulo: "  Fuga de água ", Mensagem: "Cave inundada"})
	require.NoError(t, err)
	require.Equal(t, EstadoPendente, a.Estado)

	got := events.Events("u1")
	require.Len(t, got, 1)
	require.Equal(t, notify.EventAlertaCriado, got[0].EventType)
	require.Equal(t, "al1", got[0].AlertaID)
}

func TestAlertaService_Create_ForeignAtivo(t *testing.T) {
	svc, repo, events := newTestService()

	_, err := svc.CreateAlerta(context.Background(), "u2", "a1", Input{Tipo: "avaria", Titulo: "x"})
	require.ErrorIs(t, err, ErrAtivoNotFound)
	repo.AssertNotCalled(t, "CreateAlerta", mock.Anything, mock.Anything, mock.Anything)
	require.Empty(t, events.Events("u2"))
}

func TestAlertaService_Create_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAlerta(ctx, "u1", "a1", Input{Tipo: "incendio", Titulo: "x"})
	require.ErrorIs(t, err, ErrInvalidTipo)
	_, err = svc.CreateAlerta(ctx, "u1", "a1", Input{Tipo: "outro", Titulo: " "})
	require.ErrorIs(t, err, ErrTituloMissing)
}

func TestAlertaService_Resolve(t *testing.T) {
	svc, repo, events := newTestService()
	ctx := context.Background()
	repo.On("UpdateEstado", ctx, "al1", EstadoResolvido).Return(Alerta{ID: "al1", AtivoID: "a1", Estado: EstadoResolvido}, nil)
	repo.On("UpdateEstado", ctx, "al1", EstadoPendente).Return(Alerta{ID: "al1", AtivoID: "a1", Estado: EstadoPendente}, nil)

	_, err := svc.UpdateEstado(ctx, "u1", "al1", EstadoResolvido)
	require.NoError(t, err)
	_, err = svc.UpdateEstado(ctx, "u1", "al1", EstadoPendente)
	require.NoError(t, err)

	got := events.Events("u1")
	require.Len(t, got, 1)
	require.Equal(t, notify.EventAlertaResolvido, got[0].EventType)

	_, err = svc.UpdateEstado(ctx, "u1", "al1", "arquivado")
	require.ErrorIs(t, err, ErrInvalidEstado)
	_, err = svc.UpdateEstado(ctx, "u2", "al1", EstadoResolvido)
	require.ErrorIs(t, err, ErrAlertaNotFound)
}

func TestAlertaService_Delete(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	repo.On("DeleteAlerta", ctx, "al1").Return(nil)

	require.NoError(t, svc.DeleteAlerta(ctx, "u1", "al1"))
	require.ErrorIs(t, svc.DeleteAlerta(ctx, "u1", "missing"), ErrAlertaNotFound)
	repo.AssertNumberOfCalls(t, "DeleteAlerta", 1)
}
