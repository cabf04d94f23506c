package alertas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"domly/pkg/middleware"
	"domly/pkg/response"
)

type mockAlertaService struct {
	mock.Mock
}

func (m *mockAlertaService) CreateAlerta(ctx context.Context, userID, ativoID string, in Input) (Alerta, error) {
	args := m.Called(ctx, userID, ativoID, in)
	a, _ := args.Get(0).(Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaService) ListByAtivo(ctx context.Context, userID, ativoID string) ([]Alerta, error) {
	args := m.Called(ctx, userID, ativoID)
	a, _ := args.Get(0).([]Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaService) ListByUser(ctx context.Context, userID string) ([]AlertaView, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).([]AlertaView)
	return a, args.Error(1)
}

func (m *mockAlertaService) UpdateEstado(ctx context.Context, userID, id, estado string) (Alerta, error) {
	args := m.Called(ctx, userID, id, estado)
	a, _ := args.Get(0).(Alerta)
	return a, args.Error(1)
}

func (m *mockAlertaService) DeleteAlerta(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func setupAlertaRouter(service AlertaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAlertaHandler(service).RegisterRoutes(r, middleware.WithUser("u1", "user"))
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.APIResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp response.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestAlertaHandler_Create(t *testing.T) {
	svc := new(mockAlertaService)
	r := setupAlertaRouter(svc)
	in := Input{Tipo: "limpeza", Titulo: "Escadas sujas"}
	svc.On("CreateAlerta", mock.Anything, "u1", "a1", in).Return(Alerta{ID: "al1", Estado: EstadoPendente}, nil)

	w, resp := serve(r, http.MethodPost, "/ativos/a1/alertas", `{"tipo":"limpeza","titulo":"Escadas sujas"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "pendente", resp.Data.(map[string]any)["estado"])

	w, _ = serve(r, http.MethodPost, "/ativos/a1/alertas", `{"tipo":"incendio","titulo":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "CreateAlerta", 1)
}

func TestAlertaHandler_Create_UnknownAtivo(t *testing.T) {
	svc := new(mockAlertaService)
	r := setupAlertaRouter(svc)
	svc.On("CreateAlerta", mock.Anything, "u1", "zz", mock.Anything).Return(Alerta{}, ErrAtivoNotFound)

	w, resp := serve(r, http.MethodPost, "/ativos/zz/alertas", `{"tipo":"outro","titulo":"x"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "ativo not found", resp.Message)
}

func TestAlertaHandler_ListAll(t *testing.T) {
	svc := new(mockAlertaService)
	r := setupAlertaRouter(svc)
	now := time.Now()
	svc.On("ListByUser", mock.Anything, "u1").Return([]AlertaView{
		{Alerta: Alerta{ID: "al2", DataAlerta: now}, AtivoNome: "Elevador", CondominioNome: "Edifício Sol"},
		{Alerta: Alerta{ID: "al1", DataAlerta: now.Add(-time.Hour)}, AtivoNome: "Portão", CondominioNome: "Edifício Sol"},
	}, nil)

	w, resp := serve(r, http.MethodGet, "/alertas", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := resp.Data.([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	require.Equal(t, "al2", first["id"])
	require.Equal(t, "Elevador", first["ativo_nome"])
}

func TestAlertaHandler_PatchAndDelete(t *testing.T) {
	svc := new(mockAlertaService)
	r := setupAlertaRouter(svc)
	svc.On("UpdateEstado", mock.Anything, "u1", "al1", "resolvido").Return(Alerta{ID: "al1", Estado: "resolvido"}, nil)
	svc.On("DeleteAlerta", mock.Anything, "u1", "al9").Return(ErrAlertaNotFound)

	w, _ := serve(r, http.MethodPatch, "/alertas/al1", `{"estado":"resolvido"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = serve(r, http.MethodPatch, "/alertas/al1", `{"estado":"fechado"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := serve(r, http.MethodDelete, "/alertas/al9", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "alerta not found", resp.Message)
}
