package manutencoes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"domly/pkg/date"
	"domly/pkg/middleware"
	"domly/pkg/response"
)

type mockManutencaoService struct {
	mock.Mock
}

func (m *mockManutencaoService) CreateManutencao(ctx context.Context, userID string, in Input) (Manutencao, error) {
	args := m.Called(ctx, userID, in)
	r, _ := args.Get(0).(Manutencao)
	return r, args.Error(1)
}

func (m *mockManutencaoService) UpdateManutencao(ctx context.Context, userID, id string, in Input) (Manutencao, error) {
	args := m.Called(ctx, userID, id, in)
	r, _ := args.Get(0).(Manutencao)
	return r, args.Error(1)
}

func (m *mockManutencaoService) DeleteManutencao(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockManutencaoService) ListByAtivo(ctx context.Context, userID, ativoID string) ([]Manutencao, error) {
	args := m.Called(ctx, userID, ativoID)
	r, _ := args.Get(0).([]Manutencao)
	return r, args.Error(1)
}

func (m *mockManutencaoService) ListByUser(ctx context.Context, userID string) ([]ManutencaoView, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).([]ManutencaoView)
	return r, args.Error(1)
}

func setupManutencaoRouter(service ManutencaoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewManutencaoHandler(service).RegisterRoutes(r, middleware.WithUser("u1", "user"))
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

func TestManutencaoHandler_Create(t *testing.T) {
	svc := new(mockManutencaoService)
	r := setupManutencaoRouter(svc)
	in := Input{AtivoID: "a1", Descricao: "Revisão", DataAgendada: date.New(2024, 6, 1), Custo: 120.5}
	svc.On("CreateManutencao", mock.Anything, "u1", in).
		Return(Manutencao{ID: "m1", AtivoID: "a1", DataAgendada: in.DataAgendada, Estado: EstadoPendente}, nil)

	w, resp := serve(r, http.MethodPost, "/manutencoes", `{"ativo_id":"a1","descricao":"Revisão","data_agendada":"2024-06-01","custo":120.5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "2024-06-01", resp.Data.(map[string]any)["data_agendada"])

	w, _ = serve(r, http.MethodPost, "/manutencoes", `{"descricao":"sem ativo","data_agendada":"2024-06-01"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = serve(r, http.MethodPost, "/manutencoes", `{"ativo_id":"a1","data_agendada":"2024-06-01","custo":-3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManutencaoHandler_ErrorMapping(t *testing.T) {
	svc := new(mockManutencaoService)
	r := setupManutencaoRouter(svc)
	svc.On("CreateManutencao", mock.Anything, "u1", mock.Anything).Return(nil, ErrDataAgendadaRequired).Once()
	svc.On("ListByAtivo", mock.Anything, "u1", "a9").Return(nil, ErrAtivoNotFound)
	svc.On("DeleteManutencao", mock.Anything, "u1", "m9").Return(ErrManutencaoNotFound)

	w, _ := serve(r, http.MethodPost, "/manutencoes", `{"ativo_id":"a1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w, resp := serve(r, http.MethodGet, "/ativos/a9/manutencoes", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "ativo not found", resp.Message)
	w, _ = serve(r, http.MethodDelete, "/manutencoes/m9", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestManutencaoHandler_UpdateAndList(t *testing.T) {
	svc := new(mockManutencaoService)
	r := setupManutencaoRouter(svc)
	svc.On("UpdateManutencao", mock.Anything, "u1", "m1", mock.MatchedBy(func(in Input) bool {
		return in.Estado == EstadoConcluido && in.DataConclusao != nil && in.DataConclusao.String() == "2024-06-02"
	})).Return(Manutencao{ID: "m1", Estado: EstadoConcluido}, nil)
	svc.On("ListByUser", mock.Anything, "u1").Return([]ManutencaoView{{Manutencao: Manutencao{ID: "m1"}, AtivoNome: "Elevador A"}}, nil)

	w, _ := serve(r, http.MethodPut, "/manutencoes/m1", `{"data_agendada":"2024-06-01","data_conclusao":"2024-06-02","estado":"concluido"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := serve(r, http.MethodGet, "/manutencoes", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := resp.Data.([]any)
	require.Len(t, items, 1)
	require.Equal(t, "Elevador A", items[0].(map[string]any)["ativo_nome"])
}
