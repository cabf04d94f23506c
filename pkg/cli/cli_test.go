package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"domly/pkg/alertas"
	"domly/pkg/ativos"
	"domly/pkg/condominios"
	"domly/pkg/config"
	"domly/pkg/date"
	"domly/pkg/response"
	"domly/pkg/users"
)

type backend struct {
	ativoCreates  atomic.Int32
	deletes       atomic.Int32
	loggedOut     atomic.Bool
	resetRequests atomic.Int32
	condominios   []condominios.Condominio
	ativos        []ativos.Ativo
	alertas       []alertas.AlertaView
}

func (b *backend) router(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	auth := func(c *gin.Context) {
		switch c.GetHeader("Authorization") {
		case "Bearer user-tok":
			c.Set("role", users.RoleUser)
		case "Bearer admin-tok":
			c.Set("role", users.RoleAdmin)
		default:
			response.Fail(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		c.Next()
	}

	r.POST("/auth/login", func(c *gin.Context) {
		var body map[string]string
		require.NoError(t, c.ShouldBindJSON(&body))
		if body["password"] != "secret1" {
			response.SendAPIResponse(c, http.StatusUnauthorized, false, "invalid credentials", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusOK, true, "logged in", users.AuthResult{
			Token: "user-tok",
			User:  users.User{ID: "u1", Email: body["email"], PrimeiroNome: "Ana", UltimoNome: "Silva", Role: users.RoleUser},
		})
	})
	r.POST("/auth/logout", auth, func(c *gin.Context) {
		b.loggedOut.Store(true)
		response.SendAPIResponse(c, http.StatusOK, true, "logged out", nil)
	})
	r.POST("/auth/password/forgot", func(c *gin.Context) {
		b.resetRequests.Add(1)
		response.SendAPIResponse(c, http.StatusOK, true, "if the account exists a code was sent", nil)
	})
	r.POST("/auth/password/reset", func(c *gin.Context) {
		var body map[string]string
		require.NoError(t, c.ShouldBindJSON(&body))
		if body["code"] != "424242" {
			response.SendAPIResponse(c, http.StatusUnauthorized, false, "invalid or expired code", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusOK, true, "password updated", nil)
	})
	r.GET("/auth/me", auth, func(c *gin.Context) {
		response.SendAPIResponse(c, http.StatusOK, true, "ok", users.User{ID: "u1", Email: "ana@x.pt", Role: c.GetString("role")})
	})
	r.GET("/condominios", auth, func(c *gin.Context) {
		response.SendAPIResponse(c, http.StatusOK, true, "ok", condominios.CondominioList{
			Items: b.condominios, Total: int64(len(b.condominios)), Page: 1, Limit: 100,
		})
	})
	r.DELETE("/condominios/:id", auth, func(c *gin.Context) {
		b.deletes.Add(1)
		response.SendAPIResponse(c, http.StatusOK, true, "deleted", nil)
	})
	r.GET("/ativos", auth, func(c *gin.Context) {
		response.SendAPIResponse(c, http.StatusOK, true, "ok", ativos.AtivoList{
			Items: b.ativos, Total: int64(len(b.ativos)), Page: 1, Limit: 100,
		})
	})
	r.POST("/condominios/:id/ativos", auth, func(c *gin.Context) {
		b.ativoCreates.Add(1)
		var in ativos.Input
		require.NoError(t, c.ShouldBindJSON(&in))
		a := in.New(c.Param("id"))
		a.ID = "new-ativo"
		response.SendAPIResponse(c, http.StatusCreated, true, "created", a)
	})
	r.GET("/alertas", auth, func(c *gin.Context) {
		response.SendAPIResponse(c, http.StatusOK, true, "ok", b.alertas)
	})
	r.GET("/admin/users", auth, func(c *gin.Context) {
		if c.GetString("role") != users.RoleAdmin {
			response.Fail(c, http.StatusForbidden, "admin privileges required")
			return
		}
		list := []users.User{{ID: "u1", Email: "ana@x.pt"}, {ID: "u2", Email: "rui@x.pt"}}
		response.SendAPIResponse(c, http.StatusOK, true, "ok", users.UserList{Items: list, Total: 2, Page: 1, Limit: 100})
	})
	return r
}

type harness struct {
	app     *App
	out     *bytes.Buffer
	session string
}

func newHarness(t *testing.T, b *backend, stdin string) *harness {
	t.Helper()
	srv := httptest.NewServer(b.router(t))
	t.Cleanup(srv.Close)

	session := filepath.Join(t.TempDir(), ".domly", "session")
	cfg := &config.ClientConfig{URL: srv.URL, SessionFile: session, Timeout: 5 * time.Second}
	out := &bytes.Buffer{}
	app := NewApp(cfg, strings.NewReader(stdin), out, &bytes.Buffer{}, zap.NewNop())
	app.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return &harness{app: app, out: out, session: session}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	root := NewRootCmd(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func (h *harness) loginAs(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, h.app.Session.Save(token))
}

func TestLoginLogout_PersistsSession(t *testing.T) {
	b := &backend{}
	h := newHarness(t, b, "")

	require.Error(t, h.run("login", "--email", "ana@x.pt", "--password", "nope"))
	_, err := os.Stat(h.session)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, h.run("login", "--email", "ana@x.pt", "--password", "secret1"))
	require.Contains(t, h.out.String(), "Sessão iniciada como Ana Silva")
	saved, err := h.app.Session.Load()
	require.NoError(t, err)
	require.Equal(t, "user-tok", saved)

	require.NoError(t, h.run("whoami"))
	require.Contains(t, h.out.String(), "ana@x.pt")

	require.NoError(t, h.run("logout"))
	require.True(t, b.loggedOut.Load())
	_, err = os.Stat(h.session)
	require.True(t, os.IsNotExist(err))
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t, &backend{}, "secret1\n")
	require.NoError(t, h.run("login", "--email", "ana@x.pt"))
	require.Contains(t, h.out.String(), "Password: ")
}

func TestPassword_ForgotAndReset(t *testing.T) {
	b := &backend{}
	h := newHarness(t, b, "nova-senha\n")

	require.NoError(t, h.run("password", "forgot", "--email", "ana@x.pt"))
	require.Equal(t, int32(1), b.resetRequests.Load())
	require.Contains(t, h.out.String(), "código")

	h.loginAs(t, "user-tok")
	require.Error(t, h.run("password", "reset", "--email", "ana@x.pt", "--code", "000000", "--password", "nova-senha"))

	require.NoError(t, h.run("password", "reset", "--email", "ana@x.pt", "--code", "424242"))
	require.Contains(t, h.out.String(), "Password alterada")
	// every session ends with a reset, including the local one
	_, err := os.Stat(h.session)
	require.True(t, os.IsNotExist(err))
}

func TestCommands_RequireSession(t *testing.T) {
	h := newHarness(t, &backend{}, "")
	require.ErrorIs(t, h.run("condominios", "list"), errNotLoggedIn)

	h.loginAs(t, "stale")
	require.ErrorIs(t, h.run("condominios", "list"), errSessionExpired)
	_, err := os.Stat(h.session)
	require.True(t, os.IsNotExist(err))
}

func TestCondominiosList_Search(t *testing.T) {
	b := &backend{condominios: []condominios.Condominio{
		{ID: "c1", Nome: "Edifício Central", Morada: "Rua A", Cidade: "Lisboa", NIF: 123456789},
		{ID: "c2", Nome: "Torre Norte", Morada: "Av. B", Cidade: "Porto", NIF: 987654321},
	}}
	h := newHarness(t, b, "")
	h.loginAs(t, "user-tok")

	require.NoError(t, h.run("condominios", "list", "--search", "central"))
	require.Contains(t, h.out.String(), "Edifício Central")
	require.NotContains(t, h.out.String(), "Torre Norte")
}

func TestCondominiosDelete_NeedsConfirmation(t *testing.T) {
	b := &backend{}
	h := newHarness(t, b, "n\n")
	h.loginAs(t, "user-tok")

	require.ErrorIs(t, h.run("condominios", "delete", "c1"), errAborted)
	require.EqualValues(t, 0, b.deletes.Load())

	require.NoError(t, h.run("condominios", "delete", "c1", "--yes"))
	require.EqualValues(t, 1, b.deletes.Load())
}

func TestAtivosList_UnknownCondominio(t *testing.T) {
	b := &backend{condominios: []condominios.Condominio{{ID: "c1", Nome: "Torre"}}}
	h := newHarness(t, b, "")
	h.loginAs(t, "user-tok")

	err := h.run("ativos", "list", "c9")
	require.EqualError(t, err, condominioNotFound)
}

func TestAtivosList_FlagsUrgent(t *testing.T) {
	soon := date.MustParse("2024-05-03")
	later := date.MustParse("2024-11-01")
	b := &backend{
		condominios: []condominios.Condominio{{ID: "c1", Nome: "Torre", Morada: "Rua A", Cidade: "Lisboa"}},
		ativos: []ativos.Ativo{
			{ID: "a1", CondominioID: "c1", Nome: "Elevador", ProximaManutencao: &soon},
			{ID: "a2", CondominioID: "c2", Nome: "Portão"},
			{ID: "a3", CondominioID: "c1", Nome: "Bomba", ProximaManutencao: &later},
		},
	}
	h := newHarness(t, b, "")
	h.loginAs(t, "user-tok")

	require.NoError(t, h.run("ativos", "list", "c1"))
	out := h.out.String()
	require.Contains(t, out, "Elevador")
	require.Contains(t, out, "Bomba")
	require.NotContains(t, out, "Portão")
	require.Equal(t, 1, strings.Count(out, "URGENTE"))
}

func TestAtivosCreate_MissingEstadoNeverCallsAPI(t *testing.T) {
	b := &backend{}
	h := newHarness(t, b, "")
	h.loginAs(t, "user-tok")

	args := []string{"ativos", "create", "c1",
		"--nome", "Elevador", "--categoria", "elevador", "--marca", "Otis", "--modelo", "Gen2",
		"--num-serie", "123", "--data-instalacao", "2020-01-01", "--descricao", "Principal",
		"--ultima-manutencao", "2024-01-10",
	}
	err := h.run(args...)
	require.Error(t, err)
	require.Contains(t, h.out.String(), "estado: Selecione o estado do ativo")
	require.EqualValues(t, 0, b.ativoCreates.Load())

	require.NoError(t, h.run(append(args, "--estado", "bom")...))
	require.EqualValues(t, 1, b.ativoCreates.Load())
	require.Contains(t, h.out.String(), "próxima manutenção 2024-07-10")
	require.Len(t, h.app.Ativos.ByCondominio("c1"), 1)
}

func TestAlertasList_GroupsPending(t *testing.T) {
	b := &backend{alertas: []alertas.AlertaView{
		{Alerta: alertas.Alerta{ID: "1", Titulo: "Fuga", Estado: alertas.EstadoPendente}, CondominioNome: "Torre"},
		{Alerta: alertas.Alerta{ID: "2", Titulo: "Lâmpada", Estado: alertas.EstadoPendente}},
		{Alerta: alertas.Alerta{ID: "3", Titulo: "Portão", Estado: alertas.EstadoResolvido}, CondominioNome: "Torre"},
	}}
	h := newHarness(t, b, "")
	h.loginAs(t, "user-tok")

	require.NoError(t, h.run("alertas", "list"))
	out := h.out.String()
	require.Contains(t, out, "Pendentes (2) · Resolvidos (1)")
	require.Contains(t, out, "Sem Condomínio")
	require.NotContains(t, out, "Portão")
}

func TestAdmin_Gate(t *testing.T) {
	h := newHarness(t, &backend{}, "")
	h.loginAs(t, "user-tok")
	require.ErrorIs(t, h.run("admin", "users"), errAccessDenied)

	h.loginAs(t, "admin-tok")
	require.NoError(t, h.run("admin", "users"))
	require.Contains(t, h.out.String(), "rui@x.pt")
}
