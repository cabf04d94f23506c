package notify

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"domly/pkg/middleware"
)

func setupServer(t *testing.T, userID string) (*ConnectionManager, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cm := NewConnectionManager(zap.NewNop())
	r := gin.New()
	NewHandler(cm, []string{"*"}, zap.NewNop()).RegisterRoutes(r, middleware.WithUser(userID, "user"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return cm, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notificacoes?token=x"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandler_DeliversEvents(t *testing.T) {
	cm, srv := setupServer(t, "u1")
	conn := dial(t, srv)

	require.Eventually(t, func() bool { return cm.IsOnline("u1") }, time.Second, 10*time.Millisecond)
	cm.Publish("u1", Event{EventType: EventAlertaCriado, AlertaID: "al1", Titulo: "Fuga de água"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, EventAlertaCriado, ev.EventType)
	require.Equal(t, "al1", ev.AlertaID)
	require.False(t, ev.OccurredAt.IsZero())
}

func TestHandler_NewConnectionReplacesOld(t *testing.T) {
	cm, srv := setupServer(t, "u1")
	first := dial(t, srv)
	require.Eventually(t, func() bool { return cm.IsOnline("u1") }, time.Second, 10*time.Millisecond)

	second := dial(t, srv)

	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := first.ReadMessage()
	require.Error(t, err)

	// the replaced connection's cleanup must not unregister the new one
	require.Eventually(t, func() bool {
		return cm.BroadcastToUser("u1", Event{EventType: EventAtivoRemovido, AtivoID: "a1"}) == nil
	}, time.Second, 10*time.Millisecond)

	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, second.ReadJSON(&ev))
	require.Equal(t, "a1", ev.AtivoID)
	require.True(t, cm.IsOnline("u1"))
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cm := NewConnectionManager(zap.NewNop())
	r := gin.New()
	NewHandler(cm, []string{"https://app.domly.pt"}, zap.NewNop()).RegisterRoutes(r, middleware.WithUser("u1", "user"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notificacoes"
	header := map[string][]string{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.Equal(t, 403, resp.StatusCode)
}

func TestConnectionManager_OfflineUser(t *testing.T) {
	cm := NewConnectionManager(zap.NewNop())
	require.Error(t, cm.BroadcastToUser("ghost", Event{EventType: EventAlertaCriado}))
	cm.Publish("ghost", Event{EventType: EventAlertaCriado})
	require.False(t, cm.IsOnline("ghost"))
}
