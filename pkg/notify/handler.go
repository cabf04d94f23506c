package notify

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"domly/pkg/middleware"
	"domly/pkg/response"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

type Handler struct {
	manager  *ConnectionManager
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds the websocket endpoint; allowed lists accepted origins ("*" accepts any).
func NewHandler(manager *ConnectionManager, allowed []string, log *zap.Logger) *Handler {
	return &Handler{
		manager: manager,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowed),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/ws/notificacoes", auth, h.serveWS)
}

// @Summary      Live notifications (websocket)
// @Tags         notificacoes
// @Param        token query string true "Session token"
// @Success      101
// @Failure      401 {object} response.APIResponse
// @Router       /ws/notificacoes [get]
func (h *Handler) serveWS(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		response.SendAPIResponse(c, http.StatusUnauthorized, false, "authentication required", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	client := h.manager.AddClient(userID, conn)
	h.log.Info("notifications connected", zap.String("user_id", userID))

	go h.readLoop(client)
	go h.writeLoop(client)
}

// readLoop only services control frames; clients do not send events.
func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.manager.RemoveClient(client)
		client.Conn.Close()
		h.log.Info("notifications disconnected", zap.String("user_id", client.UserID))
	}()

	client.Conn.SetReadLimit(4096)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket error", zap.String("user_id", client.UserID), zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-client.Done:
			return

		case ev := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteJSON(ev); err != nil {
				h.log.Warn("write error", zap.String("user_id", client.UserID), zap.Error(err))
				client.Conn.Close()
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.Conn.Close()
				return
			}
		}
	}
}
