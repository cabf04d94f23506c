package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"domly/pkg/notify"
)

// ErrNotLoggedIn is returned by calls that need a session when the client has none.
var ErrNotLoggedIn = errors.New("not logged in")

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/ws/notificacoes")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("token", c.Token())
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Subscribe streams live notifications to fn until ctx is cancelled or the server closes the
// connection. A newer subscription of the same user replaces this one server side.
func (c *Client) Subscribe(ctx context.Context, fn func(notify.Event)) error {
	if c.Token() == "" {
		return ErrNotLoggedIn
	}
	wsURL, err := c.websocketURL()
	if err != nil {
		return fmt.Errorf("notifications url: %w", err)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("dial notifications: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	defer stop()

	for {
		var ev notify.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			return fmt.Errorf("read notification: %w", err)
		}
		c.log.Debug("notification received", zap.String("event_type", ev.EventType))
		fn(ev)
	}
}
