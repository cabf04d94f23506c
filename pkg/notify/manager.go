package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents a connected user
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan Event    // Channel to send events to this client
	Done   chan struct{} // Signal to stop reading/writing
	once   sync.Once
}

func (c *Client) stop() {
	c.once.Do(func() { close(c.Done) })
}

// ConnectionManager keeps one live connection per user.
type ConnectionManager struct {
	mu      sync.RWMutex
	clients map[string]*Client // user_id -> Client
	log     *zap.Logger
}

func NewConnectionManager(log *zap.Logger) *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// AddClient registers a connection, closing the user's previous one.
func (cm *ConnectionManager) AddClient(userID string, conn *websocket.Conn) *Client {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if existing, ok := cm.clients[userID]; ok {
		existing.stop()
		existing.Conn.Close()
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan Event, 32),
		Done:   make(chan struct{}),
	}
	cm.clients[userID] = client
	return client
}

// RemoveClient unregisters client; a newer connection of the same user is left alone.
func (cm *ConnectionManager) RemoveClient(client *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	client.stop()
	if current, ok := cm.clients[client.UserID]; ok && current == client {
		delete(cm.clients, client.UserID)
	}
}

func (cm *ConnectionManager) IsOnline(userID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	_, exists := cm.clients[userID]
	return exists
}

// BroadcastToUser queues an event for a user. Returns error if user is not online
func (cm *ConnectionManager) BroadcastToUser(userID string, ev Event) error {
	cm.mu.RLock()
	client, ok := cm.clients[userID]
	cm.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not online", userID)
	}

	select {
	case client.Send <- ev:
		return nil
	case <-client.Done:
		return fmt.Errorf("user %s disconnected", userID)
	default:
		return fmt.Errorf("user %s message queue full", userID)
	}
}

// Publish implements Publisher.
func (cm *ConnectionManager) Publish(userID string, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := cm.BroadcastToUser(userID, ev); err != nil {
		cm.log.Debug("notification not delivered", zap.String("user_id", userID), zap.String("event_type", ev.EventType), zap.Error(err))
	}
}
