// Package messaging provides the live activity broadcaster for the
// analytics dashboard.
package messaging

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	domain "github.com/ming0627/bellyfed-new-sub002/internal/domain/analytics"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard origin is enforced by the CORS middleware upstream.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ActivityMessage is the wire format pushed to dashboard clients.
type ActivityMessage struct {
	EntityType     string    `json:"entityType"`
	EntityID       string    `json:"entityId"`
	EngagementType string    `json:"engagementType"`
	DeviceType     string    `json:"deviceType"`
	Timestamp      time.Time `json:"timestamp"`
}

// ActivityBroadcaster fans engagement events out to connected websocket clients.
type ActivityBroadcaster struct {
	clients map[*websocket.Conn]chan []byte
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

// NewActivityBroadcaster creates the broadcaster.
func NewActivityBroadcaster(logger *logging.ChanneledLogger) *ActivityBroadcaster {
	return &ActivityBroadcaster{
		clients: make(map[*websocket.Conn]chan []byte),
		logger:  logger,
	}
}

// HandleConnection upgrades the HTTP request and services the client until
// it disconnects.
func (b *ActivityBroadcaster) HandleConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Stream().Error("Websocket upgrade failed", "error", err.Error())
		return err
	}

	ch := make(chan []byte, 32)

	b.mu.Lock()
	b.clients[conn] = ch
	clientCount := len(b.clients)
	b.mu.Unlock()

	b.logger.Stream().Info("Activity stream client connected", "clientCount", clientCount)

	// Writer loop; exits when the channel closes or a write fails.
	go func() {
		defer conn.Close()
		for msg := range ch {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				b.removeClient(conn)
				return
			}
		}
	}()

	// Reader loop detects disconnects; inbound messages are ignored.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.removeClient(conn)
				return
			}
		}
	}()

	return nil
}

func (b *ActivityBroadcaster) removeClient(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, exists := b.clients[conn]; exists {
		close(ch)
		delete(b.clients, conn)
		b.logger.Stream().Info("Activity stream client disconnected", "clientCount", len(b.clients))
	}
}

// Broadcast pushes an event to every connected client. Slow clients are
// skipped rather than blocking event ingestion.
func (b *ActivityBroadcaster) Broadcast(event *domain.EngagementEvent) {
	msg := ActivityMessage{
		EntityType:     event.EntityType,
		EntityID:       event.EntityID,
		EngagementType: event.EngagementType,
		DeviceType:     event.DeviceType,
		Timestamp:      event.CreatedAt,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Stream().Error("Failed to marshal activity message", "error", err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.clients {
		select {
		case ch <- payload:
		default:
			b.logger.Stream().Debug("Dropping activity message for slow client")
		}
	}
}

// ClientCount returns the number of connected stream clients.
func (b *ActivityBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
