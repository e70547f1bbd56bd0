package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"parkshare/internal/api/middleware"
	"parkshare/internal/domain"
	"parkshare/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	userID string
	conn   *websocket.Conn
}

type wsDelivery struct {
	userIDs []string
	payload []byte
}

// WebSocketManager keeps the open connections of each user and pushes booking
// events to the finder and owner involved. Only the Start goroutine writes to
// connections.
type WebSocketManager struct {
	clients    map[string]map[*websocket.Conn]struct{}
	register   chan wsClient
	unregister chan wsClient
	deliver    chan wsDelivery
	done       chan struct{}
	writeWait  time.Duration
	mutex      sync.RWMutex
	logger     *slog.Logger
}

func NewWebSocketManager(logger *slog.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*websocket.Conn]struct{}),
		register:   make(chan wsClient),
		unregister: make(chan wsClient),
		deliver:    make(chan wsDelivery, 256),
		done:       make(chan struct{}),
		writeWait:  writeWait,
		logger:     logger.With("component", "websocket"),
	}
}

// Start runs the hub until ctx is cancelled, then closes every connection.
func (wsm *WebSocketManager) Start(ctx context.Context) {
	defer close(wsm.done)
	for {
		select {
		case <-ctx.Done():
			wsm.closeAll()
			return

		case client := <-wsm.register:
			wsm.mutex.Lock()
			conns, ok := wsm.clients[client.userID]
			if !ok {
				conns = make(map[*websocket.Conn]struct{})
				wsm.clients[client.userID] = conns
			}
			conns[client.conn] = struct{}{}
			wsm.mutex.Unlock()
			metrics.WebsocketClients.Inc()
			wsm.logger.Debug("client connected", "uid", client.userID)

		case client := <-wsm.unregister:
			wsm.remove(client.userID, client.conn)

		case d := <-wsm.deliver:
			wsm.mutex.RLock()
			var failed []wsClient
			for _, uid := range d.userIDs {
				for conn := range wsm.clients[uid] {
					// a stalled client must not hold up delivery to everyone else
					_ = conn.SetWriteDeadline(time.Now().Add(wsm.writeWait))
					if err := conn.WriteMessage(websocket.TextMessage, d.payload); err != nil {
						wsm.logger.Warn("write to client failed", "uid", uid, "error", err)
						failed = append(failed, wsClient{userID: uid, conn: conn})
					}
				}
			}
			wsm.mutex.RUnlock()
			for _, f := range failed {
				wsm.remove(f.userID, f.conn)
			}
		}
	}
}

// Notify queues event for the users it concerns. It drops the event when the
// queue is full rather than block the caller.
func (wsm *WebSocketManager) Notify(_ context.Context, event domain.BookingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		wsm.logger.Error("marshal booking event", "error", err)
		return
	}
	select {
	case wsm.deliver <- wsDelivery{userIDs: event.Recipients(), payload: payload}:
	default:
		wsm.logger.Warn("delivery queue full, dropping event", "booking_id", event.BookingID)
	}
}

// ClientCount returns the number of open connections of userID.
func (wsm *WebSocketManager) ClientCount(userID string) int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients[userID])
}

func (wsm *WebSocketManager) remove(userID string, conn *websocket.Conn) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()
	conns, ok := wsm.clients[userID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(wsm.clients, userID)
	}
	conn.Close()
	metrics.WebsocketClients.Dec()
	wsm.logger.Debug("client disconnected", "uid", userID)
}

func (wsm *WebSocketManager) closeAll() {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()
	for uid, conns := range wsm.clients {
		for conn := range conns {
			conn.Close()
			metrics.WebsocketClients.Dec()
		}
		delete(wsm.clients, uid)
	}
}

type WebSocketHandler struct {
	wsManager *WebSocketManager
}

func NewWebSocketHandler(wsManager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager}
}

// GET /api/ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.wsManager.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := wsClient{userID: middleware.CallerID(c), conn: conn}
	select {
	case h.wsManager.register <- client:
	case <-h.wsManager.done:
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.wsManager.unregister <- client:
			case <-h.wsManager.done:
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.wsManager.logger.Warn("websocket read error", "error", err)
				}
				return
			}
		}
	}()
}
