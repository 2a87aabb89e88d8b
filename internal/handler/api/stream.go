package api

import (
	"net/http"
	"sync"
	"time"

	"BackScan/internal/domain/models"
	drepo "BackScan/internal/domain/repository"
	applogger "BackScan/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// StreamEvent is one frame pushed to UI clients. Type is "record" for a
// per-job notification and "status" for the terminal run outcome.
type StreamEvent struct {
	Type     string               `json:"type"`
	Record   *models.ResultRecord `json:"record,omitempty"`
	Progress models.Progress      `json:"progress"`
	Outcome  models.RunOutcome    `json:"outcome,omitempty"`
}

// StreamHub fans scan events out to connected WebSocket clients. It
// implements the runner's observer contract; a slow client gets dropped
// rather than backing up the scan loop.
type StreamHub struct {
	logger   *applogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan StreamEvent
}

// NewStreamHub creates an empty hub.
func NewStreamHub(logger *applogger.Logger) *StreamHub {
	return &StreamHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
	}
}

// Serve upgrades the request and streams events until the client goes away.
func (h *StreamHub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &wsClient{conn: conn, send: make(chan StreamEvent, 64)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("ws client connected", applogger.Int("clients", n))

	go h.writeLoop(client)
	h.readLoop(client)
	return nil
}

// OnRecord pushes a per-job event to every client.
func (h *StreamHub) OnRecord(rec models.ResultRecord, prog models.Progress) {
	r := rec
	h.broadcast(StreamEvent{Type: "record", Record: &r, Progress: prog})
}

// OnFinished pushes the terminal run status.
func (h *StreamHub) OnFinished(outcome models.RunOutcome, prog models.Progress) {
	h.broadcast(StreamEvent{Type: "status", Progress: prog, Outcome: outcome})
}

func (h *StreamHub) broadcast(ev StreamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- ev:
		default:
			// Client can't keep up; disconnect it instead of blocking.
			delete(h.clients, client)
			close(client.send)
			_ = client.conn.Close()
		}
	}
}

func (h *StreamHub) remove(client *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	_ = client.conn.Close()
}

func (h *StreamHub) writeLoop(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-client.send:
			if !ok {
				return
			}
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteJSON(ev); err != nil {
				h.remove(client)
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(client)
				return
			}
		}
	}
}

// readLoop drains client frames so pings/pongs and close messages are
// processed; inbound data is ignored.
func (h *StreamHub) readLoop(client *wsClient) {
	defer h.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var _ drepo.RunObserver = (*StreamHub)(nil)
