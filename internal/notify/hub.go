package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 20 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// MatchHub manages websocket connections of counterparties waiting for
// match events. One connection per counterparty; a reconnect replaces the
// previous socket.
type MatchHub struct {
	logger Logger

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[int]*websocket.Conn
	locks map[int]*sync.Mutex
}

func NewMatchHub(logger Logger) *MatchHub {
	return &MatchHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[int]*websocket.Conn),
		locks: make(map[int]*sync.Mutex),
	}
}

// NotifyMatch pushes the event to the counterparty's socket if connected.
func (h *MatchHub) NotifyMatch(_ context.Context, event MatchEvent) {
	h.push(event.CounterpartyID, event)
}

// ServeWS upgrades the request to a websocket registered under the
// :counterparty_id route parameter.
func (h *MatchHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":counterparty_id"))
	if err != nil || id == 0 {
		http.Error(w, "missing counterparty_id", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("match ws upgrade failed: %v", err)
		}
		return
	}

	h.mu.Lock()
	if old, ok := h.conns[id]; ok {
		_ = old.Close()
	}
	h.conns[id] = conn
	if _, ok := h.locks[id]; !ok {
		h.locks[id] = &sync.Mutex{}
	}
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.Infof("counterparty %d connected to match stream", id)
	}

	go h.pingLoop(id, conn)
	go h.readLoop(id, conn)
}

func (h *MatchHub) pingLoop(id int, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		h.mu.RLock()
		alive := h.conns[id] == conn
		h.mu.RUnlock()
		if !alive {
			return
		}
		h.safeWrite(id, func(c *websocket.Conn) error {
			return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		})
	}
}

func (h *MatchHub) readLoop(id int, conn *websocket.Conn) {
	defer h.closeConn(id, conn)

	conn.SetReadLimit(16 << 10)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage {
			trimmed := strings.TrimSpace(string(message))
			if strings.EqualFold(trimmed, "ping") {
				_ = conn.WriteMessage(websocket.TextMessage, []byte("pong"))
			}
		}
	}
}

func (h *MatchHub) closeConn(id int, conn *websocket.Conn) {
	_ = conn.Close()
	h.mu.Lock()
	if current, ok := h.conns[id]; ok && current == conn {
		delete(h.conns, id)
		delete(h.locks, id)
	}
	h.mu.Unlock()
}

func (h *MatchHub) safeWrite(id int, fn func(*websocket.Conn) error) {
	h.mu.RLock()
	conn := h.conns[id]
	mu := h.locks[id]
	h.mu.RUnlock()
	if conn == nil || mu == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := fn(conn); err != nil {
		if h.logger != nil {
			h.logger.Errorf("counterparty %d write failed: %v", id, err)
		}
		h.closeConn(id, conn)
	}
}

func (h *MatchHub) push(id int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("match hub marshal failed: %v", err)
		}
		return
	}
	h.safeWrite(id, func(conn *websocket.Conn) error {
		return conn.WriteMessage(websocket.TextMessage, data)
	})
}
