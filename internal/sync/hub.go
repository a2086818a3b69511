package sync

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// Hub fans room events out to TCP and WebSocket watchers.
//
// A watcher is attached under the same lock that serializes broadcasts, so
// the welcome line and the board replay always reach it before any live
// event published after it joined.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
	replay    func() []RoomEvent
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

// Welcome is the first line every watcher receives.
type Welcome struct {
	Type      string `json:"type"` // always "welcome"
	Transport string `json:"transport"`
	Watchers  int    `json:"watchers"`
	Results   int    `json:"results"` // room.result events replayed after this line
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
	}
}

// ReplayFrom sets the source of room.result events sent to new watchers,
// normally the board's current entries.
func (h *Hub) ReplayFrom(fn func() []RoomEvent) {
	h.mu.Lock()
	h.replay = fn
	h.mu.Unlock()
}

// Attach registers a TCP watcher after sending it the welcome and replay.
func (h *Hub) Attach(conn net.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, line := range h.greetingLocked("tcp") {
		if err := writeTCP(conn, line); err != nil {
			return err
		}
	}
	h.clients[conn] = struct{}{}
	return nil
}

func (h *Hub) Detach(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// AttachWS registers a WebSocket watcher after sending it the welcome and
// replay.
func (h *Hub) AttachWS(ws *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, line := range h.greetingLocked("websocket") {
		if err := writeWS(ws, line); err != nil {
			return err
		}
	}
	h.wsClients[ws] = struct{}{}
	return nil
}

func (h *Hub) DetachWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Publish broadcasts one room event; it satisfies rooms.Publisher.
func (h *Hub) Publish(ev RoomEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	line, err := encodeLine(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if err := writeTCP(c, line); err != nil {
			_ = c.Close()
			delete(h.clients, c)
		}
	}
	for ws := range h.wsClients {
		if err := writeWS(ws, line); err != nil {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

func (h *Hub) greetingLocked(transport string) [][]byte {
	var results []RoomEvent
	if h.replay != nil {
		results = h.replay()
	}

	lines := make([][]byte, 0, len(results)+1)
	welcome, err := encodeLine(Welcome{
		Type:      EventWelcome,
		Transport: transport,
		Watchers:  len(h.clients) + len(h.wsClients) + 1,
		Results:   len(results),
	})
	if err == nil {
		lines = append(lines, welcome)
	}
	for _, ev := range results {
		ev.Type = EventRoomResult
		if line, err := encodeLine(ev); err == nil {
			lines = append(lines, line)
		}
	}
	return lines
}

func encodeLine(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeTCP(c net.Conn, line []byte) error {
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.Write(line)
	return err
}

func writeWS(ws *websocket.Conn, line []byte) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, line)
}
