package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1024
)

// Event is pushed to every client watching a date when a booking on that
// date changes. Clients are expected to refetch their snapshot; the event
// carries no booking details beyond the id.
type Event struct {
	Type      string `json:"type"`
	Date      string `json:"date"`
	BookingID int64  `json:"booking_id"`
}

// client is one subscribed connection. All writes to conn go through send
// and the writePump goroutine; websocket connections allow one writer only.
type client struct {
	date string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans booking-change events out to websocket subscribers keyed by
// calendar date. It replaces the polling a client would otherwise need to
// notice concurrent bookings.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]bool),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.date] == nil {
		h.clients[c.date] = make(map[*client]bool)
	}
	h.clients[c.date][c] = true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[c.date]; ok && conns[c] {
		delete(conns, c)
		close(c.send)
		if len(conns) == 0 {
			delete(h.clients, c.date)
		}
	}
}

// BookingsChanged notifies every watcher of the date. Delivery is
// best-effort: a client whose send buffer is full misses the ping and
// catches up on its next refetch.
func (h *Hub) BookingsChanged(date string, bookingID int64, event string) {
	msg, err := json.Marshal(Event{Type: event, Date: date, BookingID: bookingID})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[date] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *Hub) WatcherCount(date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[date])
}

// Close drops every watcher.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for date, conns := range h.clients {
		for c := range conns {
			close(c.send)
			c.conn.Close()
		}
		delete(h.clients, date)
	}
}

// ServeWS registers the connection as a watcher of one date and blocks
// until the peer goes away.
func (h *Hub) ServeWS(conn *websocket.Conn, date string) {
	c := &client{
		date: date,
		conn: conn,
		send: make(chan []byte, 16),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards inbound frames; it exists to run the pong handler and
// to detect disconnect.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the connection's single writer.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
