/*
hub.go - Websocket broadcast of state updates

PURPOSE:
  Pushes the fresh dashboard payload to every connected client after each
  successful mutation, so the broadcast overlay updates without polling.
  The feed is one-way: inbound messages are drained and discarded.

SEE ALSO:
  - handlers.go: broadcast() is called after each mutation
  - server.go: /ws route
*/
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/grindhub/shift-engine/shift"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 8
)

// =============================================================================
// HUB
// =============================================================================

// Hub fans one message stream out to all connected clients.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
	go h.run()
	return h
}

// Broadcast queues a payload for every connected client.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer; drop it rather than stall the hub.
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// =============================================================================
// CONNECTION HANDLING
// =============================================================================

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin filtering is handled by the CORS layer for the REST API;
	// the ws feed is read-only public state, same as GET /api/state.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection, sends the current payload immediately,
// then streams updates.
// GET /ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.Hub.register <- c

	now := h.Clock.Now()
	if s, err := h.Engine.Read(r.Context(), now); err == nil {
		if payload, merr := marshalState(h, s, now); merr == nil {
			c.send <- payload
		}
	}

	go h.writePump(c)
	go h.readPump(c)
}

func marshalState(h *Handler, s shift.State, now time.Time) ([]byte, error) {
	return json.Marshal(h.stateDTO(s, now))
}

func (h *Handler) readPump(c *client) {
	defer func() {
		h.Hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Handler) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
