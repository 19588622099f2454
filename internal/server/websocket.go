package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/duel/internal/core/observability/log"
	"github.com/zeusync/duel/pkg/concurrent"
)

const maxCommandSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// client is one websocket spectator. Outgoing frames go through send so only
// writePump touches the connection for writing.
type client struct {
	id   string
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// offer queues b without blocking. It returns false when the client is closed
// or too slow to keep up.
func (c *client) offer(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// hub is the set of connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  log.Log
}

func newHub(logger log.Log) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("Client connected",
		log.String("client_id", c.id),
		log.String("remote_addr", c.conn.RemoteAddr().String()),
		log.Int("total_clients", n))
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		c.close()
		h.logger.Info("Client disconnected",
			log.String("client_id", c.id),
			log.Int("total_clients", n))
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast offers b to every client and drops those whose buffer is full.
func (h *hub) broadcast(b []byte) {
	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		if !c.offer(b) {
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow client", log.String("client_id", c.id))
		h.remove(c)
	}
}

// closeAll disconnects every client.
func (h *hub) closeAll() {
	h.mu.Lock()
	all := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.Unlock()

	_ = concurrent.ForEach(all, func(c *client) error {
		h.remove(c)
		return c.conn.Close()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, s.cfg.SendBuffer),
	}
	if last := s.last.Load(); last != nil {
		c.offer(*last)
	}
	s.hub.add(c)

	go s.writePump(c)
	s.readPump(c)
}

// readPump decodes commands until the connection fails.
func (s *Server) readPump(c *client) {
	defer func() {
		s.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxCommandSize)
	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Failed to read command", log.String("client_id", c.id), log.Error(err))
			}
			return
		}
		if err := s.submit(cmd, c); err != nil {
			s.reply(c, err)
		}
	}
}

func (s *Server) writePump(c *client) {
	defer func() { _ = c.conn.Close() }()

	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			s.logger.Debug("Failed to write message", log.String("client_id", c.id), log.Error(err))
			s.hub.remove(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// reply sends an error message to a single client.
func (s *Server) reply(c *client, err error) {
	if c == nil {
		return
	}
	b, encErr := encode(Message{Type: MessageError, Error: err.Error()})
	if encErr != nil {
		s.logger.Error("Failed to encode reply", log.Error(encErr))
		return
	}
	c.offer(b)
}
