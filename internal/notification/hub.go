package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"classbook/internal/domain"
	"classbook/internal/pkg/jwt"
	"classbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	AdminRoom = "admin-room"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

func UserRoom(userID int64) string { return fmt.Sprintf("user-%d", userID) }

type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Message is the frame written to websocket clients.
type Message struct {
	Event string    `json:"event"`
	Data  any       `json:"data"`
	At    time.Time `json:"at"`
}

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms []string
}

// Hub pushes events to connected websocket clients. Every client joins its
// own user room; admins also join the admin room.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]struct{}
	clients map[*client]struct{}

	tokens   TokenValidator
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(tokens TokenValidator, allowedOrigins []string, log *zap.Logger) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSpace(o)] = true
	}
	return &Hub{
		rooms:   make(map[string]map[*client]struct{}),
		clients: make(map[*client]struct{}),
		tokens:  tokens,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

func (h *Hub) Name() string { return "websocket" }

// Deliver sends booking events to the admin room and, prefixed with "my-", to
// the owner's room. Classroom events go to every client.
func (h *Hub) Deliver(_ context.Context, ev Event) error {
	switch ev.Type {
	case ClassroomUpdated:
		msg, err := encode(string(ev.Type), ev.Payload(), ev.At)
		if err != nil {
			return err
		}
		h.broadcast(msg)
	case BookingCreated, BookingUpdated, BookingDeleted:
		msg, err := encode(string(ev.Type), ev.Payload(), ev.At)
		if err != nil {
			return err
		}
		h.toRoom(AdminRoom, msg)

		if owner := ev.OwnerID(); owner > 0 {
			mine, err := encode("my-"+string(ev.Type), ev.Payload(), ev.At)
			if err != nil {
				return err
			}
			h.toRoom(UserRoom(owner), mine)
		}
	}
	return nil
}

func encode(event string, data any, at time.Time) ([]byte, error) {
	return json.Marshal(Message{Event: event, Data: data, At: at})
}

func (h *Hub) toRoom(room string, msg []byte) {
	h.mu.RLock()
	slow := fanOut(h.rooms[room], msg)
	h.mu.RUnlock()
	h.drop(slow)
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	slow := fanOut(h.clients, msg)
	h.mu.RUnlock()
	h.drop(slow)
}

// fanOut must run under the read lock so no send channel is closed meanwhile.
// Clients whose buffer is full are returned instead of blocking delivery.
func fanOut(set map[*client]struct{}, msg []byte) []*client {
	var slow []*client
	for c := range set {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	return slow
}

func (h *Hub) drop(slow []*client) {
	for _, c := range slow {
		h.log.Warn("websocket client too slow, disconnecting")
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	for _, room := range c.rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*client]struct{})
		}
		h.rooms[room][c] = struct{}{}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for _, room := range c.rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
}

// RoomSize returns the number of clients in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.unregister(c)
	}
}

// ServeWS upgrades an authenticated request. The JWT comes from the "token"
// query parameter since browsers cannot set headers on websocket requests.
func (h *Hub) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	rooms := []string{UserRoom(claims.UserID)}
	if claims.Role == domain.RoleAdmin {
		rooms = append(rooms, AdminRoom)
	}
	cl := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), rooms: rooms}
	h.register(cl)
	h.log.Debug("websocket client connected", zap.Int64("user_id", claims.UserID), zap.Strings("rooms", rooms))

	go cl.writePump()
	go cl.readPump()
}

// readPump only keeps the connection alive; clients do not send commands.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
