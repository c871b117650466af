package relay

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	helperAuth "schoolhub_backend/internals/helpers/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 16 << 10
	sendBufferSize = 64
)

// Client events
const (
	EventJoinRoom       = "join-room"
	EventSendMessage    = "send-message"
	EventReceiveMessage = "receive-message"
	EventJoined         = "joined"
	EventError          = "error"
)

type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type SendMessageData struct {
	RoomID  string          `json:"roomId"`
	Message json.RawMessage `json:"message"`
}

type Client struct {
	ID      uuid.UUID
	Session helperAuth.Session

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu    sync.Mutex
	rooms map[string]struct{}
}

func newClient(conn *websocket.Conn, s helperAuth.Session) *Client {
	return &Client{
		ID:      uuid.New(),
		Session: s,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		rooms:   make(map[string]struct{}),
	}
}

func (c *Client) joined(room string) {
	c.mu.Lock()
	c.rooms[room] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) left(room string) {
	c.mu.Lock()
	delete(c.rooms, room)
	c.mu.Unlock()
}

func (c *Client) InRoom(room string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.rooms[room]
	return ok
}

func (c *Client) roomList() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.rooms))
	for r := range c.rooms {
		out = append(out, r)
	}
	return out
}

func frame(event string, data any) []byte {
	raw, err := sonic.Marshal(data)
	if err != nil {
		raw = []byte("null")
	}
	b, _ := sonic.Marshal(Frame{Event: event, Data: raw})
	return b
}

// reply queues a frame for this connection only.
func (c *Client) reply(event string, data any) {
	select {
	case c.send <- frame(event, data):
	default:
	}
}

func (c *Client) readPump(ctx context.Context, s *Server) {
	defer func() {
		s.Hub.Remove(c)
		close(c.done)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[RELAY] read %s: %v", c.ID, err)
			}
			return
		}
		var f Frame
		if err := sonic.Unmarshal(raw, &f); err != nil {
			c.reply(EventError, "malformed frame")
			continue
		}
		s.handle(ctx, c, f)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
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
