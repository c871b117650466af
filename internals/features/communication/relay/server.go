package relay

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	apptService "schoolhub_backend/internals/features/communication/appointments/service"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

var (
	ErrRoomForbidden = errors.New("not a participant of this room")
	ErrRoomClosed    = errors.New("room is not open for chat")
)

// Authorizer decides whether a session may join or speak in a room. It is
// asked again for every message.
type Authorizer interface {
	CanJoin(ctx context.Context, s helperAuth.Session, room string) error
}

// AppointmentAuthorizer treats rooms as appointment ids. Only participants of
// an APPROVED appointment may chat.
type AppointmentAuthorizer struct {
	DB *gorm.DB
}

func (a AppointmentAuthorizer) CanJoin(ctx context.Context, s helperAuth.Session, room string) error {
	id, err := uuid.Parse(room)
	if err != nil {
		return ErrRoomForbidden
	}
	studentID, err := helperAuth.ResolveStudentID(ctx, a.DB, s)
	if err != nil {
		return err
	}
	appt, err := apptService.FindForParticipant(ctx, a.DB, id, apptService.Caller{UserID: s.UserID, StudentID: studentID})
	if errors.Is(err, apptService.ErrAppointmentNotFound) || errors.Is(err, apptService.ErrNotParticipant) {
		return ErrRoomForbidden
	}
	if err != nil {
		return err
	}
	if !apptService.CanChat(appt.AppointmentStatus) {
		return ErrRoomClosed
	}
	return nil
}

type Server struct {
	Hub        *Hub
	Broker     Broker
	Authorizer Authorizer
	Secret     string
	// IsRevoked reports logged-out tokens; nil skips the check.
	IsRevoked func(ctx context.Context, raw string) (bool, error)
	Upgrader  websocket.Upgrader
	// BaseContext, when set, closes every connection once it is done.
	BaseContext context.Context
}

func NewServer(hub *Hub, broker Broker, auth Authorizer, secret string, allowedOrigins []string) *Server {
	s := &Server{Hub: hub, Broker: broker, Authorizer: auth, Secret: secret}
	s.Upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return s
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP authenticates ?token= before upgrading.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("token"))
	if raw == "" {
		http.Error(w, "token is required", http.StatusUnauthorized)
		return
	}
	sess, err := helperAuth.ParseAccessToken(raw, s.Secret)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if s.IsRevoked != nil {
		revoked, err := s.IsRevoked(r.Context(), raw)
		if err != nil {
			log.Printf("[RELAY] blacklist check: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if revoked {
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}
	}

	conn, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[RELAY] upgrade: %v", err)
		return
	}
	c := newClient(conn, sess)
	log.Printf("[RELAY] connected %s (user %s)", c.ID, sess.UserID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if s.BaseContext != nil {
		stop := context.AfterFunc(s.BaseContext, func() {
			cancel()
			_ = conn.Close()
		})
		defer stop()
	}

	go c.writePump()
	c.readPump(ctx, s)
	log.Printf("[RELAY] disconnected %s", c.ID)
}

func (s *Server) handle(ctx context.Context, c *Client, f Frame) {
	switch f.Event {
	case EventJoinRoom:
		var room string
		if err := sonic.Unmarshal(f.Data, &room); err != nil || strings.TrimSpace(room) == "" {
			c.reply(EventError, "join-room expects a room id")
			return
		}
		room = strings.TrimSpace(room)
		if err := s.authorize(ctx, c, room); err != nil {
			c.reply(EventError, "not allowed to join "+room)
			return
		}
		s.Hub.Join(c, room)
		c.reply(EventJoined, room)

	case EventSendMessage:
		var d SendMessageData
		if err := sonic.Unmarshal(f.Data, &d); err != nil || d.RoomID == "" || len(d.Message) == 0 {
			c.reply(EventError, "send-message expects roomId and message")
			return
		}
		if !c.InRoom(d.RoomID) {
			c.reply(EventError, "join the room before sending")
			return
		}
		if err := s.authorize(ctx, c, d.RoomID); err != nil {
			s.Hub.Leave(c, d.RoomID)
			c.reply(EventError, "chat is closed in "+d.RoomID)
			return
		}
		out, _ := sonic.Marshal(Frame{Event: EventReceiveMessage, Data: d.Message})
		if err := s.Broker.Publish(ctx, d.RoomID, c.ID, out); err != nil {
			log.Printf("[RELAY] publish %s: %v", d.RoomID, err)
			c.reply(EventError, "message not relayed")
		}

	default:
		c.reply(EventError, "unknown event "+f.Event)
	}
}

func (s *Server) authorize(ctx context.Context, c *Client, room string) error {
	err := s.Authorizer.CanJoin(ctx, c.Session, room)
	if err != nil && !errors.Is(err, ErrRoomForbidden) && !errors.Is(err, ErrRoomClosed) {
		log.Printf("[RELAY] authorize %s on %s: %v", c.ID, room, err)
	}
	return err
}
