package relay

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helperAuth "schoolhub_backend/internals/helpers/auth"
)

const testSecret = "relay-test-secret"

type allowList map[string][]uuid.UUID

func (a allowList) CanJoin(_ context.Context, s helperAuth.Session, room string) error {
	for _, id := range a[room] {
		if id == s.UserID {
			return nil
		}
	}
	return ErrRoomForbidden
}

func startServer(t *testing.T, auth Authorizer) *httptest.Server {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(NewServer(hub, LocalBroker{Hub: hub}, auth, testSecret, nil))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	return dialAs(t, srv, helperAuth.Session{UserID: userID, Role: "STUDENT"})
}

func dialAs(t *testing.T, srv *httptest.Server, s helperAuth.Session) *websocket.Conn {
	t.Helper()
	tok, _, err := helperAuth.IssueAccessToken(s, testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := sonic.Marshal(data)
	require.NoError(t, err)
	b, err := sonic.Marshal(Frame{Event: event, Data: raw})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, b))
}

func next(t *testing.T, conn *websocket.Conn, wait time.Duration) (Frame, bool) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return Frame{}, false
	}
	var f Frame
	require.NoError(t, sonic.Unmarshal(raw, &f))
	return f, true
}

func TestRelay_DeliversToOtherMembersOnly(t *testing.T) {
	room := uuid.NewString()
	alice, bob := uuid.New(), uuid.New()
	srv := startServer(t, allowList{room: {alice, bob}})

	a := dial(t, srv, alice)
	b := dial(t, srv, bob)
	for _, c := range []*websocket.Conn{a, b} {
		send(t, c, EventJoinRoom, room)
		f, ok := next(t, c, 2*time.Second)
		require.True(t, ok)
		assert.Equal(t, EventJoined, f.Event)
	}

	send(t, a, EventSendMessage, map[string]any{
		"roomId":  room,
		"message": map[string]string{"content": "hello"},
	})

	f, ok := next(t, b, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, EventReceiveMessage, f.Event)
	assert.JSONEq(t, `{"content":"hello"}`, string(f.Data))

	_, ok = next(t, a, 300*time.Millisecond)
	assert.False(t, ok, "sender must not receive its own message")
}

func TestRelay_JoinRequiresParticipation(t *testing.T) {
	room := uuid.NewString()
	srv := startServer(t, allowList{room: {uuid.New()}})

	c := dial(t, srv, uuid.New())
	send(t, c, EventJoinRoom, room)
	f, ok := next(t, c, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, EventError, f.Event)
}

func TestRelay_SendWithoutJoinIsRejected(t *testing.T) {
	room := uuid.NewString()
	user := uuid.New()
	srv := startServer(t, allowList{room: {user}})

	c := dial(t, srv, user)
	send(t, c, EventSendMessage, map[string]any{"roomId": room, "message": map[string]string{"content": "x"}})
	f, ok := next(t, c, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, EventError, f.Event)
}

func TestRelay_RejectsMissingToken(t *testing.T) {
	srv := startServer(t, allowList{})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestHub_RemoveClearsRooms(t *testing.T) {
	h := NewHub()
	c := &Client{ID: uuid.New(), send: make(chan []byte, 1), rooms: map[string]struct{}{}}
	h.Join(c, "r1")
	h.Join(c, "r2")
	assert.Equal(t, 1, h.Members("r1"))

	assert.Equal(t, 0, h.Deliver("r1", c.ID, []byte("x")))
	assert.Equal(t, 1, h.Deliver("r1", uuid.New(), []byte("x")))
	assert.Equal(t, 0, h.Deliver("r2", uuid.New(), []byte("y")), "full buffer drops the frame")

	h.Remove(c)
	assert.Equal(t, 0, h.Members("r1"))
	assert.Equal(t, 0, h.Members("r2"))
}
