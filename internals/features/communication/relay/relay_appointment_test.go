package relay

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	apptModel "schoolhub_backend/internals/features/communication/appointments/model"
	"schoolhub_backend/internals/testutil"
)

func seedAppointment(t *testing.T, db *gorm.DB, tn testutil.Tenant, status string) string {
	t.Helper()
	appt := apptModel.AppointmentModel{
		AppointmentStudentID: tn.Student.StudentID,
		AppointmentTeacherID: tn.Teacher.ID,
		AppointmentSchoolID:  tn.School.SchoolID,
		AppointmentStatus:    status,
	}
	require.NoError(t, db.Create(&appt).Error)
	return appt.AppointmentID.String()
}

func joinRoom(t *testing.T, conn *websocket.Conn, room string) Frame {
	t.Helper()
	send(t, conn, EventJoinRoom, room)
	f, ok := next(t, conn, 2*time.Second)
	require.True(t, ok)
	return f
}

func TestAppointmentRelay_ClosedUnlessApproved(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.SeedTenant(t, db, "relay")
	srv := startServer(t, AppointmentAuthorizer{DB: db})

	for _, status := range []string{constants.AppointmentPending, constants.AppointmentRejected, constants.AppointmentCompleted} {
		room := seedAppointment(t, db, tn, status)
		student := dialAs(t, srv, tn.StudentSession())
		teacher := dialAs(t, srv, tn.TeacherSession())
		assert.Equal(t, EventError, joinRoom(t, student, room).Event, status)
		assert.Equal(t, EventError, joinRoom(t, teacher, room).Event, status)
	}
}

func TestAppointmentRelay_ApprovedChatStopsWhenCompleted(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.SeedTenant(t, db, "relay")
	other := testutil.SeedTenant(t, db, "other")
	srv := startServer(t, AppointmentAuthorizer{DB: db})
	room := seedAppointment(t, db, tn, constants.AppointmentApproved)

	student := dialAs(t, srv, tn.StudentSession())
	teacher := dialAs(t, srv, tn.TeacherSession())
	require.Equal(t, EventJoined, joinRoom(t, student, room).Event)
	require.Equal(t, EventJoined, joinRoom(t, teacher, room).Event)

	outsider := dialAs(t, srv, other.TeacherSession())
	assert.Equal(t, EventError, joinRoom(t, outsider, room).Event)

	send(t, student, EventSendMessage, map[string]any{"roomId": room, "message": map[string]string{"content": "hi"}})
	f, ok := next(t, teacher, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, EventReceiveMessage, f.Event)

	require.NoError(t, db.Model(&apptModel.AppointmentModel{}).
		Where("appointment_id = ?", room).
		Update("appointment_status", constants.AppointmentCompleted).Error)

	send(t, student, EventSendMessage, map[string]any{"roomId": room, "message": map[string]string{"content": "late"}})
	f, ok = next(t, student, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, EventError, f.Event)

	_, ok = next(t, teacher, 300*time.Millisecond)
	assert.False(t, ok, "completed appointment must not relay")
}

func TestServer_BaseContextClosesConnections(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(hub, LocalBroker{Hub: hub}, allowList{}, testSecret, nil)
	s.BaseContext = ctx
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	conn := dial(t, srv, uuid.New())
	cancel()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.False(t, isTimeout(err), "connection should be closed, not idle")
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	te, ok := err.(timeout)
	return ok && te.Timeout()
}
