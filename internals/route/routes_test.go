package routes

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	feeController "schoolhub_backend/internals/features/finance/fees/controller"
	feeService "schoolhub_backend/internals/features/finance/fees/service"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	authController "schoolhub_backend/internals/features/users/auth/controller"
	authHelper "schoolhub_backend/internals/features/users/auth/helper"
	authService "schoolhub_backend/internals/features/users/auth/service"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	middlewares "schoolhub_backend/internals/middlewares"
	"schoolhub_backend/internals/testutil"
)

const midtransKey = "SB-Mid-server-test"

type fakeGoogle map[string]authService.GoogleIdentity

func (f fakeGoogle) Verify(idToken, _ string) (authService.GoogleIdentity, error) {
	id, ok := f[idToken]
	if !ok {
		return authService.GoogleIdentity{}, authService.ErrGoogleToken
	}
	return id, nil
}

type fakeGateway struct {
	orders []string
}

func (g *fakeGateway) CreateCheckout(orderID string, amount int64, _ feeService.CustomerInput) (feeService.Checkout, error) {
	g.orders = append(g.orders, orderID)
	return feeService.Checkout{Token: "snap-" + orderID, RedirectURL: "https://pay.test/" + orderID}, nil
}

type harness struct {
	app    *fiber.App
	db     *gorm.DB
	ca     *cache.Aside
	gw     *fakeGateway
	google fakeGoogle
	a, b   testutil.Tenant
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	ca, _ := testutil.NewCache()
	h := &harness{db: db, ca: ca, gw: &fakeGateway{}, google: fakeGoogle{}}
	h.a = testutil.SeedTenant(t, db, "alpha")
	h.b = testutil.SeedTenant(t, db, "beta")

	ac := authController.NewAuthController(db, ca, testutil.Secret)
	ac.Google = h.google
	ac.GoogleClientID = "client-id"
	ac.SecureCookie = false

	h.app = fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middlewares.ErrorHandler,
	})
	Mount(h.app, db, ca, Deps{
		Secret: testutil.Secret,
		Auth:   ac,
		Fees:   feeController.NewFeeController(db, ca, h.gw, midtransKey),
	})
	return h
}

type result struct {
	Status int
	Raw    string
	Body   map[string]any
}

func (h *harness) call(t *testing.T, method, path string, s *helperAuth.Session, body any) result {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+testutil.Token(t, *s))
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)

	out := result{Status: resp.StatusCode, Raw: testutil.ReadBody(t, resp)}
	if out.Raw != "" {
		_ = sonic.UnmarshalString(out.Raw, &out.Body)
	}
	return out
}

func sess(s helperAuth.Session) *helperAuth.Session { return &s }

func items(t *testing.T, r result, key string) []map[string]any {
	t.Helper()
	raw, ok := r.Body[key].([]any)
	require.True(t, ok, "missing list %q in %s", key, r.Raw)
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		out = append(out, it.(map[string]any))
	}
	return out
}

func obj(t *testing.T, r result, key string) map[string]any {
	t.Helper()
	m, ok := r.Body[key].(map[string]any)
	require.True(t, ok, "missing object %q in %s", key, r.Raw)
	return m
}

/* ===================== session + tenant ===================== */

func TestPrivateRoutes_RequireSession(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodGet, "/api/student/list", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, r.Status)
	assert.Equal(t, false, r.Body["success"])
	assert.NotEmpty(t, r.Body["message"])
}

func TestSchool_CreateMineUpdate(t *testing.T) {
	h := newHarness(t)
	admin := testutil.SeedUser(t, h.db, constants.RoleSchoolAdmin, "gamma-admin", nil)
	s := helperAuth.Session{UserID: admin.ID, Role: constants.RoleSchoolAdmin, Name: admin.UserName}

	r := h.call(t, http.MethodGet, "/api/school/mine", &s, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.Nil(t, r.Body["school"])

	r = h.call(t, http.MethodPost, "/api/school/create", &s, map[string]any{"name": "Gamma", "address": "Gamma street"})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	assert.Equal(t, "Gamma", obj(t, r, "school")["name"])

	r = h.call(t, http.MethodPost, "/api/school/create", &s, map[string]any{"name": "Gamma 2", "address": "x"})
	assert.Equal(t, http.StatusConflict, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/school/mine", &s, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.Equal(t, "Gamma", obj(t, r, "school")["name"])

	r = h.call(t, http.MethodPut, "/api/school/update", &s, map[string]any{"name": "Gamma Prime"})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/school/mine", &s, nil)
	assert.Equal(t, "Gamma Prime", obj(t, r, "school")["name"])
}

func TestSchool_ListIsSuperAdminOnly(t *testing.T) {
	h := newHarness(t)
	super := testutil.SeedUser(t, h.db, constants.RoleSuperAdmin, "root", nil)

	r := h.call(t, http.MethodGet, "/api/school/list", sess(helperAuth.Session{UserID: super.ID, Role: constants.RoleSuperAdmin}), nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	list := items(t, r, "schools")
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0]["name"])
	assert.Equal(t, "beta", list[1]["name"])

	r = h.call(t, http.MethodGet, "/api/school/list", sess(h.a.AdminSession()), nil)
	assert.Equal(t, http.StatusForbidden, r.Status)
}

func TestStudentList_IsTenantScoped(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, http.MethodGet, "/api/student/list", sess(h.a.AdminSession()), nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	list := items(t, r, "students")
	require.Len(t, list, 1)
	assert.Equal(t, h.a.Student.StudentID.String(), list[0]["id"])

	r = h.call(t, http.MethodGet, "/api/student/list", sess(h.b.AdminSession()), nil)
	list = items(t, r, "students")
	require.Len(t, list, 1)
	assert.Equal(t, h.b.Student.StudentID.String(), list[0]["id"])
}

func TestStudentList_ForbiddenForStudents(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodGet, "/api/student/list", sess(h.a.StudentSession()), nil)
	assert.Equal(t, http.StatusForbidden, r.Status)
}

func TestClassList_SecondReadIsServedFromCache(t *testing.T) {
	h := newHarness(t)
	admin := sess(h.a.AdminSession())

	selects := testutil.CountQueries(t, h.db, "classes")
	first := h.call(t, http.MethodGet, "/api/class/list", admin, nil)
	require.Equal(t, http.StatusOK, first.Status, first.Raw)
	afterFirst := *selects
	require.Positive(t, afterFirst)

	second := h.call(t, http.MethodGet, "/api/class/list", admin, nil)
	require.Equal(t, http.StatusOK, second.Status)
	assert.Equal(t, afterFirst, *selects, "cached read must not hit the classes table")
	assert.JSONEq(t, first.Raw, second.Raw)
}

func TestClassCreate_InvalidatesList(t *testing.T) {
	h := newHarness(t)
	admin := sess(h.a.AdminSession())

	r := h.call(t, http.MethodGet, "/api/class/list", admin, nil)
	require.Len(t, items(t, r, "classes"), 1)

	r = h.call(t, http.MethodPost, "/api/class/create", admin, map[string]any{
		"name":    "Grade 6",
		"section": "B",
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/class/list", admin, nil)
	assert.Len(t, items(t, r, "classes"), 2)
}

/* ===================== appointments + chat ===================== */

func TestAppointmentChatFlow(t *testing.T) {
	h := newHarness(t)
	student := sess(h.a.StudentSession())
	teacher := sess(h.a.TeacherSession())

	r := h.call(t, http.MethodPost, "/api/communication/appointments", student, map[string]any{
		"teacherId": h.a.Teacher.ID.String(),
		"note":      "talk about homework",
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	assert.Equal(t, "Appointment requested", r.Body["message"])
	appt := obj(t, r, "appointment")
	assert.Equal(t, constants.AppointmentPending, appt["status"])
	apptID := appt["id"].(string)

	// PENDING: chat closed
	r = h.call(t, http.MethodPost, "/api/communication/messages", student, map[string]any{
		"appointmentId": apptID, "content": "hello?",
	})
	assert.Equal(t, http.StatusBadRequest, r.Status)

	r = h.call(t, http.MethodPost, "/api/communication/appointments/"+apptID+"/approve", teacher, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.Equal(t, constants.AppointmentApproved, obj(t, r, "appointment")["status"])

	r = h.call(t, http.MethodPost, "/api/communication/messages", student, map[string]any{
		"appointmentId": apptID, "content": "hello",
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/communication/messages?appointmentId="+apptID, teacher, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	msgs := items(t, r, "messages")
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0]["content"])
	assert.Equal(t, h.a.StudentUser.ID.String(), msgs[0]["senderId"])

	// a second message must show up despite the cached history
	r = h.call(t, http.MethodPost, "/api/communication/messages", teacher, map[string]any{
		"appointmentId": apptID, "content": "hi there",
	})
	require.Equal(t, http.StatusCreated, r.Status)
	r = h.call(t, http.MethodGet, "/api/communication/messages?appointmentId="+apptID, student, nil)
	msgs = items(t, r, "messages")
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0]["content"])
	assert.Equal(t, "hi there", msgs[1]["content"])

	// approving twice is not a valid transition
	r = h.call(t, http.MethodPost, "/api/communication/appointments/"+apptID+"/approve", teacher, nil)
	assert.Equal(t, http.StatusConflict, r.Status)

	r = h.call(t, http.MethodPost, "/api/communication/appointments/"+apptID+"/complete", student, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.Equal(t, constants.AppointmentCompleted, obj(t, r, "appointment")["status"])

	r = h.call(t, http.MethodPost, "/api/communication/messages", student, map[string]any{
		"appointmentId": apptID, "content": "one more",
	})
	assert.Equal(t, http.StatusBadRequest, r.Status)
}

func TestMessages_RejectedAppointmentIsClosed(t *testing.T) {
	h := newHarness(t)
	student := sess(h.a.StudentSession())

	r := h.call(t, http.MethodPost, "/api/communication/appointments", student, map[string]any{
		"teacherId": h.a.Teacher.ID.String(),
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	apptID := obj(t, r, "appointment")["id"].(string)

	r = h.call(t, http.MethodPost, "/api/communication/appointments/"+apptID+"/reject", sess(h.a.TeacherSession()), nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)

	r = h.call(t, http.MethodPost, "/api/communication/messages", student, map[string]any{
		"appointmentId": apptID, "content": "please?",
	})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Chat is only available for approved appointments", r.Body["message"])
}

func TestMessages_NonParticipantIsForbidden(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodPost, "/api/communication/appointments", sess(h.a.StudentSession()), map[string]any{
		"teacherId": h.a.Teacher.ID.String(),
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	apptID := obj(t, r, "appointment")["id"].(string)

	other := testutil.SeedUser(t, h.db, constants.RoleStudent, "alpha-other", &h.a.School.SchoolID)
	outsider := helperAuth.Session{UserID: other.ID, Role: constants.RoleStudent, SchoolID: &h.a.School.SchoolID}

	r = h.call(t, http.MethodGet, "/api/communication/messages?appointmentId="+apptID, &outsider, nil)
	assert.Equal(t, http.StatusForbidden, r.Status)
	assert.Equal(t, "You are not part of this appointment", r.Body["message"])

	r = h.call(t, http.MethodGet, "/api/communication/messages?appointmentId="+apptID, sess(h.b.StudentSession()), nil)
	assert.Equal(t, http.StatusForbidden, r.Status)
}

func TestMessages_Validation(t *testing.T) {
	h := newHarness(t)
	student := sess(h.a.StudentSession())

	r := h.call(t, http.MethodGet, "/api/communication/messages", student, nil)
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "appointmentId is required", r.Body["message"])

	r = h.call(t, http.MethodPost, "/api/communication/messages", student, map[string]any{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "appointmentId and content are required", r.Body["message"])

	r = h.call(t, http.MethodGet, "/api/communication/messages?appointmentId=6f1c9f0e-8d3a-4c52-9a38-0d5b2f1e7c11", student, nil)
	assert.Equal(t, http.StatusNotFound, r.Status)
}

func TestAppointments_RoleRules(t *testing.T) {
	h := newHarness(t)

	r := h.call(t, http.MethodPost, "/api/communication/appointments", sess(h.a.TeacherSession()), map[string]any{
		"teacherId": h.a.Teacher.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, r.Status)
	assert.Equal(t, "Only students can request appointments", r.Body["message"])

	r = h.call(t, http.MethodGet, "/api/communication/appointments", sess(h.a.AdminSession()), nil)
	assert.Equal(t, http.StatusForbidden, r.Status)
	assert.Equal(t, "Only students or teachers can view appointments", r.Body["message"])

	// a STUDENT login without a student row
	orphan := testutil.SeedUser(t, h.db, constants.RoleStudent, "alpha-orphan", &h.a.School.SchoolID)
	noProfile := helperAuth.Session{UserID: orphan.ID, Role: constants.RoleStudent, Name: orphan.UserName, SchoolID: &h.a.School.SchoolID}
	r = h.call(t, http.MethodGet, "/api/communication/appointments", &noProfile, nil)
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Student profile not found", r.Body["message"])

	r = h.call(t, http.MethodPost, "/api/communication/appointments", &noProfile, map[string]any{
		"teacherId": h.a.Teacher.ID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, r.Status)
	assert.Equal(t, "Student profile not found", r.Body["message"])

	// a teacher from another school cannot be booked
	r = h.call(t, http.MethodPost, "/api/communication/appointments", sess(h.a.StudentSession()), map[string]any{
		"teacherId": h.b.Teacher.ID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, r.Status)
}

func TestAppointments_OnlyTheirTeacherDecides(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodPost, "/api/communication/appointments", sess(h.a.StudentSession()), map[string]any{
		"teacherId": h.a.Teacher.ID.String(),
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	apptID := obj(t, r, "appointment")["id"].(string)

	colleague := testutil.SeedUser(t, h.db, constants.RoleTeacher, "alpha-colleague", &h.a.School.SchoolID)
	cs := helperAuth.Session{UserID: colleague.ID, Role: constants.RoleTeacher, SchoolID: &h.a.School.SchoolID}
	r = h.call(t, http.MethodPost, "/api/communication/appointments/"+apptID+"/approve", &cs, nil)
	assert.Equal(t, http.StatusForbidden, r.Status)

	r = h.call(t, http.MethodPost, "/api/communication/appointments/6f1c9f0e-8d3a-4c52-9a38-0d5b2f1e7c11/approve", sess(h.a.TeacherSession()), nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = h.call(t, http.MethodGet, "/api/communication/appointments", sess(h.a.TeacherSession()), nil)
	require.Equal(t, http.StatusOK, r.Status)
	list := items(t, r, "appointments")
	require.Len(t, list, 1)
	assert.Equal(t, constants.AppointmentPending, list[0]["status"])
}

/* ===================== leaves ===================== */

func TestLeaveApplyAndApprove(t *testing.T) {
	h := newHarness(t)
	teacher := sess(h.a.TeacherSession())

	r := h.call(t, http.MethodPost, "/api/leaves/apply", teacher, map[string]any{
		"leaveType": "sick",
		"reason":    "flu",
		"fromDate":  "2026-03-02",
		"toDate":    "2026-03-04",
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	leaveID := obj(t, r, "leave")["id"].(string)

	r = h.call(t, http.MethodGet, "/api/leaves/my", teacher, nil)
	require.Equal(t, http.StatusOK, r.Status)
	mine := items(t, r, "leaves")
	require.Len(t, mine, 1)
	assert.Equal(t, constants.LeavePending, mine[0]["status"])

	// another school's admin cannot see or decide it
	r = h.call(t, http.MethodPost, "/api/leaves/"+leaveID+"/approve", sess(h.b.AdminSession()), nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = h.call(t, http.MethodPost, "/api/leaves/"+leaveID+"/approve", sess(h.a.AdminSession()), map[string]any{"remarks": "get well"})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/leaves/my", teacher, nil)
	assert.Equal(t, constants.LeaveApproved, items(t, r, "leaves")[0]["status"])

	r = h.call(t, http.MethodPost, "/api/leaves/"+leaveID+"/reject", sess(h.a.AdminSession()), nil)
	assert.Equal(t, http.StatusConflict, r.Status)

	r = h.call(t, http.MethodGet, "/api/leaves/pending", sess(h.a.AdminSession()), nil)
	assert.Empty(t, items(t, r, "leaves"))
}

func TestLeaveApply_RejectsReversedDates(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodPost, "/api/leaves/apply", sess(h.a.TeacherSession()), map[string]any{
		"leaveType": "CASUAL", "fromDate": "2026-03-05", "toDate": "2026-03-01",
	})
	assert.Equal(t, http.StatusBadRequest, r.Status)
}

/* ===================== auth ===================== */

func TestLogin_PasswordAndGoogle(t *testing.T) {
	h := newHarness(t)
	hash, err := authHelper.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, h.db.Model(&h.a.Teacher).Update("password", hash).Error)

	r := h.call(t, http.MethodPost, "/api/auth/login", nil, map[string]any{
		"email": h.a.Teacher.Email, "password": "secret123",
	})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	token, _ := r.Body["accessToken"].(string)
	require.NotEmpty(t, token)

	r = h.call(t, http.MethodPost, "/api/auth/login", nil, map[string]any{
		"email": h.a.Teacher.Email, "password": "wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, r.Status)

	h.google["good-token"] = authService.GoogleIdentity{Email: h.a.Admin.Email, Subject: "g-1"}
	r = h.call(t, http.MethodPost, "/api/auth/login-google", nil, map[string]any{"id_token": "good-token"})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.Equal(t, constants.RoleSchoolAdmin, obj(t, r, "user")["role"])

	r = h.call(t, http.MethodPost, "/api/auth/login-google", nil, map[string]any{"id_token": "forged"})
	assert.Equal(t, http.StatusUnauthorized, r.Status)
}

func TestLogout_RevokesToken(t *testing.T) {
	h := newHarness(t)
	tok := testutil.Token(t, h.a.TeacherSession())

	do := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		_ = testutil.ReadBody(t, resp)
		return resp.StatusCode
	}
	require.Equal(t, http.StatusOK, do(http.MethodGet, "/api/auth/me"))
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/api/auth/logout"))
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/auth/me"))
}

func TestSignup_RoleRules(t *testing.T) {
	h := newHarness(t)
	super := testutil.SeedUser(t, h.db, constants.RoleSuperAdmin, "root", nil)
	superSess := &helperAuth.Session{UserID: super.ID, Role: constants.RoleSuperAdmin}

	body := func(role, email string) map[string]any {
		return map[string]any{"name": "New " + role, "email": email, "password": "pass1234", "role": role}
	}

	r := h.call(t, http.MethodPost, "/api/admin/signup", superSess, body(constants.RoleSchoolAdmin, "gamma-admin@example.test"))
	assert.Equal(t, http.StatusCreated, r.Status, r.Raw)

	r = h.call(t, http.MethodPost, "/api/admin/signup", superSess, body(constants.RoleTeacher, "x-teacher@example.test"))
	assert.Equal(t, http.StatusForbidden, r.Status)

	admin := sess(h.a.AdminSession())
	r = h.call(t, http.MethodPost, "/api/admin/signup", admin, body(constants.RoleStudent, "alpha-new-student@example.test"))
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/student/list", admin, nil)
	assert.Len(t, items(t, r, "students"), 2, "student signup creates the student row")

	r = h.call(t, http.MethodPost, "/api/admin/signup", admin, body(constants.RoleSchoolAdmin, "alpha-admin2@example.test"))
	assert.Equal(t, http.StatusForbidden, r.Status)

	r = h.call(t, http.MethodPost, "/api/admin/signup", admin, body(constants.RoleTeacher, h.a.Teacher.Email))
	assert.Equal(t, http.StatusConflict, r.Status)

	r = h.call(t, http.MethodPost, "/api/admin/signup", sess(h.a.TeacherSession()), body(constants.RoleStudent, "nope@example.test"))
	assert.Equal(t, http.StatusForbidden, r.Status)
}

/* ===================== fees ===================== */

func notification(orderID, status, gross string) map[string]any {
	return map[string]any{
		"order_id":           orderID,
		"status_code":        "200",
		"gross_amount":       gross,
		"transaction_status": status,
		"payment_type":       "bank_transfer",
		"signature_key":      feeService.NotificationSignature(orderID, "200", gross, midtransKey),
	}
}

func TestFees_PayAndSettleOnce(t *testing.T) {
	h := newHarness(t)
	admin := sess(h.a.AdminSession())
	student := sess(h.a.StudentSession())

	r := h.call(t, http.MethodGet, "/api/fees/mine", student, nil)
	assert.Equal(t, http.StatusNotFound, r.Status)

	r = h.call(t, http.MethodPut, "/api/fees/student/"+h.a.Student.StudentID.String(), admin, map[string]any{
		"totalFee": 1000, "paidAmount": 0, "dueDate": "2026-06-30",
	})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)

	r = h.call(t, http.MethodGet, "/api/fees/mine", student, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.EqualValues(t, 1000, obj(t, r, "fee")["outstanding"])

	r = h.call(t, http.MethodPost, "/api/fees/pay", student, map[string]any{"amount": 5000})
	assert.Equal(t, http.StatusBadRequest, r.Status)

	r = h.call(t, http.MethodPost, "/api/fees/pay", student, map[string]any{"amount": 400})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	pay := obj(t, r, "payment")
	orderID := pay["orderId"].(string)
	assert.Equal(t, constants.PaymentPending, pay["status"])
	assert.Equal(t, "snap-"+orderID, pay["snapToken"])
	require.Len(t, h.gw.orders, 1)

	forged := notification(orderID, "settlement", "400.00")
	forged["signature_key"] = "deadbeef"
	r = h.call(t, http.MethodPost, "/api/fees/notification", nil, forged)
	assert.Equal(t, http.StatusForbidden, r.Status)

	for i := 0; i < 2; i++ {
		r = h.call(t, http.MethodPost, "/api/fees/notification", nil, notification(orderID, "settlement", "400.00"))
		require.Equal(t, http.StatusOK, r.Status, fmt.Sprintf("delivery %d: %s", i, r.Raw))
		assert.Equal(t, constants.PaymentSettled, r.Body["status"])
	}

	r = h.call(t, http.MethodGet, "/api/fees/mine", student, nil)
	fee := obj(t, r, "fee")
	assert.EqualValues(t, 400, fee["paidAmount"], "replayed notification must not pay twice")
	assert.EqualValues(t, 600, fee["outstanding"])

	r = h.call(t, http.MethodGet, "/api/fees/list", admin, nil)
	list := items(t, r, "fees")
	require.Len(t, list, 1)
	assert.EqualValues(t, 400, list[0]["paidAmount"])

	r = h.call(t, http.MethodGet, "/api/fees/list", sess(h.b.AdminSession()), nil)
	assert.Empty(t, items(t, r, "fees"))
}

func TestFees_FailedPaymentLeavesBalance(t *testing.T) {
	h := newHarness(t)
	student := sess(h.a.StudentSession())

	r := h.call(t, http.MethodPut, "/api/fees/student/"+h.a.Student.StudentID.String(), sess(h.a.AdminSession()), map[string]any{
		"totalFee": 500, "paidAmount": 100,
	})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)

	r = h.call(t, http.MethodPost, "/api/fees/pay", student, map[string]any{"amount": 400})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	orderID := obj(t, r, "payment")["orderId"].(string)

	r = h.call(t, http.MethodPost, "/api/fees/notification", nil, notification(orderID, "expire", "400.00"))
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	assert.Equal(t, constants.PaymentFailed, r.Body["status"])

	// a late settlement after expiry changes nothing
	r = h.call(t, http.MethodPost, "/api/fees/notification", nil, notification(orderID, "settlement", "400.00"))
	require.Equal(t, http.StatusOK, r.Status)
	assert.Equal(t, constants.PaymentFailed, r.Body["status"])

	r = h.call(t, http.MethodGet, "/api/fees/mine", student, nil)
	assert.EqualValues(t, 100, obj(t, r, "fee")["paidAmount"])
}

func TestFees_AdminCannotTouchOtherSchoolStudent(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodPut, "/api/fees/student/"+h.b.Student.StudentID.String(), sess(h.a.AdminSession()), map[string]any{
		"totalFee": 100, "paidAmount": 0,
	})
	assert.Equal(t, http.StatusNotFound, r.Status)
}

/* ===================== base ===================== */

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	r := h.call(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, r.Status)
	assert.Equal(t, "OK", r.Body["status"])

	r = h.call(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, r.Raw, "go_goroutines")
}

/* ===================== tenant isolation ===================== */

type schoolRecords struct {
	second     studentModel.StudentModel
	otherClass classModel.ClassModel
}

func addStudent(t *testing.T, h *harness, tn testutil.Tenant, name string) studentModel.StudentModel {
	t.Helper()
	u := testutil.SeedUser(t, h.db, constants.RoleStudent, name, &tn.School.SchoolID)
	st := studentModel.StudentModel{
		StudentUserID:   u.ID,
		StudentSchoolID: tn.School.SchoolID,
		StudentClassID:  &tn.Class.ClassID,
		StudentName:     u.UserName,
		StudentEmail:    u.Email,
	}
	require.NoError(t, h.db.Create(&st).Error)
	return st
}

// seedSchoolRecords fills every tenant-scoped list of tn through the API.
func seedSchoolRecords(t *testing.T, h *harness, tn testutil.Tenant) schoolRecords {
	t.Helper()
	prefix := tn.School.SchoolName
	rec := schoolRecords{second: addStudent(t, h, tn, prefix+"-second")}
	leaver := addStudent(t, h, tn, prefix+"-leaver")

	rec.otherClass = classModel.ClassModel{ClassSchoolID: tn.School.SchoolID, ClassName: "Grade 6", ClassSection: "B"}
	require.NoError(t, h.db.Create(&rec.otherClass).Error)

	teacher := sess(tn.TeacherSession())
	students := []string{tn.Student.StudentID.String(), rec.second.StudentID.String()}

	r := h.call(t, http.MethodPost, "/api/attendance/mark", teacher, map[string]any{
		"classId": tn.Class.ClassID.String(),
		"date":    "2024-03-01",
		"records": []map[string]any{
			{"studentId": students[0], "status": constants.AttendancePresent},
			{"studentId": students[1], "status": constants.AttendanceAbsent},
		},
	})
	require.Equal(t, http.StatusOK, r.Status, r.Raw)

	for _, id := range students {
		r = h.call(t, http.MethodPost, "/api/marks/create", teacher, map[string]any{
			"studentId": id, "subject": "Math", "marks": 40, "totalMarks": 50,
		})
		require.Equal(t, http.StatusCreated, r.Status, r.Raw)

		r = h.call(t, http.MethodPost, "/api/certificates/issue", teacher, map[string]any{
			"studentId": id, "title": "Good work",
		})
		require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	}

	for _, classID := range []string{tn.Class.ClassID.String(), rec.otherClass.ClassID.String()} {
		r = h.call(t, http.MethodPost, "/api/homework/create", teacher, map[string]any{
			"classId": classID, "title": "Chapter 1", "description": "Read it", "subject": "Math",
		})
		require.Equal(t, http.StatusCreated, r.Status, r.Raw)
	}

	r = h.call(t, http.MethodPost, "/api/newsfeed/create", teacher, map[string]any{
		"title": prefix + " news", "description": "Sports day",
	})
	require.Equal(t, http.StatusCreated, r.Status, r.Raw)

	r = h.call(t, http.MethodPost, "/api/student/"+leaver.StudentID.String()+"/deactivate", sess(tn.AdminSession()), nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	return rec
}

func TestTenantScopedLists_NeverLeakOtherSchool(t *testing.T) {
	h := newHarness(t)
	seedSchoolRecords(t, h, h.a)
	seedSchoolRecords(t, h, h.b)

	lists := []struct {
		path, key string
	}{
		{"/api/student/list", "students"},
		{"/api/class/list", "classes"},
		{"/api/attendance/list", "attendance"},
		{"/api/marks/list", "marks"},
		{"/api/homework/list", "homework"},
		{"/api/newsfeed/list", "newsFeeds"},
		{"/api/certificates/list", "certificates"},
		{"/api/history/student", "histories"},
	}
	for _, pair := range [][2]testutil.Tenant{{h.a, h.b}, {h.b, h.a}} {
		own, other := pair[0], pair[1]
		for _, l := range lists {
			r := h.call(t, http.MethodGet, l.path, sess(own.AdminSession()), nil)
			require.Equal(t, http.StatusOK, r.Status, "%s: %s", l.path, r.Raw)
			got := items(t, r, l.key)
			require.NotEmpty(t, got, l.path)
			for _, it := range got {
				assert.Equal(t, own.School.SchoolID.String(), it["schoolId"], "%s leaked %v", l.path, it)
			}
			assert.NotContains(t, r.Raw, other.School.SchoolID.String(), l.path)
		}

		r := h.call(t, http.MethodGet, "/api/teacher/list", sess(own.AdminSession()), nil)
		require.Equal(t, http.StatusOK, r.Status, r.Raw)
		assert.Contains(t, r.Raw, own.Teacher.ID.String())
		assert.NotContains(t, r.Raw, other.Teacher.ID.String())
	}
}

func TestStudentLists_OnlyOwnRecords(t *testing.T) {
	h := newHarness(t)
	rec := seedSchoolRecords(t, h, h.a)
	me := sess(h.a.StudentSession())
	mine := h.a.Student.StudentID.String()

	for _, l := range []struct{ path, key string }{
		{"/api/attendance/list", "attendance"},
		{"/api/marks/list", "marks"},
		{"/api/certificates/list", "certificates"},
	} {
		// asking for a classmate's records still returns only the caller's
		r := h.call(t, http.MethodGet, l.path+"?studentId="+rec.second.StudentID.String(), me, nil)
		require.Equal(t, http.StatusOK, r.Status, "%s: %s", l.path, r.Raw)
		got := items(t, r, l.key)
		require.Len(t, got, 1, l.path)
		assert.Equal(t, mine, got[0]["studentId"], l.path)
	}

	r := h.call(t, http.MethodGet, "/api/homework/list?classId="+rec.otherClass.ClassID.String(), me, nil)
	require.Equal(t, http.StatusOK, r.Status, r.Raw)
	got := items(t, r, "homework")
	require.Len(t, got, 1)
	assert.Equal(t, h.a.Class.ClassID.String(), got[0]["classId"])

	r = h.call(t, http.MethodGet, "/api/homework/list", sess(h.a.TeacherSession()), nil)
	assert.Len(t, items(t, r, "homework"), 2)
}

func TestAttendanceMark_RejectsRepeatedStudent(t *testing.T) {
	h := newHarness(t)
	id := h.a.Student.StudentID.String()
	r := h.call(t, http.MethodPost, "/api/attendance/mark", sess(h.a.TeacherSession()), map[string]any{
		"classId": h.a.Class.ClassID.String(),
		"date":    "2024-03-01",
		"records": []map[string]any{
			{"studentId": id, "status": constants.AttendancePresent},
			{"studentId": id, "status": constants.AttendanceAbsent},
		},
	})
	assert.Equal(t, http.StatusBadRequest, r.Status, r.Raw)
	assert.Equal(t, "Each student may appear only once", r.Body["message"])
}
