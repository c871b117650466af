package controller

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/communication/appointments/dto"
	"schoolhub_backend/internals/features/communication/appointments/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type AppointmentController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewAppointmentController(db *gorm.DB, ca *cache.Aside) *AppointmentController {
	return &AppointmentController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

// POST /api/communication/appointments
func (ac *AppointmentController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	studentID := helperAuth.GetStudentID(c)
	if studentID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
	}
	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	appt, err := service.Create(ctx, ac.DB, schoolID, *studentID, req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTeacherNotFound), errors.Is(err, service.ErrBadSchedule):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[APPOINTMENT] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to request appointment")
	}
	service.Forget(ctx, ac.Cache, *appt)
	return helper.JsonKeyed(c, fiber.StatusCreated, "Appointment requested", "appointment", dto.NewAppointmentView(*appt))
}

// GET /api/communication/appointments
func (ac *AppointmentController) List(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}

	var (
		key   string
		scope service.ListScope
	)
	switch sess.Role {
	case constants.RoleStudent:
		studentID := helperAuth.GetStudentID(c)
		if studentID == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
		}
		key, scope = service.StudentKey(*studentID), service.ListScope{StudentID: studentID}
	case constants.RoleTeacher:
		teacherID := sess.UserID
		key, scope = service.TeacherKey(teacherID), service.ListScope{TeacherID: &teacherID}
	default:
		return helper.JsonError(c, fiber.StatusForbidden, "Only students or teachers can view appointments")
	}

	ctx := c.UserContext()
	items, err := cache.Remember(ctx, ac.Cache, key, func(ctx context.Context) ([]dto.AppointmentView, error) {
		return service.List(ctx, ac.DB, scope)
	})
	if err != nil {
		log.Printf("[APPOINTMENT] list %s: %v", key, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch appointments")
	}
	return helper.JsonList(c, "appointments", items)
}

// POST /api/communication/appointments/:id/approve
func (ac *AppointmentController) Approve(c *fiber.Ctx) error {
	return ac.move(c, constants.AppointmentApproved, "Appointment approved")
}

// POST /api/communication/appointments/:id/reject
func (ac *AppointmentController) Reject(c *fiber.Ctx) error {
	return ac.move(c, constants.AppointmentRejected, "Appointment rejected")
}

// POST /api/communication/appointments/:id/complete
func (ac *AppointmentController) Complete(c *fiber.Ctx) error {
	return ac.move(c, constants.AppointmentCompleted, "Appointment completed")
}

func (ac *AppointmentController) move(c *fiber.Ctx, to, msg string) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid appointment id")
	}

	ctx := c.UserContext()
	appt, err := service.Move(ctx, ac.DB, id, service.Caller{UserID: userID, StudentID: helperAuth.GetStudentID(c)}, to)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrAppointmentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Appointment not found")
	case errors.Is(err, service.ErrNotAppointedTeacher):
		return helper.JsonError(c, fiber.StatusForbidden, "Only the appointment's teacher can do this")
	case errors.Is(err, service.ErrNotParticipant):
		return helper.JsonError(c, fiber.StatusForbidden, "You are not part of this appointment")
	case errors.Is(err, service.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		log.Printf("[APPOINTMENT] %s %s: %v", to, id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update appointment")
	}
	service.Forget(ctx, ac.Cache, *appt)
	return helper.JsonKeyed(c, fiber.StatusOK, msg, "appointment", dto.NewAppointmentView(*appt))
}
