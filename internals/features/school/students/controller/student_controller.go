package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/features/school/students/dto"
	"schoolhub_backend/internals/features/school/students/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type StudentController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
	Now       func() time.Time
}

func NewStudentController(db *gorm.DB, ca *cache.Aside) *StudentController {
	return &StudentController{DB: db, Cache: ca, Validator: helper.NewValidator(), Now: time.Now}
}

// GET /api/student/list
func (sc *StudentController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	students, err := cache.Remember(ctx, sc.Cache, cache.Key("students", schoolID.String()),
		func(ctx context.Context) ([]dto.StudentView, error) {
			return service.LoadStudentViews(ctx, sc.DB, schoolID, service.ListFilter{})
		})
	if err != nil {
		log.Printf("[STUDENT] list %s: %v", schoolID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return helper.JsonList(c, "students", students)
}

// POST /api/student/create
func (sc *StudentController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := sc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	st, err := service.CreateStudent(ctx, sc.DB, schoolID, req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrClassNotInSchool):
		return helper.JsonError(c, fiber.StatusBadRequest, "Class not found in this school")
	case errors.Is(err, service.ErrEmailTaken):
		return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
	default:
		log.Printf("[STUDENT] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create student")
	}

	service.ForgetStudentKeys(ctx, sc.Cache, schoolID)
	return helper.JsonKeyed(c, fiber.StatusCreated, "Student created", "student", st)
}

// POST /api/student/:id/deactivate
func (sc *StudentController) Deactivate(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	actorID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}
	var req dto.DeactivateStudentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := sc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	hist, err := service.DeactivateStudent(ctx, sc.DB, schoolID, studentID, actorID, req.Reason, sc.Now().UTC())
	switch {
	case err == nil:
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, service.ErrAlreadyInactive):
		return helper.JsonError(c, fiber.StatusConflict, "Student is already inactive")
	default:
		log.Printf("[STUDENT] deactivate %s: %v", studentID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to deactivate student")
	}

	service.ForgetStudentKeys(ctx, sc.Cache, schoolID)
	sc.Cache.ForgetPrefix(ctx, cache.Prefix("studentHistories", schoolID.String()))
	return helper.JsonKeyed(c, fiber.StatusOK, "Student deactivated", "history", hist)
}
