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
	"schoolhub_backend/internals/features/school/leaves/dto"
	"schoolhub_backend/internals/features/school/leaves/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type LeaveController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewLeaveController(db *gorm.DB, ca *cache.Aside) *LeaveController {
	return &LeaveController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

// POST /api/leaves/apply
func (lc *LeaveController) Apply(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.ApplyLeaveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := lc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	leave, err := service.Apply(ctx, lc.DB, schoolID, userID, req)
	if err != nil {
		if errors.Is(err, service.ErrDateRange) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[LEAVE] apply: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to apply for leave")
	}
	service.Forget(ctx, lc.Cache, schoolID, userID)
	return helper.JsonKeyed(c, fiber.StatusCreated, "Leave requested", "leave", dto.NewLeaveView(*leave))
}

func (lc *LeaveController) list(c *fiber.Ctx, key string, scope service.ListScope) error {
	ctx := c.UserContext()
	leaves, err := cache.Remember(ctx, lc.Cache, key, func(ctx context.Context) ([]dto.LeaveView, error) {
		return service.List(ctx, lc.DB, scope)
	})
	if err != nil {
		log.Printf("[LEAVE] list %s: %v", key, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch leaves")
	}
	return helper.JsonList(c, "leaves", leaves)
}

// GET /api/leaves/my
func (lc *LeaveController) My(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	return lc.list(c, service.MyKey(userID), service.ListScope{SchoolID: schoolID, TeacherID: &userID})
}

// GET /api/leaves/all
func (lc *LeaveController) All(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	return lc.list(c, service.AllKey(schoolID), service.ListScope{SchoolID: schoolID})
}

// GET /api/leaves/pending
func (lc *LeaveController) Pending(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	return lc.list(c, service.PendingKey(schoolID), service.ListScope{
		SchoolID:  schoolID,
		Status:    constants.LeavePending,
		Ascending: true,
	})
}

// POST /api/leaves/:id/approve
func (lc *LeaveController) Approve(c *fiber.Ctx) error {
	return lc.decide(c, constants.LeaveApproved)
}

// POST /api/leaves/:id/reject
func (lc *LeaveController) Reject(c *fiber.Ctx) error {
	return lc.decide(c, constants.LeaveRejected)
}

func (lc *LeaveController) decide(c *fiber.Ctx, to string) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	approverID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	leaveID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid leave id")
	}
	var req dto.DecideLeaveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := lc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	leave, err := service.Decide(ctx, lc.DB, schoolID, leaveID, approverID, to, req.Remarks)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrLeaveNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Leave request not found")
	case errors.Is(err, service.ErrInvalidTransition):
		return helper.JsonError(c, fiber.StatusConflict, "Leave request is no longer pending")
	default:
		log.Printf("[LEAVE] decide %s: %v", leaveID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update leave request")
	}

	service.Forget(ctx, lc.Cache, schoolID, leave.LeaveTeacherID)
	return helper.JsonKeyed(c, fiber.StatusOK, "Leave "+to, "leave", dto.NewLeaveView(*leave))
}
