package controller

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/features/finance/fees/dto"
	"schoolhub_backend/internals/features/finance/fees/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	"schoolhub_backend/internals/helpers/dbtime"
)

type FeeController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
	Gateway   service.Gateway
	ServerKey string
}

func NewFeeController(db *gorm.DB, ca *cache.Aside, gw service.Gateway, serverKey string) *FeeController {
	return &FeeController{DB: db, Cache: ca, Validator: helper.NewValidator(), Gateway: gw, ServerKey: serverKey}
}

// PUT /api/fees/student/:studentId
func (fc *FeeController) PutStudentFee(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}
	var req dto.UpsertStudentFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := fc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	fee, err := service.UpsertStudentFee(ctx, fc.DB, schoolID, studentID, req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrStudentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	default:
		log.Printf("[FEES] upsert %s: %v", studentID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save fee record")
	}
	service.Forget(ctx, fc.Cache, schoolID, studentID)
	return helper.JsonKeyed(c, fiber.StatusOK, "Fee record saved", "fee", dto.NewFeeView(*fee, ""))
}

// GET /api/fees/mine
func (fc *FeeController) Mine(c *fiber.Ctx) error {
	studentID := helperAuth.GetStudentID(c)
	if studentID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
	}
	ctx := c.UserContext()
	fee, err := cache.Remember(ctx, fc.Cache, service.FeeKey(*studentID), func(ctx context.Context) (*dto.FeeView, error) {
		return service.FindFee(ctx, fc.DB, *studentID)
	})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrFeeNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Fee record not found")
	default:
		log.Printf("[FEES] mine %s: %v", studentID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch fee record")
	}
	return helper.JsonKeyed(c, fiber.StatusOK, "OK", "fee", fee)
}

// GET /api/fees/list
func (fc *FeeController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	fees, err := cache.Remember(ctx, fc.Cache, service.SchoolFeesKey(schoolID), func(ctx context.Context) ([]dto.FeeView, error) {
		return service.ListSchoolFees(ctx, fc.DB, schoolID)
	})
	if err != nil {
		log.Printf("[FEES] list %s: %v", schoolID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch fees")
	}
	return helper.JsonList(c, "fees", fees)
}

// POST /api/fees/pay
func (fc *FeeController) Pay(c *fiber.Ctx) error {
	studentID := helperAuth.GetStudentID(c)
	if studentID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
	}
	var req dto.PayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := fc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	pay, err := service.StartPayment(c.UserContext(), fc.DB, fc.Gateway, *studentID, req.Amount)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrFeeNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Fee record not found")
	case errors.Is(err, service.ErrAmountTooLarge):
		return helper.JsonError(c, fiber.StatusBadRequest, "Amount exceeds the outstanding fee")
	case errors.Is(err, service.ErrGatewayDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Online payment is not available")
	default:
		log.Printf("[FEES] pay %s: %v", studentID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to start payment")
	}
	return helper.JsonKeyed(c, fiber.StatusCreated, "Payment started", "payment", pay)
}

// POST /api/fees/notification
//
// Called by Midtrans; authenticated by the signature_key field only.
func (fc *FeeController) Notification(c *fiber.Ctx) error {
	var n dto.MidtransNotification
	if err := c.BodyParser(&n); err != nil || n.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid notification body")
	}

	ctx := c.UserContext()
	pay, err := service.ApplyNotification(ctx, fc.DB, fc.ServerKey, n, c.Body(), dbtime.NowUTC())
	switch {
	case err == nil:
	case errors.Is(err, service.ErrBadSignature):
		log.Printf("[FEES] rejected notification for %s: bad signature", n.OrderID)
		return helper.JsonError(c, fiber.StatusForbidden, "Invalid signature")
	case errors.Is(err, service.ErrPaymentNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
	case errors.Is(err, service.ErrAmountMismatch):
		return helper.JsonError(c, fiber.StatusBadRequest, "Gross amount does not match")
	default:
		log.Printf("[FEES] notification %s: %v", n.OrderID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process notification")
	}

	service.Forget(ctx, fc.Cache, pay.FeePaymentSchoolID, pay.FeePaymentStudentID)
	return helper.JsonKeyed(c, fiber.StatusOK, "Notification processed", "status", pay.FeePaymentStatus)
}
