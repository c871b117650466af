package controller

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	apptService "schoolhub_backend/internals/features/communication/appointments/service"
	"schoolhub_backend/internals/features/communication/messages/dto"
	"schoolhub_backend/internals/features/communication/messages/model"
	"schoolhub_backend/internals/features/communication/messages/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type MessageController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewMessageController(db *gorm.DB, ca *cache.Aside) *MessageController {
	return &MessageController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

func caller(c *fiber.Ctx) (apptService.Caller, error) {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return apptService.Caller{}, err
	}
	return apptService.Caller{UserID: userID, StudentID: helperAuth.GetStudentID(c)}, nil
}

// appointmentStatus maps appointment lookup errors to a response; ok is false for unexpected errors.
func appointmentStatus(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, apptService.ErrAppointmentNotFound):
		return fiber.StatusNotFound, "Appointment not found", true
	case errors.Is(err, apptService.ErrNotParticipant):
		return fiber.StatusForbidden, "You are not part of this appointment", true
	case errors.Is(err, service.ErrChatClosed):
		return fiber.StatusBadRequest, "Chat is only available for approved appointments", true
	}
	return 0, "", false
}

// GET /api/communication/messages?appointmentId=
func (mc *MessageController) List(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	raw := c.Query("appointmentId")
	if raw == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "appointmentId is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid appointmentId")
	}

	ctx := c.UserContext()
	if _, err := apptService.FindForParticipant(ctx, mc.DB, id, who); err != nil {
		if status, msg, ok := appointmentStatus(err); ok {
			return helper.JsonError(c, status, msg)
		}
		log.Printf("[MESSAGE] load appointment %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch messages")
	}

	msgs, err := cache.Remember(ctx, mc.Cache, service.Key(id), func(ctx context.Context) ([]model.ChatMessageModel, error) {
		return service.History(ctx, mc.DB, id)
	})
	if err != nil {
		log.Printf("[MESSAGE] history %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch messages")
	}
	return helper.JsonList(c, "messages", msgs)
}

// POST /api/communication/messages
func (mc *MessageController) Post(c *fiber.Ctx) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if req.AppointmentID == "" || req.Content == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "appointmentId and content are required")
	}
	if err := mc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid appointmentId")
	}

	ctx := c.UserContext()
	msg, err := service.Post(ctx, mc.DB, id, who, req.Content)
	if err != nil {
		if status, msg, ok := appointmentStatus(err); ok {
			return helper.JsonError(c, status, msg)
		}
		log.Printf("[MESSAGE] post %s: %v", id, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to send message")
	}
	mc.Cache.Forget(ctx, service.Key(id))
	return helper.JsonKeyed(c, fiber.StatusCreated, "Message sent", "data", msg)
}
