package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	apptService "schoolhub_backend/internals/features/communication/appointments/service"
	"schoolhub_backend/internals/features/communication/messages/model"
)

var ErrChatClosed = errors.New("chat is only available for approved appointments")

func Key(appointmentID uuid.UUID) string { return cache.Key("messages", appointmentID.String()) }

// History returns the appointment's messages oldest first.
func History(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID) ([]model.ChatMessageModel, error) {
	out := []model.ChatMessageModel{}
	err := db.WithContext(ctx).
		Where("chat_message_appointment_id = ?", appointmentID).
		Order("chat_message_created_at ASC").
		Find(&out).Error
	return out, err
}

// Post stores a message from a participant of an APPROVED appointment.
func Post(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID, who apptService.Caller, content string) (*model.ChatMessageModel, error) {
	appt, err := apptService.FindForParticipant(ctx, db, appointmentID, who)
	if err != nil {
		return nil, err
	}
	if !apptService.CanChat(appt.AppointmentStatus) {
		return nil, ErrChatClosed
	}
	msg := model.ChatMessageModel{
		ChatMessageAppointmentID: appointmentID,
		ChatMessageSenderID:      who.UserID,
		ChatMessageContent:       content,
	}
	if err := db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
