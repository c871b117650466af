package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageModel struct {
	ChatMessageID            uuid.UUID `gorm:"column:chat_message_id;type:uuid;primaryKey" json:"id"`
	ChatMessageAppointmentID uuid.UUID `gorm:"column:chat_message_appointment_id;type:uuid;not null;index" json:"appointmentId"`
	ChatMessageSenderID      uuid.UUID `gorm:"column:chat_message_sender_id;type:uuid;not null" json:"senderId"`
	ChatMessageContent       string    `gorm:"column:chat_message_content;type:text;not null" json:"content"`
	ChatMessageCreatedAt     time.Time `gorm:"column:chat_message_created_at;autoCreateTime;index" json:"createdAt"`
}

func (ChatMessageModel) TableName() string { return "chat_messages" }

func (m *ChatMessageModel) BeforeCreate(*gorm.DB) error {
	if m.ChatMessageID == uuid.Nil {
		m.ChatMessageID = uuid.New()
	}
	return nil
}
