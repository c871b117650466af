package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentModel struct {
	AppointmentID          uuid.UUID  `gorm:"column:appointment_id;type:uuid;primaryKey" json:"id"`
	AppointmentStudentID   uuid.UUID  `gorm:"column:appointment_student_id;type:uuid;not null;index" json:"studentId"`
	AppointmentTeacherID   uuid.UUID  `gorm:"column:appointment_teacher_id;type:uuid;not null;index" json:"teacherId"`
	AppointmentSchoolID    uuid.UUID  `gorm:"column:appointment_school_id;type:uuid;not null;index" json:"schoolId"`
	AppointmentStatus      string     `gorm:"column:appointment_status;type:varchar(10);not null" json:"status"`
	AppointmentNote        *string    `gorm:"column:appointment_note;type:text" json:"note"`
	AppointmentScheduledAt *time.Time `gorm:"column:appointment_scheduled_at" json:"scheduledAt"`
	AppointmentCreatedAt   time.Time  `gorm:"column:appointment_created_at;autoCreateTime" json:"createdAt"`
	AppointmentUpdatedAt   time.Time  `gorm:"column:appointment_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (AppointmentModel) TableName() string { return "appointments" }

func (m *AppointmentModel) BeforeCreate(*gorm.DB) error {
	if m.AppointmentID == uuid.Nil {
		m.AppointmentID = uuid.New()
	}
	return nil
}

// IsParticipant: the booking student (by student id) or the teacher (by user id).
func (m AppointmentModel) IsParticipant(userID uuid.UUID, studentID *uuid.UUID) bool {
	if m.AppointmentTeacherID == userID {
		return true
	}
	return studentID != nil && m.AppointmentStudentID == *studentID
}
