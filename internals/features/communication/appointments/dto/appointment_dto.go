package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/features/communication/appointments/model"
)

// CreateAppointmentRequest: POST /api/communication/appointments
type CreateAppointmentRequest struct {
	TeacherID   string  `json:"teacherId" validate:"required,uuid"`
	ScheduledAt *string `json:"scheduledAt"`
	Note        *string `json:"note" validate:"omitempty,max=2000"`
}

func (r *CreateAppointmentRequest) Normalize() {
	r.TeacherID = strings.TrimSpace(r.TeacherID)
	if r.Note != nil {
		v := strings.TrimSpace(*r.Note)
		if v == "" {
			r.Note = nil
		} else {
			r.Note = &v
		}
	}
	if r.ScheduledAt != nil && strings.TrimSpace(*r.ScheduledAt) == "" {
		r.ScheduledAt = nil
	}
}

type ParticipantRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type AppointmentView struct {
	ID          uuid.UUID       `json:"id"`
	StudentID   uuid.UUID       `json:"studentId"`
	TeacherID   uuid.UUID       `json:"teacherId"`
	SchoolID    uuid.UUID       `json:"schoolId"`
	Status      string          `json:"status"`
	Note        *string         `json:"note"`
	ScheduledAt *time.Time      `json:"scheduledAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Student     *ParticipantRef `json:"student,omitempty"`
	Teacher     *ParticipantRef `json:"teacher,omitempty"`
}

func NewAppointmentView(m model.AppointmentModel) AppointmentView {
	return AppointmentView{
		ID:          m.AppointmentID,
		StudentID:   m.AppointmentStudentID,
		TeacherID:   m.AppointmentTeacherID,
		SchoolID:    m.AppointmentSchoolID,
		Status:      m.AppointmentStatus,
		Note:        m.AppointmentNote,
		ScheduledAt: m.AppointmentScheduledAt,
		CreatedAt:   m.AppointmentCreatedAt,
		UpdatedAt:   m.AppointmentUpdatedAt,
	}
}
