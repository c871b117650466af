package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateClassRequest struct {
	Name      string     `json:"name" validate:"required,min=1,max=80"`
	Section   string     `json:"section" validate:"max=20"`
	TeacherID *uuid.UUID `json:"teacherId"`
}

func (r *CreateClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Section = strings.TrimSpace(r.Section)
	if r.TeacherID != nil && *r.TeacherID == uuid.Nil {
		r.TeacherID = nil
	}
}

type TeacherRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ClassView is one row of GET /api/class/list.
type ClassView struct {
	ID           uuid.UUID   `json:"id"`
	SchoolID     uuid.UUID   `json:"schoolId"`
	Name         string      `json:"name"`
	Section      string      `json:"section"`
	TeacherID    *uuid.UUID  `json:"teacherId"`
	Teacher      *TeacherRef `json:"teacher"`
	StudentCount int64       `json:"studentCount"`
	CreatedAt    time.Time   `json:"createdAt"`
}
