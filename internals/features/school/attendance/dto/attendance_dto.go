package dto

import (
	"strings"

	"github.com/google/uuid"
)

type AttendanceRecord struct {
	StudentID uuid.UUID `json:"studentId" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
}

// MarkAttendanceRequest: POST /api/attendance/mark
type MarkAttendanceRequest struct {
	ClassID uuid.UUID          `json:"classId" validate:"required"`
	Date    string             `json:"date" validate:"required,datetime=2006-01-02"`
	Period  int                `json:"period" validate:"omitempty,min=1,max=12"`
	Records []AttendanceRecord `json:"records" validate:"required,min=1,dive"`
}

func (r *MarkAttendanceRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	if r.Period == 0 {
		r.Period = 1
	}
	for i := range r.Records {
		r.Records[i].Status = strings.ToUpper(strings.TrimSpace(r.Records[i].Status))
	}
}
