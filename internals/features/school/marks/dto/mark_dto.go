package dto

import (
	"strings"

	"github.com/google/uuid"
)

type CreateMarkRequest struct {
	StudentID   uuid.UUID `json:"studentId" validate:"required"`
	Subject     string    `json:"subject" validate:"required,max=80"`
	Marks       float64   `json:"marks" validate:"gte=0"`
	TotalMarks  float64   `json:"totalMarks" validate:"gt=0"`
	Suggestions *string   `json:"suggestions" validate:"omitempty,max=2000"`
}

func (r *CreateMarkRequest) Normalize() {
	r.Subject = strings.TrimSpace(r.Subject)
}

// Check covers what struct tags cannot: marks may not exceed the total.
func (r CreateMarkRequest) Check() map[string]string {
	if r.Marks > r.TotalMarks {
		return map[string]string{"marks": "lte_total"}
	}
	return nil
}
