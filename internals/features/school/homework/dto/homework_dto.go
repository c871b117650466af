package dto

import (
	"strings"

	"github.com/google/uuid"
)

type CreateHomeworkRequest struct {
	ClassID     uuid.UUID `json:"classId" validate:"required"`
	Title       string    `json:"title" validate:"required,max=160"`
	Description string    `json:"description" validate:"required"`
	Subject     string    `json:"subject" validate:"required,max=80"`
	DueDate     *string   `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateHomeworkRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Subject = strings.TrimSpace(r.Subject)
}
