package dto

import (
	"strings"

	"github.com/google/uuid"
)

type IssueCertificateRequest struct {
	StudentID      uuid.UUID `json:"studentId" validate:"required"`
	Title          string    `json:"title" validate:"required,max=160"`
	Description    *string   `json:"description" validate:"omitempty,max=2000"`
	CertificateURL *string   `json:"certificateUrl" validate:"omitempty,url"`
	IssuedDate     *string   `json:"issuedDate"`
}

func (r *IssueCertificateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.CertificateURL != nil && strings.TrimSpace(*r.CertificateURL) == "" {
		r.CertificateURL = nil
	}
}
