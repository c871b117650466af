package dto

import (
	"strings"

	"github.com/google/uuid"

	userModel "schoolhub_backend/internals/features/users/user/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// SignupRequest: POST /api/admin/signup
type SignupRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role" validate:"required,oneof=SCHOOLADMIN TEACHER STUDENT"`
	Mobile   *string `json:"mobile" validate:"omitempty,max=20"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	if r.Mobile != nil {
		m := strings.TrimSpace(*r.Mobile)
		r.Mobile = &m
		if m == "" {
			r.Mobile = nil
		}
	}
}

/* ===================== RESPONSES ===================== */

type SessionUser struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	SchoolID  *uuid.UUID `json:"schoolId"`
	StudentID *uuid.UUID `json:"studentId,omitempty"`
}

func NewSessionUser(u userModel.UserModel, studentID *uuid.UUID) SessionUser {
	return SessionUser{
		ID:        u.ID,
		Name:      u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		SchoolID:  u.SchoolID,
		StudentID: studentID,
	}
}
