package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"schoolhub_backend/internals/features/school/students/model"
)

type CreateStudentRequest struct {
	Name       string     `json:"name" validate:"required,min=2,max=120"`
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required,min=8,max=72"`
	ClassID    *uuid.UUID `json:"classId"`
	FatherName *string    `json:"fatherName" validate:"omitempty,max=120"`
	PhoneNo    *string    `json:"phoneNo" validate:"omitempty,max=20"`
	AadhaarNo  *string    `json:"aadhaarNo" validate:"omitempty,max=20"`
	DOB        *string    `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address    *string    `json:"address" validate:"omitempty,max=500"`
}

func (r *CreateStudentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.ClassID != nil && *r.ClassID == uuid.Nil {
		r.ClassID = nil
	}
}

type DeactivateStudentRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

/* ===================== VIEW ===================== */

type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type ClassRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Section string    `json:"section"`
}

// StudentView is one row of GET /api/student/list.
type StudentView struct {
	ID         uuid.UUID       `json:"id"`
	SchoolID   uuid.UUID       `json:"schoolId"`
	ClassID    *uuid.UUID      `json:"classId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	FatherName *string         `json:"fatherName"`
	PhoneNo    *string         `json:"phoneNo"`
	AadhaarNo  *string         `json:"aadhaarNo"`
	DOB        *datatypes.Date `json:"dob"`
	Address    *string         `json:"address"`
	IsActive   bool            `json:"isActive"`
	CreatedAt  time.Time       `json:"createdAt"`
	User       UserRef         `json:"user"`
	Class      *ClassRef       `json:"class"`
}

func NewStudentView(m model.StudentModel, user UserRef, class *ClassRef) StudentView {
	return StudentView{
		ID:         m.StudentID,
		SchoolID:   m.StudentSchoolID,
		ClassID:    m.StudentClassID,
		Name:       m.StudentName,
		Email:      m.StudentEmail,
		FatherName: m.StudentFatherName,
		PhoneNo:    m.StudentPhoneNo,
		AadhaarNo:  m.StudentAadhaarNo,
		DOB:        m.StudentDOB,
		Address:    m.StudentAddress,
		IsActive:   m.StudentIsActive,
		CreatedAt:  m.StudentCreatedAt,
		User:       user,
		Class:      class,
	}
}
