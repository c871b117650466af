package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentModel struct {
	StudentID         uuid.UUID       `gorm:"column:student_id;type:uuid;primaryKey" json:"id"`
	StudentUserID     uuid.UUID       `gorm:"column:student_user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	StudentSchoolID   uuid.UUID       `gorm:"column:student_school_id;type:uuid;not null;index" json:"schoolId"`
	StudentClassID    *uuid.UUID      `gorm:"column:student_class_id;type:uuid;index" json:"classId"`
	StudentName       string          `gorm:"column:student_name;type:varchar(120);not null" json:"name"`
	StudentEmail      string          `gorm:"column:student_email;type:varchar(255);not null" json:"email"`
	StudentFatherName *string         `gorm:"column:student_father_name;type:varchar(120)" json:"fatherName"`
	StudentPhoneNo    *string         `gorm:"column:student_phone_no;type:varchar(20)" json:"phoneNo"`
	StudentAadhaarNo  *string         `gorm:"column:student_aadhaar_no;type:varchar(20)" json:"aadhaarNo"`
	StudentDOB        *datatypes.Date `gorm:"column:student_dob" json:"dob"`
	StudentAddress    *string         `gorm:"column:student_address;type:text" json:"address"`
	StudentIsActive   bool            `gorm:"column:student_is_active;not null;default:true" json:"isActive"`
	StudentCreatedAt  time.Time       `gorm:"column:student_created_at;autoCreateTime;index" json:"createdAt"`
	StudentUpdatedAt  time.Time       `gorm:"column:student_updated_at;autoUpdateTime" json:"updatedAt"`
	StudentDeletedAt  gorm.DeletedAt  `gorm:"column:student_deleted_at;index" json:"-"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(*gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
