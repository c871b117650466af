package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot of a student taken when the record is deactivated.
type StudentHistoryModel struct {
	StudentHistoryID                uuid.UUID  `gorm:"column:student_history_id;type:uuid;primaryKey" json:"id"`
	StudentHistorySchoolID          uuid.UUID  `gorm:"column:student_history_school_id;type:uuid;not null;index" json:"schoolId"`
	StudentHistoryOriginalStudentID uuid.UUID  `gorm:"column:student_history_original_student_id;type:uuid;not null;index" json:"originalStudentId"`
	StudentHistoryName              string     `gorm:"column:student_history_name;type:varchar(120);not null" json:"name"`
	StudentHistoryEmail             string     `gorm:"column:student_history_email;type:varchar(255);not null" json:"email"`
	StudentHistoryFatherName        *string    `gorm:"column:student_history_father_name;type:varchar(120)" json:"fatherName"`
	StudentHistoryClassID           *uuid.UUID `gorm:"column:student_history_class_id;type:uuid" json:"classId"`
	StudentHistoryClassName         *string    `gorm:"column:student_history_class_name;type:varchar(120)" json:"className"`
	StudentHistoryReason            *string    `gorm:"column:student_history_reason;type:text" json:"reason"`
	StudentHistoryDeactivatedBy     uuid.UUID  `gorm:"column:student_history_deactivated_by;type:uuid;not null" json:"deactivatedBy"`
	StudentHistoryDeactivatedAt     time.Time  `gorm:"column:student_history_deactivated_at;not null" json:"deactivatedAt"`
}

func (StudentHistoryModel) TableName() string { return "student_histories" }

func (m *StudentHistoryModel) BeforeCreate(*gorm.DB) error {
	if m.StudentHistoryID == uuid.Nil {
		m.StudentHistoryID = uuid.New()
	}
	return nil
}
