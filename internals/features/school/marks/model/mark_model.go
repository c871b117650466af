package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MarkModel struct {
	MarkID          uuid.UUID `gorm:"column:mark_id;type:uuid;primaryKey" json:"id"`
	MarkSchoolID    uuid.UUID `gorm:"column:mark_school_id;type:uuid;not null;index" json:"schoolId"`
	MarkStudentID   uuid.UUID `gorm:"column:mark_student_id;type:uuid;not null;index" json:"studentId"`
	MarkClassID     uuid.UUID `gorm:"column:mark_class_id;type:uuid;not null" json:"classId"`
	MarkSubject     string    `gorm:"column:mark_subject;type:varchar(80);not null" json:"subject"`
	MarkMarks       float64   `gorm:"column:mark_marks;not null" json:"marks"`
	MarkTotalMarks  float64   `gorm:"column:mark_total_marks;not null" json:"totalMarks"`
	MarkSuggestions *string   `gorm:"column:mark_suggestions;type:text" json:"suggestions"`
	MarkCreatedBy   uuid.UUID `gorm:"column:mark_created_by;type:uuid;not null" json:"createdBy"`
	MarkCreatedAt   time.Time `gorm:"column:mark_created_at;autoCreateTime" json:"createdAt"`
}

func (MarkModel) TableName() string { return "marks" }

func (m *MarkModel) BeforeCreate(*gorm.DB) error {
	if m.MarkID == uuid.Nil {
		m.MarkID = uuid.New()
	}
	return nil
}
