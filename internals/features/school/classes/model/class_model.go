package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassModel struct {
	ClassID        uuid.UUID      `gorm:"column:class_id;type:uuid;primaryKey" json:"id"`
	ClassSchoolID  uuid.UUID      `gorm:"column:class_school_id;type:uuid;not null;uniqueIndex:uq_class_name_section;index" json:"schoolId"`
	ClassTeacherID *uuid.UUID     `gorm:"column:class_teacher_id;type:uuid;index" json:"teacherId"`
	ClassName      string         `gorm:"column:class_name;type:varchar(80);not null;uniqueIndex:uq_class_name_section" json:"name"`
	ClassSection   string         `gorm:"column:class_section;type:varchar(20);not null;default:'';uniqueIndex:uq_class_name_section" json:"section"`
	ClassCreatedAt time.Time      `gorm:"column:class_created_at;autoCreateTime" json:"createdAt"`
	ClassUpdatedAt time.Time      `gorm:"column:class_updated_at;autoUpdateTime" json:"updatedAt"`
	ClassDeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"-"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(*gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}
