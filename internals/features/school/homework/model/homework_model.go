package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HomeworkModel struct {
	HomeworkID          uuid.UUID       `gorm:"column:homework_id;type:uuid;primaryKey" json:"id"`
	HomeworkSchoolID    uuid.UUID       `gorm:"column:homework_school_id;type:uuid;not null;index" json:"schoolId"`
	HomeworkClassID     uuid.UUID       `gorm:"column:homework_class_id;type:uuid;not null;index" json:"classId"`
	HomeworkTitle       string          `gorm:"column:homework_title;type:varchar(160);not null" json:"title"`
	HomeworkDescription string          `gorm:"column:homework_description;type:text;not null" json:"description"`
	HomeworkSubject     string          `gorm:"column:homework_subject;type:varchar(80);not null" json:"subject"`
	HomeworkDueDate     *datatypes.Date `gorm:"column:homework_due_date" json:"dueDate"`
	HomeworkCreatedBy   uuid.UUID       `gorm:"column:homework_created_by;type:uuid;not null" json:"createdBy"`
	HomeworkCreatedAt   time.Time       `gorm:"column:homework_created_at;autoCreateTime" json:"createdAt"`
	HomeworkDeletedAt   gorm.DeletedAt  `gorm:"column:homework_deleted_at;index" json:"-"`
}

func (HomeworkModel) TableName() string { return "homeworks" }

func (m *HomeworkModel) BeforeCreate(*gorm.DB) error {
	if m.HomeworkID == uuid.Nil {
		m.HomeworkID = uuid.New()
	}
	return nil
}
