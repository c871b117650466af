package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// One mark per student, date and period.
type AttendanceModel struct {
	AttendanceID        uuid.UUID      `gorm:"column:attendance_id;type:uuid;primaryKey" json:"id"`
	AttendanceSchoolID  uuid.UUID      `gorm:"column:attendance_school_id;type:uuid;not null;index" json:"schoolId"`
	AttendanceClassID   uuid.UUID      `gorm:"column:attendance_class_id;type:uuid;not null;index" json:"classId"`
	AttendanceStudentID uuid.UUID      `gorm:"column:attendance_student_id;type:uuid;not null;uniqueIndex:uq_attendance_slot" json:"studentId"`
	AttendanceDate      datatypes.Date `gorm:"column:attendance_date;not null;uniqueIndex:uq_attendance_slot" json:"date"`
	AttendancePeriod    int            `gorm:"column:attendance_period;not null;uniqueIndex:uq_attendance_slot" json:"period"`
	AttendanceStatus    string         `gorm:"column:attendance_status;type:varchar(10);not null" json:"status"`
	AttendanceMarkedBy  uuid.UUID      `gorm:"column:attendance_marked_by;type:uuid;not null" json:"markedBy"`
	AttendanceCreatedAt time.Time      `gorm:"column:attendance_created_at;autoCreateTime" json:"createdAt"`
	AttendanceUpdatedAt time.Time      `gorm:"column:attendance_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (m *AttendanceModel) BeforeCreate(*gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
