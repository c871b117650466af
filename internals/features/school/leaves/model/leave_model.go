package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LeaveRequestModel struct {
	LeaveID         uuid.UUID      `gorm:"column:leave_id;type:uuid;primaryKey" json:"id"`
	LeaveTeacherID  uuid.UUID      `gorm:"column:leave_teacher_id;type:uuid;not null;index" json:"teacherId"`
	LeaveSchoolID   uuid.UUID      `gorm:"column:leave_school_id;type:uuid;not null;index" json:"schoolId"`
	LeaveType       string         `gorm:"column:leave_type;type:varchar(10);not null" json:"leaveType"`
	LeaveReason     *string        `gorm:"column:leave_reason;type:text" json:"reason"`
	LeaveFromDate   datatypes.Date `gorm:"column:leave_from_date;not null" json:"fromDate"`
	LeaveToDate     datatypes.Date `gorm:"column:leave_to_date;not null" json:"toDate"`
	LeaveStatus     string         `gorm:"column:leave_status;type:varchar(10);not null;index" json:"status"`
	LeaveApproverID *uuid.UUID     `gorm:"column:leave_approver_id;type:uuid" json:"approverId"`
	LeaveRemarks    *string        `gorm:"column:leave_remarks;type:text" json:"remarks"`
	LeaveCreatedAt  time.Time      `gorm:"column:leave_created_at;autoCreateTime" json:"createdAt"`
	LeaveUpdatedAt  time.Time      `gorm:"column:leave_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (LeaveRequestModel) TableName() string { return "leave_requests" }

func (m *LeaveRequestModel) BeforeCreate(*gorm.DB) error {
	if m.LeaveID == uuid.Nil {
		m.LeaveID = uuid.New()
	}
	return nil
}
