package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"schoolhub_backend/internals/features/school/leaves/model"
)

// ApplyLeaveRequest: POST /api/leaves/apply
type ApplyLeaveRequest struct {
	LeaveType string  `json:"leaveType" validate:"required,oneof=CASUAL SICK PAID UNPAID"`
	Reason    *string `json:"reason" validate:"omitempty,max=2000"`
	FromDate  string  `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate    string  `json:"toDate" validate:"required,datetime=2006-01-02"`
}

func (r *ApplyLeaveRequest) Normalize() {
	r.LeaveType = strings.ToUpper(strings.TrimSpace(r.LeaveType))
	r.FromDate = strings.TrimSpace(r.FromDate)
	r.ToDate = strings.TrimSpace(r.ToDate)
}

type DecideLeaveRequest struct {
	Remarks *string `json:"remarks" validate:"omitempty,max=2000"`
}

type PersonRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Mobile *string   `json:"mobile,omitempty"`
}

type LeaveView struct {
	ID         uuid.UUID      `json:"id"`
	SchoolID   uuid.UUID      `json:"schoolId"`
	TeacherID  uuid.UUID      `json:"teacherId"`
	LeaveType  string         `json:"leaveType"`
	Reason     *string        `json:"reason"`
	FromDate   datatypes.Date `json:"fromDate"`
	ToDate     datatypes.Date `json:"toDate"`
	Status     string         `json:"status"`
	ApproverID *uuid.UUID     `json:"approverId"`
	Remarks    *string        `json:"remarks"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Teacher    *PersonRef     `json:"teacher,omitempty"`
	Approver   *PersonRef     `json:"approver,omitempty"`
}

func NewLeaveView(m model.LeaveRequestModel) LeaveView {
	return LeaveView{
		ID:         m.LeaveID,
		SchoolID:   m.LeaveSchoolID,
		TeacherID:  m.LeaveTeacherID,
		LeaveType:  m.LeaveType,
		Reason:     m.LeaveReason,
		FromDate:   m.LeaveFromDate,
		ToDate:     m.LeaveToDate,
		Status:     m.LeaveStatus,
		ApproverID: m.LeaveApproverID,
		Remarks:    m.LeaveRemarks,
		CreatedAt:  m.LeaveCreatedAt,
		UpdatedAt:  m.LeaveUpdatedAt,
	}
}
