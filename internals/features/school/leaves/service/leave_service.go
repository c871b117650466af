package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/leaves/dto"
	"schoolhub_backend/internals/features/school/leaves/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/dbtime"
)

var (
	ErrLeaveNotFound = errors.New("leave request not found")
	ErrDateRange     = errors.New("fromDate must not be after toDate")
)

func Apply(ctx context.Context, db *gorm.DB, schoolID, teacherID uuid.UUID, req dto.ApplyLeaveRequest) (*model.LeaveRequestModel, error) {
	from, err := dbtime.ParseDate(req.FromDate)
	if err != nil {
		return nil, err
	}
	to, err := dbtime.ParseDate(req.ToDate)
	if err != nil {
		return nil, err
	}
	if time.Time(from).After(time.Time(to)) {
		return nil, ErrDateRange
	}
	leave := model.LeaveRequestModel{
		LeaveTeacherID: teacherID,
		LeaveSchoolID:  schoolID,
		LeaveType:      req.LeaveType,
		LeaveReason:    req.Reason,
		LeaveFromDate:  from,
		LeaveToDate:    to,
		LeaveStatus:    constants.LeavePending,
	}
	if err := db.WithContext(ctx).Create(&leave).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

// Decide moves a PENDING leave of the school to APPROVED or REJECTED.
// The status guard in the UPDATE keeps two concurrent decisions from both winning.
func Decide(ctx context.Context, db *gorm.DB, schoolID, leaveID, approverID uuid.UUID, to string, remarks *string) (*model.LeaveRequestModel, error) {
	var leave model.LeaveRequestModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("leave_id = ? AND leave_school_id = ?", leaveID, schoolID).
			Take(&leave).Error; err != nil {
			if helper.IsNotFound(err) {
				return ErrLeaveNotFound
			}
			return err
		}
		if err := Transition(leave.LeaveStatus, to); err != nil {
			return err
		}
		res := tx.Model(&model.LeaveRequestModel{}).
			Where("leave_id = ? AND leave_status = ?", leaveID, leave.LeaveStatus).
			Updates(map[string]any{
				"leave_status":      to,
				"leave_approver_id": approverID,
				"leave_remarks":     remarks,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: leave was decided concurrently", ErrInvalidTransition)
		}
		return tx.Where("leave_id = ?", leaveID).Take(&leave).Error
	})
	if err != nil {
		return nil, err
	}
	return &leave, nil
}

type ListScope struct {
	SchoolID  uuid.UUID
	TeacherID *uuid.UUID
	Status    string
	Ascending bool
}

func List(ctx context.Context, db *gorm.DB, s ListScope) ([]dto.LeaveView, error) {
	q := db.WithContext(ctx).Where("leave_school_id = ?", s.SchoolID)
	if s.TeacherID != nil {
		q = q.Where("leave_teacher_id = ?", *s.TeacherID)
	}
	if s.Status != "" {
		q = q.Where("leave_status = ?", s.Status)
	}
	order := "leave_created_at DESC"
	if s.Ascending {
		order = "leave_created_at ASC"
	}
	var rows []model.LeaveRequestModel
	if err := q.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.LeaveView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := []uuid.UUID{}
	for _, r := range rows {
		ids = append(ids, r.LeaveTeacherID)
		if r.LeaveApproverID != nil {
			ids = append(ids, *r.LeaveApproverID)
		}
	}
	var users []userModel.UserModel
	if err := db.WithContext(ctx).Unscoped().Select("id", "user_name", "email", "mobile").
		Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	people := make(map[uuid.UUID]dto.PersonRef, len(users))
	for _, u := range users {
		people[u.ID] = dto.PersonRef{ID: u.ID, Name: u.UserName, Email: u.Email, Mobile: u.Mobile}
	}
	for _, r := range rows {
		v := dto.NewLeaveView(r)
		if p, ok := people[r.LeaveTeacherID]; ok {
			v.Teacher = &p
		}
		if r.LeaveApproverID != nil {
			if p, ok := people[*r.LeaveApproverID]; ok {
				p.Mobile = nil
				v.Approver = &p
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// Keys

func AllKey(schoolID uuid.UUID) string     { return cache.Key("leaves", schoolID.String()) }
func PendingKey(schoolID uuid.UUID) string { return cache.Key("leaves", "pending", schoolID.String()) }
func MyKey(userID uuid.UUID) string        { return cache.Key("leaves", "my", userID.String()) }

func Forget(ctx context.Context, ca *cache.Aside, schoolID, teacherID uuid.UUID) {
	ca.Forget(ctx, AllKey(schoolID), PendingKey(schoolID), MyKey(teacherID))
}
