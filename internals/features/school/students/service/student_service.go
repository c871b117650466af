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
	classModel "schoolhub_backend/internals/features/school/classes/model"
	historyModel "schoolhub_backend/internals/features/school/history/model"
	"schoolhub_backend/internals/features/school/students/dto"
	"schoolhub_backend/internals/features/school/students/model"
	authHelper "schoolhub_backend/internals/features/users/auth/helper"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/dbtime"
)

var (
	ErrClassNotInSchool = errors.New("class not found in this school")
	ErrEmailTaken       = errors.New("email already registered")
	ErrStudentNotFound  = errors.New("student not found")
	ErrAlreadyInactive  = errors.New("student is already inactive")
)

// ListFilter narrows LoadStudentViews; nil ClassID means the whole school.
type ListFilter struct {
	ClassID *uuid.UUID
	OrderBy string
}

// LoadStudentViews returns active students of a school with their user and class refs.
func LoadStudentViews(ctx context.Context, db *gorm.DB, schoolID uuid.UUID, f ListFilter) ([]dto.StudentView, error) {
	order := f.OrderBy
	if order == "" {
		order = "student_created_at DESC"
	}
	q := db.WithContext(ctx).
		Where("student_school_id = ? AND student_is_active = ?", schoolID, true)
	if f.ClassID != nil {
		q = q.Where("student_class_id = ?", *f.ClassID)
	}
	var rows []model.StudentModel
	if err := q.Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dto.StudentView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	userIDs := make([]uuid.UUID, 0, len(rows))
	classIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		userIDs = append(userIDs, r.StudentUserID)
		if r.StudentClassID != nil {
			classIDs = append(classIDs, *r.StudentClassID)
		}
	}

	users := map[uuid.UUID]dto.UserRef{}
	var us []userModel.UserModel
	if err := db.WithContext(ctx).Select("id", "user_name", "email").
		Where("id IN ?", userIDs).Find(&us).Error; err != nil {
		return nil, err
	}
	for _, u := range us {
		users[u.ID] = dto.UserRef{ID: u.ID, Name: u.UserName, Email: u.Email}
	}

	classes := map[uuid.UUID]dto.ClassRef{}
	if len(classIDs) > 0 {
		var cs []classModel.ClassModel
		if err := db.WithContext(ctx).Select("class_id", "class_name", "class_section").
			Where("class_id IN ?", classIDs).Find(&cs).Error; err != nil {
			return nil, err
		}
		for _, c := range cs {
			classes[c.ClassID] = dto.ClassRef{ID: c.ClassID, Name: c.ClassName, Section: c.ClassSection}
		}
	}

	for _, r := range rows {
		var cref *dto.ClassRef
		if r.StudentClassID != nil {
			if c, ok := classes[*r.StudentClassID]; ok {
				cref = &c
			}
		}
		out = append(out, dto.NewStudentView(r, users[r.StudentUserID], cref))
	}
	return out, nil
}

// CreateStudent provisions the STUDENT login and its student row together.
func CreateStudent(ctx context.Context, db *gorm.DB, schoolID uuid.UUID, req dto.CreateStudentRequest) (*model.StudentModel, error) {
	dob, err := dbtime.ParseOptionalDate(req.DOB)
	if err != nil {
		return nil, err
	}
	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var st model.StudentModel
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ClassID != nil {
			var n int64
			if err := tx.Model(&classModel.ClassModel{}).
				Where("class_id = ? AND class_school_id = ?", *req.ClassID, schoolID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrClassNotInSchool
			}
		}

		user := userModel.UserModel{
			UserName: req.Name,
			Email:    req.Email,
			Password: hash,
			Role:     constants.RoleStudent,
			SchoolID: &schoolID,
			Mobile:   req.PhoneNo,
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		st = model.StudentModel{
			StudentUserID:     user.ID,
			StudentSchoolID:   schoolID,
			StudentClassID:    req.ClassID,
			StudentName:       req.Name,
			StudentEmail:      req.Email,
			StudentFatherName: req.FatherName,
			StudentPhoneNo:    req.PhoneNo,
			StudentAadhaarNo:  req.AadhaarNo,
			StudentDOB:        dob,
			StudentAddress:    req.Address,
			StudentIsActive:   true,
		}
		return tx.Create(&st).Error
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// DeactivateStudent snapshots the student into student_histories, marks the
// row inactive and disables the login.
func DeactivateStudent(ctx context.Context, db *gorm.DB, schoolID, studentID, actorID uuid.UUID, reason *string, now time.Time) (*historyModel.StudentHistoryModel, error) {
	var hist historyModel.StudentHistoryModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st model.StudentModel
		if err := tx.Where("student_id = ? AND student_school_id = ?", studentID, schoolID).
			Take(&st).Error; err != nil {
			if helper.IsNotFound(err) {
				return ErrStudentNotFound
			}
			return err
		}
		if !st.StudentIsActive {
			return ErrAlreadyInactive
		}

		var className *string
		if st.StudentClassID != nil {
			var cl classModel.ClassModel
			if err := tx.Select("class_name", "class_section").
				Where("class_id = ?", *st.StudentClassID).Take(&cl).Error; err == nil {
				name := cl.ClassName
				if cl.ClassSection != "" {
					name = fmt.Sprintf("%s - %s", cl.ClassName, cl.ClassSection)
				}
				className = &name
			}
		}

		hist = historyModel.StudentHistoryModel{
			StudentHistorySchoolID:          schoolID,
			StudentHistoryOriginalStudentID: st.StudentID,
			StudentHistoryName:              st.StudentName,
			StudentHistoryEmail:             st.StudentEmail,
			StudentHistoryFatherName:        st.StudentFatherName,
			StudentHistoryClassID:           st.StudentClassID,
			StudentHistoryClassName:         className,
			StudentHistoryReason:            reason,
			StudentHistoryDeactivatedBy:     actorID,
			StudentHistoryDeactivatedAt:     now,
		}
		if err := tx.Create(&hist).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StudentModel{}).
			Where("student_id = ?", st.StudentID).
			Update("student_is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", st.StudentUserID).
			Update("is_active", false).Error
	})
	if err != nil {
		return nil, err
	}
	return &hist, nil
}

// ForgetStudentKeys drops every cached read that lists students of the school.
func ForgetStudentKeys(ctx context.Context, ca *cache.Aside, schoolID uuid.UUID) {
	sid := schoolID.String()
	ca.Forget(ctx, cache.Key("students", sid), cache.Key("classes", sid))
	ca.ForgetPrefix(ctx, cache.Prefix("classStudents", sid))
}
