package helper

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	schoolModel "schoolhub_backend/internals/features/schools/schools/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

// RepairSchoolID links a school admin whose user row lacks a school to the
// school they administer. It only writes when the column is still NULL, so
// repeated calls are no-ops. Returns nil when the admin has no school yet.
func RepairSchoolID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*uuid.UUID, error) {
	var link schoolModel.SchoolAdminModel
	err := db.WithContext(ctx).
		Where("school_admin_user_id = ?", userID).
		Order("school_admin_created_at ASC").
		Take(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ? AND school_id IS NULL", userID).
		Update("school_id", link.SchoolAdminSchoolID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[TENANT] repaired school_id for user %s -> %s", userID, link.SchoolAdminSchoolID)
	}
	id := link.SchoolAdminSchoolID
	return &id, nil
}

// ResolveSchoolID: token claim first, then the user row (it may have been set
// after the token was issued), then the admin repair step.
func ResolveSchoolID(ctx context.Context, db *gorm.DB, s Session) (*uuid.UUID, error) {
	if s.SchoolID != nil {
		return s.SchoolID, nil
	}
	var u userModel.UserModel
	if err := db.WithContext(ctx).Select("id", "school_id").Where("id = ?", s.UserID).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if u.SchoolID != nil {
		return u.SchoolID, nil
	}
	if s.Role == constants.RoleSchoolAdmin {
		return RepairSchoolID(ctx, db, s.UserID)
	}
	return nil, nil
}

// ResolveStudentID maps a STUDENT user to their student row.
func ResolveStudentID(ctx context.Context, db *gorm.DB, s Session) (*uuid.UUID, error) {
	if s.StudentID != nil {
		return s.StudentID, nil
	}
	if s.Role != constants.RoleStudent {
		return nil, nil
	}
	var st studentModel.StudentModel
	err := db.WithContext(ctx).Select("student_id").Where("student_user_id = ?", s.UserID).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st.StudentID, nil
}
