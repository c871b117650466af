package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type TeacherController struct {
	DB    *gorm.DB
	Cache *cache.Aside
}

func NewTeacherController(db *gorm.DB, ca *cache.Aside) *TeacherController {
	return &TeacherController{DB: db, Cache: ca}
}

// GET /api/teacher/list
func (tc *TeacherController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	teachers, err := cache.Remember(ctx, tc.Cache, cache.Key("teachers", schoolID.String()),
		func(ctx context.Context) ([]userModel.UserLite, error) {
			var rows []userModel.UserModel
			if err := tc.DB.WithContext(ctx).
				Select("id", "user_name", "email", "mobile").
				Where("school_id = ? AND role = ? AND is_active = ?", schoolID, constants.RoleTeacher, true).
				Order("user_name ASC").
				Find(&rows).Error; err != nil {
				return nil, err
			}
			out := make([]userModel.UserLite, 0, len(rows))
			for _, u := range rows {
				out = append(out, u.Lite())
			}
			return out, nil
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch teachers")
	}
	return helper.JsonList(c, "teachers", teachers)
}
