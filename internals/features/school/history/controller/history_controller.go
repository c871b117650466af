package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/features/school/history/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type HistoryController struct {
	DB    *gorm.DB
	Cache *cache.Aside
}

func NewHistoryController(db *gorm.DB, ca *cache.Aside) *HistoryController {
	return &HistoryController{DB: db, Cache: ca}
}

// GET /api/history/student?originalStudentId=
func (hc *HistoryController) StudentHistory(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	originalID, err := helper.ParseOptionalUUIDQuery(c, "originalStudentId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid originalStudentId")
	}

	ctx := c.UserContext()
	key := cache.Key("studentHistories", schoolID.String(), helper.UUIDString(originalID))
	rows, err := cache.Remember(ctx, hc.Cache, key, func(ctx context.Context) ([]model.StudentHistoryModel, error) {
		q := hc.DB.WithContext(ctx).Where("student_history_school_id = ?", schoolID)
		if originalID != nil {
			q = q.Where("student_history_original_student_id = ?", *originalID)
		}
		out := []model.StudentHistoryModel{}
		err := q.Order("student_history_deactivated_at DESC").Find(&out).Error
		return out, err
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student history")
	}
	return helper.JsonList(c, "histories", rows)
}
