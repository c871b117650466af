package controller

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/features/schools/schools/dto"
	"schoolhub_backend/internals/features/schools/schools/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

var errSchoolExists = errors.New("school already exists for this admin")

type SchoolController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewSchoolController(db *gorm.DB, ca *cache.Aside) *SchoolController {
	return &SchoolController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

func schoolKey(id uuid.UUID) string { return cache.Key("school", id.String()) }

var schoolListKey = cache.Key("schools", "")

// POST /api/school/create
func (sc *SchoolController) CreateSchool(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := sc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	school := req.ToModel()
	school.SchoolCreatedBy = &sess.UserID

	err = sc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := helperAuth.ResolveSchoolID(ctx, tx, sess)
		if err != nil {
			return err
		}
		if existing != nil {
			return errSchoolExists
		}
		if err := tx.Create(&school).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.SchoolAdminModel{
			SchoolAdminSchoolID: school.SchoolID,
			SchoolAdminUserID:   sess.UserID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&userModel.UserModel{}).
			Where("id = ?", sess.UserID).
			Update("school_id", school.SchoolID).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, errSchoolExists):
		return helper.JsonError(c, fiber.StatusConflict, "School already exists")
	default:
		log.Printf("[SCHOOL] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create school")
	}

	sc.Cache.Forget(c.UserContext(), schoolListKey)
	return helper.JsonKeyed(c, fiber.StatusCreated, "School created", "school", school)
}

// PUT /api/school/update
func (sc *SchoolController) UpdateSchool(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := sc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	if changes := req.Changes(); len(changes) > 0 {
		if err := sc.DB.WithContext(ctx).Model(&model.SchoolModel{}).
			Where("school_id = ?", schoolID).
			Updates(changes).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update school")
		}
		sc.Cache.Forget(ctx, schoolKey(schoolID), schoolListKey)
	}

	var school model.SchoolModel
	if err := sc.DB.WithContext(ctx).Where("school_id = ?", schoolID).Take(&school).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "School not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load school")
	}
	return helper.JsonKeyed(c, fiber.StatusOK, "School updated", "school", school)
}

// GET /api/school/mine
func (sc *SchoolController) GetMySchool(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID, err := helperAuth.ResolveSchoolID(ctx, sc.DB, sess)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve school")
	}
	if schoolID == nil {
		return helper.JsonKeyed(c, fiber.StatusOK, "ok", "school", nil)
	}

	school, err := cache.Remember(ctx, sc.Cache, schoolKey(*schoolID), func(ctx context.Context) (*model.SchoolModel, error) {
		var m model.SchoolModel
		if err := sc.DB.WithContext(ctx).Where("school_id = ?", *schoolID).Take(&m).Error; err != nil {
			return nil, err
		}
		return &m, nil
	})
	if err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonKeyed(c, fiber.StatusOK, "ok", "school", nil)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load school")
	}
	return helper.JsonKeyed(c, fiber.StatusOK, "ok", "school", school)
}

// GET /api/school/list
func (sc *SchoolController) ListSchools(c *fiber.Ctx) error {
	ctx := c.UserContext()
	schools, err := cache.Remember(ctx, sc.Cache, schoolListKey, func(ctx context.Context) ([]model.SchoolModel, error) {
		out := []model.SchoolModel{}
		err := sc.DB.WithContext(ctx).Order("school_name ASC").Find(&out).Error
		return out, err
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schools")
	}
	return helper.JsonList(c, "schools", schools)
}
