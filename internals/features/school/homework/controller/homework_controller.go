package controller

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	"schoolhub_backend/internals/features/school/homework/dto"
	"schoolhub_backend/internals/features/school/homework/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	"schoolhub_backend/internals/helpers/dbtime"
)

type HomeworkController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewHomeworkController(db *gorm.DB, ca *cache.Aside) *HomeworkController {
	return &HomeworkController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

// POST /api/homework/create
func (hc *HomeworkController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateHomeworkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := hc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	due, err := dbtime.ParseOptionalDate(req.DueDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	var n int64
	if err := hc.DB.WithContext(ctx).Model(&classModel.ClassModel{}).
		Where("class_id = ? AND class_school_id = ?", req.ClassID, schoolID).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load class")
	}
	if n == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}

	hw := model.HomeworkModel{
		HomeworkSchoolID:    schoolID,
		HomeworkClassID:     req.ClassID,
		HomeworkTitle:       req.Title,
		HomeworkDescription: req.Description,
		HomeworkSubject:     req.Subject,
		HomeworkDueDate:     due,
		HomeworkCreatedBy:   userID,
	}
	if err := hc.DB.WithContext(ctx).Create(&hw).Error; err != nil {
		log.Printf("[HOMEWORK] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create homework")
	}

	sid := schoolID.String()
	hc.Cache.Forget(ctx, cache.Key("homework", sid, req.ClassID.String()), cache.Key("homework", sid, ""))
	return helper.JsonKeyed(c, fiber.StatusCreated, "Homework created", "homework", hw)
}

// GET /api/homework/list?classId=
func (hc *HomeworkController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParseOptionalUUIDQuery(c, "classId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classId")
	}

	ctx := c.UserContext()
	if sess, _ := helperAuth.GetSession(c); sess.Role == constants.RoleStudent {
		own := helperAuth.GetStudentID(c)
		if own == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
		}
		var st studentModel.StudentModel
		if err := hc.DB.WithContext(ctx).Select("student_class_id").
			Where("student_id = ?", *own).Take(&st).Error; err != nil && !helper.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student")
		}
		if st.StudentClassID == nil {
			return helper.JsonList(c, "homework", []model.HomeworkModel{})
		}
		classID = st.StudentClassID
	}

	items, err := cache.Remember(ctx, hc.Cache, cache.Key("homework", schoolID.String(), helper.UUIDString(classID)),
		func(ctx context.Context) ([]model.HomeworkModel, error) {
			return hc.load(ctx, schoolID, classID)
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch homework")
	}
	return helper.JsonList(c, "homework", items)
}

func (hc *HomeworkController) load(ctx context.Context, schoolID uuid.UUID, classID *uuid.UUID) ([]model.HomeworkModel, error) {
	q := hc.DB.WithContext(ctx).Where("homework_school_id = ?", schoolID)
	if classID != nil {
		q = q.Where("homework_class_id = ?", *classID)
	}
	out := []model.HomeworkModel{}
	err := q.Order("homework_created_at DESC").Find(&out).Error
	return out, err
}
