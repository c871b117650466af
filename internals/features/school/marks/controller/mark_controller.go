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
	"schoolhub_backend/internals/features/school/marks/dto"
	"schoolhub_backend/internals/features/school/marks/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type MarkController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewMarkController(db *gorm.DB, ca *cache.Aside) *MarkController {
	return &MarkController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

// POST /api/marks/create
func (mc *MarkController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := mc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if fe := req.Check(); fe != nil {
		return helper.JsonValidationError(c, fe)
	}

	ctx := c.UserContext()
	var st studentModel.StudentModel
	if err := mc.DB.WithContext(ctx).
		Select("student_id", "student_class_id").
		Where("student_id = ? AND student_school_id = ?", req.StudentID, schoolID).
		Take(&st).Error; err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student")
	}
	if st.StudentClassID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Student is not assigned to a class")
	}

	mark := model.MarkModel{
		MarkSchoolID:    schoolID,
		MarkStudentID:   st.StudentID,
		MarkClassID:     *st.StudentClassID,
		MarkSubject:     req.Subject,
		MarkMarks:       req.Marks,
		MarkTotalMarks:  req.TotalMarks,
		MarkSuggestions: req.Suggestions,
		MarkCreatedBy:   userID,
	}
	if err := mc.DB.WithContext(ctx).Create(&mark).Error; err != nil {
		log.Printf("[MARKS] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save marks")
	}

	sid := schoolID.String()
	mc.Cache.Forget(ctx, cache.Key("marks", sid, st.StudentID.String()), cache.Key("marks", sid, ""))
	return helper.JsonKeyed(c, fiber.StatusCreated, "Marks saved", "mark", mark)
}

// GET /api/marks/list?studentId=
func (mc *MarkController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	studentID, err := helper.ParseOptionalUUIDQuery(c, "studentId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid studentId")
	}
	if sess, _ := helperAuth.GetSession(c); sess.Role == constants.RoleStudent {
		own := helperAuth.GetStudentID(c)
		if own == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
		}
		studentID = own
	}

	ctx := c.UserContext()
	marks, err := cache.Remember(ctx, mc.Cache, cache.Key("marks", schoolID.String(), helper.UUIDString(studentID)),
		func(ctx context.Context) ([]model.MarkModel, error) {
			return mc.load(ctx, schoolID, studentID)
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch marks")
	}
	return helper.JsonList(c, "marks", marks)
}

func (mc *MarkController) load(ctx context.Context, schoolID uuid.UUID, studentID *uuid.UUID) ([]model.MarkModel, error) {
	q := mc.DB.WithContext(ctx).Where("mark_school_id = ?", schoolID)
	if studentID != nil {
		q = q.Where("mark_student_id = ?", *studentID)
	}
	out := []model.MarkModel{}
	err := q.Order("mark_created_at DESC").Find(&out).Error
	return out, err
}
