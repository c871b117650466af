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
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/classes/dto"
	"schoolhub_backend/internals/features/school/classes/model"
	studentDTO "schoolhub_backend/internals/features/school/students/dto"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	studentService "schoolhub_backend/internals/features/school/students/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

var errTeacherNotInSchool = errors.New("teacher not found in this school")

type ClassController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewClassController(db *gorm.DB, ca *cache.Aside) *ClassController {
	return &ClassController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

// GET /api/class/list
func (cc *ClassController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	classes, err := cache.Remember(ctx, cc.Cache, cache.Key("classes", schoolID.String()),
		func(ctx context.Context) ([]dto.ClassView, error) {
			return cc.loadClasses(ctx, schoolID)
		})
	if err != nil {
		log.Printf("[CLASS] list %s: %v", schoolID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch classes")
	}
	return helper.JsonList(c, "classes", classes)
}

type studentCount struct {
	ClassID uuid.UUID `gorm:"column:student_class_id"`
	N       int64     `gorm:"column:n"`
}

func (cc *ClassController) loadClasses(ctx context.Context, schoolID uuid.UUID) ([]dto.ClassView, error) {
	var rows []model.ClassModel
	if err := cc.DB.WithContext(ctx).
		Where("class_school_id = ?", schoolID).
		Order("class_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dto.ClassView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	var counts []studentCount
	if err := cc.DB.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Select("student_class_id, COUNT(*) AS n").
		Where("student_school_id = ? AND student_is_active = ? AND student_class_id IS NOT NULL", schoolID, true).
		Group("student_class_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byClass := make(map[uuid.UUID]int64, len(counts))
	for _, r := range counts {
		byClass[r.ClassID] = r.N
	}

	teacherIDs := []uuid.UUID{}
	for _, r := range rows {
		if r.ClassTeacherID != nil {
			teacherIDs = append(teacherIDs, *r.ClassTeacherID)
		}
	}
	teachers := map[uuid.UUID]dto.TeacherRef{}
	if len(teacherIDs) > 0 {
		var us []userModel.UserModel
		if err := cc.DB.WithContext(ctx).Select("id", "user_name", "email").
			Where("id IN ?", teacherIDs).Find(&us).Error; err != nil {
			return nil, err
		}
		for _, u := range us {
			teachers[u.ID] = dto.TeacherRef{ID: u.ID, Name: u.UserName, Email: u.Email}
		}
	}

	for _, r := range rows {
		v := dto.ClassView{
			ID:           r.ClassID,
			SchoolID:     r.ClassSchoolID,
			Name:         r.ClassName,
			Section:      r.ClassSection,
			TeacherID:    r.ClassTeacherID,
			StudentCount: byClass[r.ClassID],
			CreatedAt:    r.ClassCreatedAt,
		}
		if r.ClassTeacherID != nil {
			if t, ok := teachers[*r.ClassTeacherID]; ok {
				v.Teacher = &t
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// POST /api/class/create
func (cc *ClassController) Create(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := cc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	class := model.ClassModel{
		ClassSchoolID:  schoolID,
		ClassTeacherID: req.TeacherID,
		ClassName:      req.Name,
		ClassSection:   req.Section,
	}
	err = cc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.TeacherID != nil {
			var n int64
			if err := tx.Model(&userModel.UserModel{}).
				Where("id = ? AND school_id = ? AND role = ?", *req.TeacherID, schoolID, constants.RoleTeacher).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errTeacherNotInSchool
			}
		}
		return tx.Create(&class).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, errTeacherNotInSchool):
		return helper.JsonError(c, fiber.StatusBadRequest, "Teacher not found in this school")
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Class with this name and section already exists")
	default:
		log.Printf("[CLASS] create: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create class")
	}

	cc.Cache.Forget(ctx, cache.Key("classes", schoolID.String()))
	return helper.JsonKeyed(c, fiber.StatusCreated, "Class created", "class", class)
}

// GET /api/class/students?classId=
func (cc *ClassController) Students(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParseOptionalUUIDQuery(c, "classId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classId")
	}
	if classID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "classId is required")
	}

	ctx := c.UserContext()
	var n int64
	if err := cc.DB.WithContext(ctx).Model(&model.ClassModel{}).
		Where("class_id = ? AND class_school_id = ?", *classID, schoolID).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load class")
	}
	if n == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	}

	students, err := cache.Remember(ctx, cc.Cache, cache.Key("classStudents", schoolID.String(), classID.String()),
		func(ctx context.Context) ([]studentDTO.StudentView, error) {
			return studentService.LoadStudentViews(ctx, cc.DB, schoolID, studentService.ListFilter{
				ClassID: classID,
				OrderBy: "student_name ASC",
			})
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	return helper.JsonList(c, "students", students)
}
