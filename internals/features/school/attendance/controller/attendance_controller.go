package controller

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/attendance/dto"
	"schoolhub_backend/internals/features/school/attendance/model"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	"schoolhub_backend/internals/helpers/dbtime"
)

var (
	errClassNotFound   = errors.New("class not found")
	errStudentNotFound = errors.New("student not in class")
)

type AttendanceController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
}

func NewAttendanceController(db *gorm.DB, ca *cache.Aside) *AttendanceController {
	return &AttendanceController{DB: db, Cache: ca, Validator: helper.NewValidator()}
}

// POST /api/attendance/mark
func (ac *AttendanceController) Mark(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ids := make([]uuid.UUID, 0, len(req.Records))
	for _, r := range req.Records {
		ids = append(ids, r.StudentID)
	}
	if len(uniq(ids)) != len(ids) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Each student may appear only once")
	}

	ctx := c.UserContext()
	rows := make([]model.AttendanceModel, 0, len(req.Records))
	err = ac.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&classModel.ClassModel{}).
			Where("class_id = ? AND class_school_id = ?", req.ClassID, schoolID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errClassNotFound
		}

		var inClass int64
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_id IN ? AND student_class_id = ? AND student_school_id = ?", ids, req.ClassID, schoolID).
			Count(&inClass).Error; err != nil {
			return err
		}
		if int(inClass) != len(ids) {
			return errStudentNotFound
		}

		for _, r := range req.Records {
			rows = append(rows, model.AttendanceModel{
				AttendanceSchoolID:  schoolID,
				AttendanceClassID:   req.ClassID,
				AttendanceStudentID: r.StudentID,
				AttendanceDate:      date,
				AttendancePeriod:    req.Period,
				AttendanceStatus:    r.Status,
				AttendanceMarkedBy:  userID,
			})
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_student_id"},
				{Name: "attendance_date"},
				{Name: "attendance_period"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_status", "attendance_marked_by", "attendance_updated_at",
			}),
		}).Create(&rows).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, errClassNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Class not found")
	case errors.Is(err, errStudentNotFound):
		return helper.JsonError(c, fiber.StatusBadRequest, "Every student must belong to the class")
	default:
		log.Printf("[ATTENDANCE] mark: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to mark attendance")
	}

	ac.Cache.ForgetPrefix(ctx, cache.Prefix("attendance", schoolID.String()))
	return helper.JsonKeyed(c, fiber.StatusOK, "Attendance marked", "attendance", rows)
}

// GET /api/attendance/list?classId=&date=
func (ac *AttendanceController) List(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	classID, err := helper.ParseOptionalUUIDQuery(c, "classId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classId")
	}
	rawDate := c.Query("date")
	if rawDate != "" {
		if _, err := dbtime.ParseDate(rawDate); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	parts := []string{schoolID.String(), helper.UUIDString(classID), rawDate}
	var studentID *uuid.UUID
	if sess, _ := helperAuth.GetSession(c); sess.Role == constants.RoleStudent {
		studentID = helperAuth.GetStudentID(c)
		if studentID == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Student profile not found")
		}
		parts = append(parts, studentID.String())
	}

	ctx := c.UserContext()
	records, err := cache.Remember(ctx, ac.Cache, cache.Key("attendance", parts...),
		func(ctx context.Context) ([]model.AttendanceModel, error) {
			q := ac.DB.WithContext(ctx).Where("attendance_school_id = ?", schoolID)
			if classID != nil {
				q = q.Where("attendance_class_id = ?", *classID)
			}
			if rawDate != "" {
				d, _ := dbtime.ParseDate(rawDate)
				q = q.Where("attendance_date = ?", d)
			}
			if studentID != nil {
				q = q.Where("attendance_student_id = ?", *studentID)
			}
			out := []model.AttendanceModel{}
			err := q.Order("attendance_date DESC").Order("attendance_period ASC").Find(&out).Error
			return out, err
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch attendance")
	}
	return helper.JsonList(c, "attendance", records)
}

func uniq(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
