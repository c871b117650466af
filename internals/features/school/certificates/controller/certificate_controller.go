package controller

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/certificates/dto"
	"schoolhub_backend/internals/features/school/certificates/model"
	studentModel "schoolhub_backend/internals/features/school/students/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	"schoolhub_backend/internals/helpers/dbtime"
)

type CertificateController struct {
	DB        *gorm.DB
	Cache     *cache.Aside
	Validator *validator.Validate
	Now       func() time.Time
}

func NewCertificateController(db *gorm.DB, ca *cache.Aside) *CertificateController {
	return &CertificateController{DB: db, Cache: ca, Validator: helper.NewValidator(), Now: time.Now}
}

// POST /api/certificates/issue
func (cc *CertificateController) Issue(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.IssueCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := cc.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	issued := cc.Now().UTC()
	if t, err := dbtime.ParseOptionalDateTime(req.IssuedDate); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	} else if t != nil {
		issued = *t
	}

	ctx := c.UserContext()
	var n int64
	if err := cc.DB.WithContext(ctx).Model(&studentModel.StudentModel{}).
		Where("student_id = ? AND student_school_id = ?", req.StudentID, schoolID).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student")
	}
	if n == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	cert := model.CertificateModel{
		CertificateSchoolID:    schoolID,
		CertificateStudentID:   req.StudentID,
		CertificateTitle:       req.Title,
		CertificateDescription: req.Description,
		CertificateURL:         req.CertificateURL,
		CertificateIssuedByID:  userID,
		CertificateIssuedDate:  issued,
	}
	if err := cc.DB.WithContext(ctx).Create(&cert).Error; err != nil {
		log.Printf("[CERTIFICATE] issue: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue certificate")
	}

	sid := schoolID.String()
	cc.Cache.Forget(ctx,
		cache.Key("certificates", sid, req.StudentID.String()),
		cache.Key("certificates", sid, ""))
	return helper.JsonKeyed(c, fiber.StatusCreated, "Certificate issued", "certificate", cert)
}

// GET /api/certificates/list?studentId=
func (cc *CertificateController) List(c *fiber.Ctx) error {
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
	certs, err := cache.Remember(ctx, cc.Cache, cache.Key("certificates", schoolID.String(), helper.UUIDString(studentID)),
		func(ctx context.Context) ([]model.CertificateModel, error) {
			return cc.load(ctx, schoolID, studentID)
		})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch certificates")
	}
	return helper.JsonList(c, "certificates", certs)
}

func (cc *CertificateController) load(ctx context.Context, schoolID uuid.UUID, studentID *uuid.UUID) ([]model.CertificateModel, error) {
	q := cc.DB.WithContext(ctx).Where("certificate_school_id = ?", schoolID)
	if studentID != nil {
		q = q.Where("certificate_student_id = ?", *studentID)
	}
	out := []model.CertificateModel{}
	err := q.Order("certificate_issued_date DESC").Find(&out).Error
	return out, err
}
