package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/certificates/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func CertificateRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewCertificateController(db, ca)

	g := r.Group("/certificates", schoolScope.UseSchoolScope(db))
	g.Get("/list", ctrl.List)
	g.Post("/issue",
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("certificate issuing"), constants.TeacherAndAdmin...),
		ctrl.Issue)
}
