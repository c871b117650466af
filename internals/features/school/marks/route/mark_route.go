package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/marks/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func MarkRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewMarkController(db, ca)

	g := r.Group("/marks", schoolScope.UseSchoolScope(db))
	g.Get("/list", ctrl.List)
	g.Post("/create",
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("marks entry"), constants.TeacherAndAdmin...),
		ctrl.Create)
}
