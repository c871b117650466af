package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/classes/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func ClassRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewClassController(db, ca)

	g := r.Group("/class", schoolScope.UseSchoolScope(db))
	g.Get("/list", ctrl.List)
	g.Get("/students",
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("class rosters"), constants.TeacherAndAdmin...),
		ctrl.Students)
	g.Post("/create",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("class management"), constants.AdminOnly...),
		ctrl.Create)
}
