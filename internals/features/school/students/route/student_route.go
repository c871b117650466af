package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/students/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

// StudentRoutes mounts /student on an authenticated router.
func StudentRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewStudentController(db, ca)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("student management"), constants.AdminOnly...)

	g := r.Group("/student", schoolScope.UseSchoolScope(db))
	g.Get("/list",
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("the student list"), constants.TeacherAndAdmin...),
		ctrl.List)
	g.Post("/create", onlyAdmin, ctrl.Create)
	g.Post("/:id/deactivate", onlyAdmin, ctrl.Deactivate)
}
