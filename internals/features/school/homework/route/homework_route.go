package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/homework/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func HomeworkRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewHomeworkController(db, ca)

	g := r.Group("/homework", schoolScope.UseSchoolScope(db))
	g.Get("/list", ctrl.List)
	g.Post("/create",
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("homework"), constants.TeacherAndAdmin...),
		ctrl.Create)
}
