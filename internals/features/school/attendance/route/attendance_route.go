package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/attendance/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func AttendanceRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewAttendanceController(db, ca)

	g := r.Group("/attendance", schoolScope.UseSchoolScope(db))
	g.Get("/list", ctrl.List)
	g.Post("/mark",
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("attendance marking"), constants.TeacherAndAdmin...),
		ctrl.Mark)
}
