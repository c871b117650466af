package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/communication/appointments/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func AppointmentRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewAppointmentController(db, ca)
	onlyStudent := authMiddleware.OnlyRoles("Only students can request appointments", constants.RoleStudent)
	onlyTeacher := authMiddleware.OnlyRoles("Only teachers can decide appointments", constants.RoleTeacher)
	participants := authMiddleware.OnlyRoles("Only students or teachers can update appointments",
		constants.RoleStudent, constants.RoleTeacher)

	g := r.Group("/communication/appointments", schoolScope.UseSchoolScope(db))
	g.Get("/", ctrl.List)
	g.Post("/", onlyStudent, ctrl.Create)
	g.Post("/:id/approve", onlyTeacher, ctrl.Approve)
	g.Post("/:id/reject", onlyTeacher, ctrl.Reject)
	g.Post("/:id/complete", participants, ctrl.Complete)
}
