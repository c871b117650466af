package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/leaves/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func LeaveRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewLeaveController(db, ca)
	onlyTeacher := authMiddleware.OnlyRoles("Only teachers can apply for leave", constants.RoleTeacher)
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("leave approvals"), constants.AdminOnly...)

	g := r.Group("/leaves", schoolScope.UseSchoolScope(db))
	g.Post("/apply", onlyTeacher, ctrl.Apply)
	g.Get("/my", onlyTeacher, ctrl.My)
	g.Get("/all", onlyAdmin, ctrl.All)
	g.Get("/pending", onlyAdmin, ctrl.Pending)
	g.Post("/:id/approve", onlyAdmin, ctrl.Approve)
	g.Post("/:id/reject", onlyAdmin, ctrl.Reject)
}
