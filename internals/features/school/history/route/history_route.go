package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/history/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func HistoryRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewHistoryController(db, ca)
	r.Get("/history/student",
		schoolScope.UseSchoolScope(db),
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("student history"), constants.AdminOnly...),
		ctrl.StudentHistory)
}
