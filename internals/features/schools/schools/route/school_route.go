package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/schools/schools/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

// SchoolRoutes mounts /school on an authenticated router. Only update needs the school scope.
func SchoolRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewSchoolController(db, ca)

	g := r.Group("/school")
	g.Get("/mine", ctrl.GetMySchool)
	g.Post("/create",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("school setup"), constants.RoleSchoolAdmin),
		ctrl.CreateSchool)
	g.Put("/update",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("school settings"), constants.RoleSchoolAdmin),
		schoolScope.UseSchoolScope(db),
		ctrl.UpdateSchool)
	g.Get("/list",
		authMiddleware.OnlyRoles(constants.RoleErrorSuper("the school list"), constants.RoleSuperAdmin),
		ctrl.ListSchools)
}
