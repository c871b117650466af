package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/school/newsfeed/controller"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func NewsFeedRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewNewsFeedController(db, ca)
	writers := authMiddleware.OnlyRoles(constants.RoleErrorTeacher("the news feed"), constants.TeacherAndAdmin...)

	g := r.Group("/newsfeed", schoolScope.UseSchoolScope(db))
	g.Get("/list", ctrl.List)
	g.Post("/create", writers, ctrl.Create)
	g.Post("/media", writers, ctrl.UploadMedia)
	g.Put("/:id", writers, ctrl.Update)
	g.Delete("/:id", writers, ctrl.Delete)
}
