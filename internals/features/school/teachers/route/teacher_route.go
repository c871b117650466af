package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/features/school/teachers/controller"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

func TeacherRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewTeacherController(db, ca)
	r.Get("/teacher/list", schoolScope.UseSchoolScope(db), ctrl.List)
}
