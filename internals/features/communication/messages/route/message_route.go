package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/features/communication/messages/controller"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

// Participation is checked per appointment, so no role guard here.
func MessageRoutes(r fiber.Router, db *gorm.DB, ca *cache.Aside) {
	ctrl := controller.NewMessageController(db, ca)

	g := r.Group("/communication/messages", schoolScope.UseSchoolScope(db))
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Post)
}
