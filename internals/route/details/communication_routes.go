package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	appointmentRoute "schoolhub_backend/internals/features/communication/appointments/route"
	messageRoute "schoolhub_backend/internals/features/communication/messages/route"
)

func CommunicationRoutes(private fiber.Router, db *gorm.DB, ca *cache.Aside) {
	appointmentRoute.AppointmentRoutes(private, db, ca)
	messageRoute.MessageRoutes(private, db, ca)
}
