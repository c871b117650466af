package details

import (
	"github.com/gofiber/fiber/v2"

	authController "schoolhub_backend/internals/features/users/auth/controller"
	authRoute "schoolhub_backend/internals/features/users/auth/route"
)

func AuthRoutes(app *fiber.App, ac *authController.AuthController, requireAuth fiber.Handler) {
	authRoute.AuthRoutes(app, ac, requireAuth)
}
