// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/users/auth/controller"
	rateLimiter "schoolhub_backend/internals/middlewares"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth (public login + protected session routes) and /api/admin/signup.
func AuthRoutes(app fiber.Router, ac *controller.AuthController, requireAuth fiber.Handler) {
	// 🔓 Public
	pub := app.Group("/api/auth")
	pub.Post("/login", rateLimiter.LoginRateLimiter(), ac.Login)
	pub.Post("/login-google", rateLimiter.LoginRateLimiter(), ac.LoginGoogle)

	// 🔐 Protected
	pub.Post("/logout", requireAuth, ac.Logout)
	pub.Get("/me", requireAuth, ac.Me)
	pub.Post("/change-password", requireAuth, ac.ChangePassword)

	app.Post("/api/admin/signup",
		rateLimiter.SignupRateLimiter(),
		requireAuth,
		authMiddleware.OnlyRoles("Only administrators can create accounts",
			constants.RoleSuperAdmin, constants.RoleSchoolAdmin),
		ac.Signup)
}
