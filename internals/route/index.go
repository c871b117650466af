package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/configs"
	feeController "schoolhub_backend/internals/features/finance/fees/controller"
	feeRoute "schoolhub_backend/internals/features/finance/fees/route"
	authController "schoolhub_backend/internals/features/users/auth/controller"
	authRepo "schoolhub_backend/internals/features/users/auth/repository"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	schoolkuMiddleware "schoolhub_backend/internals/middlewares/auth_school"
	routeDetails "schoolhub_backend/internals/route/details"
)

var startTime time.Time

// Deps are the collaborators that differ between production and tests.
type Deps struct {
	Secret string
	Auth   *authController.AuthController
	Fees   *feeController.FeeController
}

func SetupRoutes(app *fiber.App, db *gorm.DB, ca *cache.Aside) {
	Mount(app, db, ca, Deps{
		Secret: configs.JWTSecret,
		Auth:   authController.NewAuthController(db, ca, configs.JWTSecret),
		Fees:   feeRoute.NewFeeController(db, ca),
	})
}

func Mount(app *fiber.App, db *gorm.DB, ca *cache.Aside, d Deps) {
	startTime = time.Now()

	requireAuth := schoolkuMiddleware.AuthJWT(schoolkuMiddleware.AuthJWTOpts{
		Secret:           d.Secret,
		BlacklistChecker: helperAuth.BlacklistChecker(db, d.Secret),
		ActiveChecker: func(ctx context.Context, userID uuid.UUID) (bool, error) {
			return authRepo.IsUserActive(ctx, db, userID)
		},
		AllowCookieFallback: true,
	})

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, d.Auth, requireAuth)

	log.Println("[INFO] Setting up payment webhook...")
	routeDetails.FinancePublicRoutes(app, d.Fees)

	// ===================== PRIVATE (JWT) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api", requireAuth)

	log.Println("[INFO] Mounting School routes...")
	routeDetails.SchoolRoutes(private, db, ca)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceRoutes(private, db, d.Fees)

	log.Println("[INFO] Mounting Communication routes...")
	routeDetails.CommunicationRoutes(private, db, ca)
}
