package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeController "schoolhub_backend/internals/features/finance/fees/controller"
	feeRoute "schoolhub_backend/internals/features/finance/fees/route"
)

/* ===================== PUBLIC ===================== */

func FinancePublicRoutes(app *fiber.App, fc *feeController.FeeController) {
	feeRoute.FeePublicRoutes(app, fc)
}

/* ===================== PRIVATE (JWT) ===================== */

func FinanceRoutes(private fiber.Router, db *gorm.DB, fc *feeController.FeeController) {
	feeRoute.FeeRoutes(private, db, fc)
}
