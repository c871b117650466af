package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/fees/controller"
	"schoolhub_backend/internals/features/finance/fees/service"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
	schoolScope "schoolhub_backend/internals/middlewares/features"
)

// NewFeeController builds the controller shared by the public webhook and the private routes.
func NewFeeController(db *gorm.DB, ca *cache.Aside) *controller.FeeController {
	var gw service.Gateway
	if configs.MidtransServerKey != "" {
		gw = service.NewMidtransGateway(configs.MidtransServerKey, configs.GetEnvBool("MIDTRANS_USE_PROD", false))
	} else {
		log.Println("[FEES] MIDTRANS_SERVER_KEY not set, online payment disabled")
	}
	return controller.NewFeeController(db, ca, gw, configs.MidtransServerKey)
}

// FeePublicRoutes mounts the gateway webhook outside the JWT group.
func FeePublicRoutes(app fiber.Router, ctrl *controller.FeeController) {
	app.Post("/api/fees/notification", ctrl.Notification)
}

func FeeRoutes(r fiber.Router, db *gorm.DB, ctrl *controller.FeeController) {
	onlyAdmin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("fee records"), constants.AdminOnly...)
	onlyStudent := authMiddleware.OnlyRoles(constants.RoleErrorStudent("fee payments"), constants.RoleStudent)

	g := r.Group("/fees", schoolScope.UseSchoolScope(db))
	g.Put("/student/:studentId", onlyAdmin, ctrl.PutStudentFee)
	g.Get("/list", onlyAdmin, ctrl.List)
	g.Get("/mine", onlyStudent, ctrl.Mine)
	g.Post("/pay", onlyStudent, ctrl.Pay)
}
