package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

// UseSchoolScope resolves the caller's tenant once per request and stores it in
// locals. School admins missing the field get the explicit repair step.
// Requests without a resolvable school stop here with 400.
func UseSchoolScope(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := helperAuth.GetSession(c)
		if err != nil {
			return err
		}

		schoolID, err := helperAuth.ResolveSchoolID(c.UserContext(), db, sess)
		if err != nil {
			log.Printf("[TENANT] resolve school for %s: %v", sess.UserID, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve school")
		}
		if schoolID == nil {
			return helper.JsonError(c, fiber.StatusBadRequest, constants.MsgSchoolNotInSession)
		}
		c.Locals(helperAuth.LocSchoolID, schoolID.String())

		if sess.Role == constants.RoleStudent {
			studentID, err := helperAuth.ResolveStudentID(c.UserContext(), db, sess)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve student profile")
			}
			if studentID != nil {
				c.Locals(helperAuth.LocStudentID, studentID.String())
			}
		}
		return c.Next()
	}
}
