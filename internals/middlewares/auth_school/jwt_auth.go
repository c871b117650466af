package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	BlacklistChecker    func(ctx context.Context, rawToken string) (bool, error)  // true if revoked
	ActiveChecker       func(ctx context.Context, userID uuid.UUID) (bool, error) // false if deactivated
	AllowCookieFallback bool                                                      // pakai cookie access_token jika tidak ada Bearer
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		// 1) Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies(helper.AccessTokenCookie))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Blacklist
		if o.BlacklistChecker != nil {
			black, err := o.BlacklistChecker(c.UserContext(), raw)
			if err != nil {
				log.Printf("[AUTH] blacklist check failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if black {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		// 3) Parse + verify
		sess, err := helperAuth.ParseAccessToken(raw, secret)
		if err != nil {
			if errors.Is(err, helperAuth.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		// 4) Deactivated accounts lose access immediately
		if o.ActiveChecker != nil {
			active, err := o.ActiveChecker(c.UserContext(), sess.UserID)
			if err != nil {
				log.Printf("[AUTH] active check failed: %v", err)
				return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
			}
			if !active {
				return fiber.NewError(fiber.StatusUnauthorized, "Account is inactive")
			}
		}

		helper.SetRawAccessToken(c, raw)
		helperAuth.SetSession(c, sess)
		return c.Next()
	}
}
