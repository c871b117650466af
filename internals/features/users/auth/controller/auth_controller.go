package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/users/auth/dto"
	authRepo "schoolhub_backend/internals/features/users/auth/repository"
	"schoolhub_backend/internals/features/users/auth/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type AuthController struct {
	DB             *gorm.DB
	Cache          *cache.Aside
	Validator      *validator.Validate
	Secret         string
	TTL            time.Duration
	GoogleClientID string
	Google         service.GoogleVerifier
	// SecureCookie marks the access_token cookie Secure + SameSite=None.
	SecureCookie bool
	Now          func() time.Time
}

func NewAuthController(db *gorm.DB, ca *cache.Aside, secret string) *AuthController {
	return &AuthController{
		DB:             db,
		Cache:          ca,
		Validator:      helper.NewValidator(),
		Secret:         secret,
		TTL:            configs.AccessTokenTTL(),
		GoogleClientID: configs.GoogleClientID,
		Google:         service.FuturendaVerifier{},
		SecureCookie:   configs.GetEnvBool("COOKIE_SECURE", true),
		Now:            time.Now,
	}
}

/* ===================== LOGIN ===================== */

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := service.Login(c.UserContext(), ac.DB, req)
	if err != nil {
		return ac.authError(c, err)
	}
	return ac.issue(c, user)
}

func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if strings.TrimSpace(ac.GoogleClientID) == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Google login is not configured")
	}

	user, err := service.LoginGoogle(c.UserContext(), ac.DB, ac.Google, ac.GoogleClientID, req.IDToken)
	if err != nil {
		return ac.authError(c, err)
	}
	return ac.issue(c, user)
}

func (ac *AuthController) issue(c *fiber.Ctx, user *userModel.UserModel) error {
	sess, err := service.SessionFor(c.UserContext(), ac.DB, user)
	if err != nil {
		log.Printf("[AUTH] session for %s: %v", user.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build session")
	}
	token, exp, err := helperAuth.IssueAccessToken(sess, ac.Secret, ac.TTL, ac.Now())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}
	ac.setCookie(c, token, exp)

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Login successful",
		"accessToken": token,
		"expiresAt":   exp.UTC(),
		"user":        dto.NewSessionUser(*user, sess.StudentID),
	})
}

func (ac *AuthController) authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrAccountInactive):
		return helper.JsonError(c, fiber.StatusForbidden, "Account is inactive")
	case errors.Is(err, service.ErrGoogleToken):
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	}
	log.Printf("[AUTH] login: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
}

func (ac *AuthController) setCookie(c *fiber.Ctx, token string, exp time.Time) {
	ck := &fiber.Cookie{
		Name:     helper.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   ac.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if ac.SecureCookie {
		ck.SameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(ck)
}

/* ===================== SESSION ===================== */

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	raw := helper.GetRawAccessToken(c)
	if err := helperAuth.AddToBlacklist(c.UserContext(), ac.DB, raw, ac.Secret, sess.ExpiresAt); err != nil {
		log.Printf("[AUTH] blacklist: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Logout failed")
	}
	c.ClearCookie(helper.AccessTokenCookie)
	return helper.JsonOK(c, "Logout successful", nil)
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	user, err := authRepo.FindUserByID(c.UserContext(), ac.DB, sess.UserID)
	if err != nil {
		if helper.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "ok",
		"user":    dto.NewSessionUser(*user, sess.StudentID),
	})
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	switch err := service.ChangePassword(c.UserContext(), ac.DB, sess.UserID, req); {
	case err == nil:
		return helper.JsonOK(c, "Password updated", nil)
	case errors.Is(err, service.ErrWrongPassword), errors.Is(err, service.ErrWeakPassword):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case helper.IsNotFound(err):
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	default:
		log.Printf("[AUTH] change password: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
}

/* ===================== SIGNUP ===================== */

func (ac *AuthController) Signup(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ac.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := service.Signup(c.UserContext(), ac.DB, ac.Cache, sess, req)
	switch {
	case err == nil:
		return helper.JsonKeyed(c, fiber.StatusCreated, "User created", "user", user.Lite())
	case errors.Is(err, service.ErrSignupForbidden):
		return helper.JsonError(c, fiber.StatusForbidden, "You are not allowed to create a "+req.Role+" account")
	case errors.Is(err, service.ErrNoSchool), errors.Is(err, service.ErrWeakPassword):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
	default:
		log.Printf("[AUTH] signup: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}
}
