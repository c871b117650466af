package helper

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by the JWT middleware.
const (
	LocUserID    = "user_id"
	LocRole      = "userRole"
	LocUserName  = "user_name"
	LocSchoolID  = "school_id"
	LocStudentID = "student_id"
	LocSession   = "session"
	LocExpiresAt = "token_exp"
)

// Session is the authenticated caller as carried by the access token.
type Session struct {
	UserID    uuid.UUID
	Role      string
	Name      string
	SchoolID  *uuid.UUID
	StudentID *uuid.UUID
	ExpiresAt time.Time
}

// SetSession hydrates the locals read by role guards and controllers.
func SetSession(c *fiber.Ctx, s Session) {
	c.Locals(LocSession, s)
	c.Locals(LocUserID, s.UserID.String())
	c.Locals(LocRole, s.Role)
	c.Locals(LocUserName, s.Name)
	c.Locals(LocExpiresAt, s.ExpiresAt)
	if s.SchoolID != nil {
		c.Locals(LocSchoolID, s.SchoolID.String())
	}
	if s.StudentID != nil {
		c.Locals(LocStudentID, s.StudentID.String())
	}
}

func GetSession(c *fiber.Ctx) (Session, error) {
	s, ok := c.Locals(LocSession).(Session)
	if !ok || s.UserID == uuid.Nil {
		return Session{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return s, nil
}

// GetSchoolID returns the tenant resolved by the school-scope middleware.
func GetSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	if s, ok := c.Locals(LocSchoolID).(string); ok {
		if id, err := uuid.Parse(s); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "School not found in session")
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if s, ok := c.Locals(LocUserID).(string); ok {
		if id, err := uuid.Parse(s); err == nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
}

// GetStudentID returns the caller's student profile, nil for non-students or
// students without one.
func GetStudentID(c *fiber.Ctx) *uuid.UUID {
	if s, ok := c.Locals(LocStudentID).(string); ok {
		if id, err := uuid.Parse(s); err == nil && id != uuid.Nil {
			return &id
		}
	}
	return nil
}
