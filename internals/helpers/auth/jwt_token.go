package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// IssueAccessToken signs an HS256 token carrying the session.
func IssueAccessToken(s Session, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"id":   s.UserID.String(),
		"role": s.Role,
		"name": s.Name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	if s.SchoolID != nil {
		claims["school_id"] = s.SchoolID.String()
	}
	if s.StudentID != nil {
		claims["student_id"] = s.StudentID.String()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, exp, nil
}

// ParseAccessToken verifies signature and expiry and rebuilds the session.
func ParseAccessToken(raw, secret string) (Session, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Session{}, ErrTokenExpired
		}
		return Session{}, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return Session{}, ErrTokenInvalid
	}

	uid, err := uuid.Parse(strClaim(claims, "id"))
	if err != nil {
		return Session{}, ErrTokenInvalid
	}
	s := Session{
		UserID:    uid,
		Role:      strings.ToUpper(strClaim(claims, "role")),
		Name:      strClaim(claims, "name"),
		SchoolID:  uuidClaim(claims, "school_id"),
		StudentID: uuidClaim(claims, "student_id"),
	}
	if exp, ok := claims["exp"].(float64); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if s.Role == "" {
		return Session{}, ErrTokenInvalid
	}
	return s, nil
}

// util kecil untuk ambil string claim
func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func uuidClaim(m jwt.MapClaims, key string) *uuid.UUID {
	if s := strClaim(m, key); s != "" {
		if id, err := uuid.Parse(s); err == nil && id != uuid.Nil {
			return &id
		}
	}
	return nil
}
