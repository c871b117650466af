package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "schoolhub_backend/internals/features/users/auth/model"
)

/*
   =========================================================
   LOW-LEVEL UTILS
   =========================================================
*/

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

/*
   =========================================================
   CORE API
   =========================================================
*/

// AddToBlacklist stores HMAC(access_token) until the token would have expired anyway.
func AddToBlacklist(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return nil
	}
	row := authModel.TokenBlacklist{
		Token:     hmacHex(rawAccessToken, jwtSecret),
		ExpiredAt: expiresAt,
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
	}).Create(&row).Error
}

// IsBlacklisted: ada baris aktif dan belum expired?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", hmacHex(rawAccessToken, jwtSecret), time.Now()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired hard-deletes entries past their expiry and reports how many went.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, nil
	}
	res := db.WithContext(ctx).Unscoped().
		Where("expired_at <= ?", now).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

// BlacklistChecker adapts IsBlacklisted for the JWT middleware.
func BlacklistChecker(db *gorm.DB, jwtSecret string) func(ctx context.Context, raw string) (bool, error) {
	return func(ctx context.Context, raw string) (bool, error) {
		return IsBlacklisted(ctx, db, raw, jwtSecret)
	}
}
