package user

import (
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	authHelper "schoolhub_backend/internals/features/users/auth/helper"
	"schoolhub_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName string  `json:"user_name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Mobile   *string `json:"mobile"`
}

// SeedUsersFromJSON inserts platform accounts (normally the SUPERADMIN) that
// do not exist yet. Existing emails are skipped.
func SeedUsersFromJSON(db *gorm.DB, filePath string) {
	log.Println("[SEED] reading users from", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("[SEED] read %s: %v", filePath, err)
	}

	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("[SEED] decode %s: %v", filePath, err)
	}

	for _, data := range inputs {
		email := strings.ToLower(strings.TrimSpace(data.Email))
		role := strings.ToUpper(strings.TrimSpace(data.Role))
		if !constants.IsValidRole(role) {
			log.Printf("[SEED] skip %s: unknown role %q", email, data.Role)
			continue
		}

		var n int64
		if err := db.Model(&model.UserModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
			log.Printf("[SEED] lookup %s: %v", email, err)
			continue
		}
		if n > 0 {
			log.Printf("[SEED] user %s exists, skipped", email)
			continue
		}

		hashedPassword, err := authHelper.HashPassword(data.Password)
		if err != nil {
			log.Printf("[SEED] hash password for %s: %v", email, err)
			continue
		}

		newUser := model.UserModel{
			UserName: data.UserName,
			Email:    email,
			Password: hashedPassword,
			Role:     role,
			Mobile:   data.Mobile,
			IsActive: true,
		}
		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("[SEED] insert %s: %v", email, err)
		} else {
			log.Printf("[SEED] inserted %s (%s)", email, role)
		}
	}
}
