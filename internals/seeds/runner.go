package seeds

import (
	"gorm.io/gorm"

	users "schoolhub_backend/internals/seeds/users/auth"
)

func RunAllSeeds(db *gorm.DB) {
	//* User
	users.SeedUsersFromJSON(db, "internals/seeds/users/auth/data_users.json")
}
