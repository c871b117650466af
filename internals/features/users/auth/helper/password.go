package helpers

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// IsStrongEnough: at least one letter and one digit; length is enforced by the DTO.
func IsStrongEnough(s string) bool {
	return hasLetter.MatchString(s) && hasNumber.MatchString(s)
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
