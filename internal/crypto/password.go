package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is fixed so hashes stay comparable across releases.
const bcryptCost = 10

var ErrPasswordTooLong = errors.New("password exceeds maximum length")

// HashPassword hashes a password using bcrypt with a per-hash random salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether a password matches the given bcrypt hash.
// The underlying comparison is constant-time.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
