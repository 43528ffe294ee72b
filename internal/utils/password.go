package utils

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
)

const (
	passwordCost = 12
	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

// HashPassword hashes a plaintext password for storage in users.password_hash.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperrors.NewValidationError("password", "must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(hash), err
}

// CheckPasswordHash reports whether password matches the stored hash.
// An empty hash (user without a password) never matches.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
