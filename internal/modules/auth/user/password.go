package user

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/projecthub/api/internal/pkg/apperr"
)

// HashPassword returns the bcrypt hash stored on users.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("password can not be more than 72 bytes")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
