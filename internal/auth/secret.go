package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CheckSecret compares a login attempt against a configured secret. The
// secret may be stored as a bcrypt hash (recognized by its prefix) or as
// plaintext, in which case the comparison is constant-time. An empty
// configured secret never matches.
func CheckSecret(candidate, configured string) bool {
	if configured == "" {
		return false
	}
	if isBcryptHash(configured) {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(configured)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}
