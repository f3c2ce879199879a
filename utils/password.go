package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecurePassword creates a random secure password of the specified length
func GenerateSecurePassword(length int) string {
	// Ensure minimum length
	if length < 12 {
		length = 12
	}

	// base64 expands 3 bytes into 4 characters, so length bytes is always enough
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}

	password := base64.RawURLEncoding.EncodeToString(b)
	return password[:length]
}
