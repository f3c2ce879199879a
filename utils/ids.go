package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateShortID generates a short, URL-safe random ID
// Format: 6 characters, lowercase alphanumeric
// Example: "x7k9m2"
func GenerateShortID() string {
	const chars = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 6

	result := make([]byte, length)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		result[i] = chars[num.Int64()]
	}

	return string(result)
}

// TotalPages returns how many pages of pageSize are needed for total rows
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
