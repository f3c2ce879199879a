package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated slugs so a collision suffix still fits in URLs
const MaxSlugLength = 60

// Slugify turns a project name into a lowercase, hyphen-separated URL segment
// Example: "Criação de Site" -> "criacao-de-site"
func Slugify(name string) string {
	// Fold accents: decompose, drop combining marks, recompose
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.Trim(slug[:MaxSlugLength], "-")
	}
	return slug
}

// IsValidSlug checks that s is non-empty lowercase alphanumeric words joined by single hyphens
func IsValidSlug(s string) bool {
	if len(s) == 0 || len(s) > MaxSlugLength+7 {
		return false
	}

	// Must start and end with alphanumeric
	if !isAlphanumeric(s[0]) || !isAlphanumeric(s[len(s)-1]) {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			if s[i-1] == '-' {
				return false
			}
			continue
		}
		if !isAlphanumeric(s[i]) {
			return false
		}
	}

	return true
}

// isAlphanumeric checks if a byte is lowercase alphanumeric
func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
