// Package email holds small helpers for customer email addresses.
package email

import (
	"strings"
	"unicode"
)

// Normalize trims and lowercases an address for lookups.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DisplayName derives a friendly default name from the local part of an
// address: "jane.doe+shop@example.com" becomes "Jane Doe". Used for the
// default profile created on first sign-in.
func DisplayName(email string) string {
	localPart := strings.TrimSpace(email)
	if at := strings.IndexByte(localPart, '@'); at > 0 {
		localPart = localPart[:at]
	}
	if plus := strings.IndexByte(localPart, '+'); plus > 0 {
		localPart = localPart[:plus]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return "Customer"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
