// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// reservedNames are admin-like identifiers rejected at registration for
// both usernames and nicknames.
var reservedNames = map[string]bool{
	"admin":         true,
	"administrator": true,
	"root":          true,
	"superadmin":    true,
	"super_admin":   true,
	"moderator":     true,
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 4 || len(username) > 20 {
		return fmt.Errorf("username must be between 4 and 20 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	if IsReservedName(username) {
		return fmt.Errorf("username %q is reserved", username)
	}
	return nil
}

// ValidatePassword checks the password against the configured minimum
// length. minLength below 8 is raised to 8.
func ValidatePassword(password string, minLength int) error {
	if minLength < 8 {
		minLength = 8
	}
	if len(password) < minLength {
		return fmt.Errorf("password must be at least %d characters long", minLength)
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}
	return nil
}

// ValidateNickname checks if a display name meets requirements
func ValidateNickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < 2 || n > 12 {
		return fmt.Errorf("nickname must be between 2 and 12 characters")
	}
	if IsReservedName(nickname) {
		return fmt.Errorf("nickname %q is reserved", nickname)
	}
	return nil
}

// IsReservedName reports whether the name collides with an admin-like
// identifier.
func IsReservedName(name string) bool {
	return reservedNames[strings.ToLower(strings.TrimSpace(name))]
}
