// Package validation contains input validation helpers shared by the HTTP
// handlers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	minNameLen     = 3
	maxNameLen     = 100
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// ValidatePassword enforces the minimum credential policy: length bounds plus
// at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}

// ValidateName checks display name length bounds.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minNameLen {
		return fmt.Errorf("name must be at least %d characters", minNameLen)
	}
	if len(trimmed) > maxNameLen {
		return fmt.Errorf("name must be at most %d characters", maxNameLen)
	}
	return nil
}

// ValidatePhone checks the phone number format used for student logins.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone must be 9-15 digits, optionally prefixed with +")
	}
	return nil
}
