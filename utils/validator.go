// utils/validator.go - Input validation
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword enforces the registration password policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit and a
// special character.
func ValidatePassword(password string) (bool, string) {
	switch {
	case len(password) < 8:
		return false, "Password must be at least 8 characters long."
	case !upperRegex.MatchString(password):
		return false, "Password must contain at least one uppercase letter."
	case !lowerRegex.MatchString(password):
		return false, "Password must contain at least one lowercase letter."
	case !digitRegex.MatchString(password):
		return false, "Password must contain at least one number."
	case !specialRegex.MatchString(password):
		return false, "Password must contain at least one special character."
	}
	return true, ""
}

// ValidateNameField accepts letters, spaces, hyphens, and apostrophes only.
func ValidateNameField(name, fieldLabel string) string {
	if name == "" {
		return ""
	}
	if !nameRegex.MatchString(name) {
		return fmt.Sprintf("%s should only contain letters, spaces, hyphens, and apostrophes.", fieldLabel)
	}
	return ""
}

// ValidateAge checks the optional age field.
func ValidateAge(age int) string {
	if age < 0 || age > 120 {
		return "Age must be between 0 and 120."
	}
	return ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
