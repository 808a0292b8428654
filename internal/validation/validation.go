// Package validation checks user input before it reaches the services
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxNameRunes  = 40
	MaxTopicRunes = 120
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateName checks an explorer or parent name
func ValidateName(name string) error {
	return validateText("name", name, MaxNameRunes)
}

// ValidateTopic checks an adventure topic
func ValidateTopic(topic string) error {
	return validateText("topic", topic, MaxTopicRunes)
}

func validateText(field, s string, maxRunes int) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if !utf8.ValidString(s) {
		return ValidationError{Field: field, Message: "invalid characters"}
	}
	if utf8.RuneCountInString(s) > maxRunes {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxRunes)}
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return ValidationError{Field: field, Message: "invalid characters"}
	}
	return nil
}
