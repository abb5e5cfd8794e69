package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinPasswordLength = 6
	MinAge            = 5
	MaxAge            = 100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters long", MinPasswordLength)}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}

// ValidateAge checks the learner's age is plausible
func ValidateAge(age int) error {
	if age == 0 {
		return &ValidationError{Field: "age", Message: "age is required"}
	}
	if age < MinAge || age > MaxAge {
		return &ValidationError{Field: "age", Message: "please enter a valid age"}
	}
	return nil
}

// ValidateSignup runs every signup check and returns the first failure
func ValidateSignup(email, password, name string, age int) error {
	for _, err := range []error{
		ValidateEmail(email),
		ValidatePassword(password),
		ValidateName(name),
		ValidateAge(age),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
