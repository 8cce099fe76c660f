package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("timezone_name", ValidateTimezoneRule)
	}
}

func ValidateTimezoneRule(fl validator.FieldLevel) bool {
	return ValidateTimezone(fl.Field().String())
}

// ValidateTimezone reports whether name resolves in the IANA timezone database.
func ValidateTimezone(name string) bool {
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`)

// ValidateEmail checks the address shape after lowercasing, mirroring what
// the registration form enforces client-side.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(email))
}

// ValidatePassword enforces the account password floor.
func ValidatePassword(password string) bool {
	return len(password) >= 6
}
