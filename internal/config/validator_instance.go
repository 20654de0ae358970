package config

import (
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	tokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// validatorInstance returns the package-wide validator, lazily building one
// validator.Validate per process and registering the custom tags a
// Scenario's fields need the first time it's requested: "token" for a Kind
// string, "abspath" for a Path.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("token", func(fl validator.FieldLevel) bool {
			return tokenPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("abspath", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return strings.HasPrefix(s, "/") && (s == "/" || !strings.HasSuffix(s, "/"))
		})

		validateInst = v
	})

	return validateInst
}
