// Package validation wraps go-playground/validator with the error types used
// across the service.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	pkgerrors "city-devices-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New()

		// Use JSON tag names in error messages
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// notblank rejects whitespace-only strings
		_ = instance.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return instance
}

// Struct validates s and returns a VALIDATION AppError listing every failed field
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	fields := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := formatFieldError(fe)
		messages = append(messages, msg)
		fields[fe.Field()] = msg
	}

	return pkgerrors.NewValidationError(strings.Join(messages, "; ")).WithDetails(fields)
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
