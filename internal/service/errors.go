package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrResourceNotFound indicates resource lookup failed.
var ErrResourceNotFound = errors.New("resource not found")

// ValidationError rejects malformed input. Fields carries one human-readable
// message per violated field so callers see every problem in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// IsValidationError reports whether err represents rejected input.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func newValidationError(fields []string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// asValidationError converts validator.ValidationErrors into a
// ValidationError listing every violated field. Other errors pass through.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, describeFieldError(fieldErr))
	}
	return newValidationError(fields)
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := snakeCase(fieldErr.Field())

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fieldErr.Param())
	case "ip":
		return fmt.Sprintf("%s must be a valid IP address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func snakeCase(field string) string {
	runes := []rune(field)
	var out strings.Builder
	for i, r := range runes {
		if r < 'A' || r > 'Z' {
			out.WriteRune(r)
			continue
		}
		prevLower := i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z'
		nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
		if prevLower || (i > 0 && nextLower) {
			out.WriteByte('_')
		}
		out.WriteRune(r - 'A' + 'a')
	}
	return out.String()
}
