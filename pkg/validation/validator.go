// Package validation wraps go-playground/validator for the stores' input
// checks and carries the client-side hero image rules.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterAlias("pwd", "min=8") // password minimum length
	})
	return validate
}

// FieldError is a single field-level validation failure, surfaced to the
// user without any network round trip.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

// Struct validates v and converts the first failure into a FieldError.
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: strings.ToLower(fe.Field()), Message: message(fe)}
	}
	return err
}

// Var validates a single value against a tag, naming the field in the
// resulting error.
func Var(field string, value any, tag string) error {
	err := engine().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: field, Message: message(verrs[0])}
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min", "pwd":
		return "must be at least " + paramOr(fe, "8") + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fmt.Sprintf("failed validation '%s'", fe.Tag())
	}
}

func paramOr(fe validator.FieldError, def string) string {
	if p := fe.Param(); p != "" {
		return p
	}
	return def
}

// Hero image rules: type allow-list and size cap, checked before any
// upload is attempted.
const MaxHeroImageBytes = 8 << 20 // 8 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// HeroImage checks an image payload against the allow-list and size cap.
// The content type is sniffed from the bytes, not trusted from the caller.
func HeroImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &FieldError{Field: "hero_image", Message: "is empty"}
	}
	if len(data) > MaxHeroImageBytes {
		return "", &FieldError{Field: "hero_image", Message: "exceeds the 8 MiB limit"}
	}
	ct := http.DetectContentType(data)
	if !allowedImageTypes[ct] {
		return "", &FieldError{Field: "hero_image", Message: "must be a JPEG, PNG or WebP image"}
	}
	return ct, nil
}
