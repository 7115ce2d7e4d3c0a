package handler

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"coursehub/internal/middleware"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
)

// Helper to extract user ID from context (injected by auth middleware)
func getUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("Authentication credentials were not provided.")
	}
	return userID, nil
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator failures into a 400 with one detail
// per field. It returns nil for any other error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		location := "body"
		if ns := fe.Namespace(); ns != "" {
			if _, rest, ok := strings.Cut(ns, "."); ok {
				location += "." + rest
			}
		}
		details = append(details, &huma.ErrorDetail{
			Message:  validationMessage(fe),
			Location: location,
			Value:    fe.Value(),
		})
	}
	return huma.Error400BadRequest("Validation failed", details...)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "email":
		return "Enter a valid email address."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	default:
		return "Invalid value (" + fe.Tag() + ")."
	}
}
