package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/trendfinder/internal/apperror"
)

// newValidator returns a validator that reports fields by their JSON name,
// so "url" rather than "URL" ends up in the error the client sees.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationError converts the first validator failure into an apperror.
// requiredMsg is the message used for any missing required field, so the
// client sees one stable message per operation ("Missing title or url").
func validationError(err error, requiredMsg string) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return fmt.Errorf("validating input: %w", err)
	}

	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(fe.Field(), requiredMsg)
	case "max":
		return apperror.ValidationFailed(fe.Field(),
			fmt.Sprintf("%s must be %s characters or less", fe.Field(), fe.Param()))
	case "min":
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s must not be empty", fe.Field()))
	case "uuid":
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s must be a UUID", fe.Field()))
	default:
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// upstream re-labels a store failure with the operation's own message while
// keeping the upstream's raw body as details. Other errors pass through wrapped.
func upstream(err error, message string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && errors.Is(err, apperror.ErrUpstream) {
		return apperror.Upstream(message, appErr.Details)
	}
	return fmt.Errorf("%s: %w", message, err)
}
