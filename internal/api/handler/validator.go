package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goplay/staff-portal/internal/api/response"
)

// requestNameTags are consulted in order to name a field in messages.
var requestNameTags = []string{"json", "form", "query", "param"}

// tagMessages holds the message layout per validation tag. %[1]s is the
// field name and %[2]s the tag parameter.
var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"email":    "%[1]s must be a valid email",
	"gt":       "%[1]s must be greater than %[2]s",
	"gte":      "%[1]s must be greater than or equal to %[2]s",
	"min":      "%[1]s must be at least %[2]s",
	"oneof":    "%[1]s must be one of: %[2]s",
}

// RequestValidator plugs go-playground/validator into echo's c.Validate and
// reports failures as a *response.ValidationError.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(requestFieldName)
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = describe(fe)
	}
	return response.NewValidationError(msgs...)
}

func requestFieldName(f reflect.StructField) string {
	for _, tag := range requestNameTags {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

func describe(fe validator.FieldError) string {
	if layout, ok := tagMessages[fe.Tag()]; ok {
		return fmt.Sprintf(layout, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
}
