package controller

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateRequired checks struct tags and reports missing fields by JSON name.
func validateRequired(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewValidationError(MsgRequiredFields, nil)
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fe.Field())
	}
	return apperrors.NewValidationError(MsgRequiredFields, map[string]any{"fields": fields})
}

// isUnauthorized reports whether the gateway already tore the session down.
func isUnauthorized(err error) bool {
	return apperrors.HasCode(err, apperrors.CodeUnauthorized)
}
