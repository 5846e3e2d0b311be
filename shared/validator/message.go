package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":         "{field} is required",
	"required_without": "{field} is required when {param} is empty",
	"gte":              "{field} must be greater than or equal to {param}",
	"lte":              "{field} must be less than or equal to {param}",
	"gt":               "{field} must be greater than {param}",
	"oneof":            "{field} must be one of {param}",
	"max":              "{field} must be at most {param}",
	"min":              "{field} must be at least {param}",
	"email":            "{field} must be a valid email address",
	"datetime":         "{field} must match the format {param}",
	"kephone":          "{field} must be a Kenyan mobile number (07XXXXXXXX, +254XXXXXXXXX or 254XXXXXXXXX)",
	"uuid":             "{field} must be a valid UUID",
	"url":              "{field} must be a valid URL",
	"mimetypes":        "{field} must be one of {param}",
	"maxfilesize":      "{field} must not exceed {param} MB",
}

// message renders the first failed rule that has a template.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, fieldErr := range valErrors {
		tmpl, ok := messages[fieldErr.Tag()]
		if !ok {
			continue
		}

		return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(tmpl)
	}

	return valErrors.Error()
}
