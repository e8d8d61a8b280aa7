package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required": "{field} is required",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid UUID",
	"uuid4":    "{field} must be a valid UUID",
	"oneof":    "{field} must be one of {param}",
	"rfc3339":  "{field} must be an RFC3339 timestamp",
	"unique":   "{field} must not contain duplicates",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"max":      "{field} must be less than or equal to {param}",
}

// fieldPath drops the root struct name: "createRequest.services[0].quantity" becomes
// "services[0].quantity".
func fieldPath(valErr val.FieldError) string {
	namespace := valErr.Namespace()
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}

	return namespace
}

func describe(valErr val.FieldError) string {
	tmpl, ok := templates[valErr.Tag()]
	if !ok {
		return fieldPath(valErr) + " is invalid"
	}

	return strings.NewReplacer("{field}", fieldPath(valErr), "{param}", valErr.Param()).Replace(tmpl)
}

// message renders one sentence per failing field, in declaration order.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(valErrors))
	for _, valErr := range valErrors {
		parts = append(parts, describe(valErr))
	}

	return strings.Join(parts, "; ")
}

func fields(err error) []string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return nil
	}

	names := make([]string, 0, len(valErrors))
	for _, valErr := range valErrors {
		names = append(names, fieldPath(valErr))
	}

	return names
}
