package exceptions

import (
	"strings"
	"telemed-schedule-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validationErrorMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of %s",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gte":      "must be greater than or equal %s",
	"lte":      "must be less than or equal %s",
}

var validationTagsWithParams = map[string]bool{
	"oneof": true,
	"min":   true,
	"max":   true,
	"gte":   true,
	"lte":   true,
}

func FormatFirstValidationError(err error) string {
	if err == nil {
		return constvars.ErrClientCannotProcessRequest
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return constvars.ErrClientCannotProcessRequest
	}

	firstErr := validationErrors[0]
	fieldName := strings.ToLower(firstErr.Field())
	tag := firstErr.Tag()
	customMessage, ok := validationErrorMessages[tag]
	if !ok {
		customMessage = "is invalid"
	}
	if validationTagsWithParams[tag] {
		if tag == "oneof" {
			customMessage = strings.Replace(customMessage, "%s", strings.Join(strings.Fields(firstErr.Param()), ", "), 1)
		} else {
			customMessage = strings.Replace(customMessage, "%s", firstErr.Param(), 1)
		}
	}
	return fieldName + " " + customMessage
}
