package utils

import (
	"time"

	"github.com/go-playground/validator/v10"

	"telemed-schedule-service/internal/app/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("override_date", validateOverrideDate)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateOverrideDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(models.OverrideDateLayout, value)
	return err == nil
}
