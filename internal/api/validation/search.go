package validation

import (
	"github.com/go-playground/validator/v10"

	"job-hunt-agent/pkg/models"
)

// ValidateJobCategory accepts only the fixed industry categories
func ValidateJobCategory(fl validator.FieldLevel) bool {
	return IsJobCategory(fl.Field().String())
}

// IsJobCategory reports whether category is one of models.JobCategories
func IsJobCategory(category string) bool {
	for _, c := range models.JobCategories {
		if c == category {
			return true
		}
	}
	return false
}

// RegisterSearchValidators registers all search-related custom validators
func RegisterSearchValidators(v *validator.Validate) {
	v.RegisterValidation("job_category", ValidateJobCategory)
}

// New returns a validator with the custom rules registered
func New() *validator.Validate {
	v := validator.New()
	RegisterSearchValidators(v)
	return v
}
