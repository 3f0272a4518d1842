package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report query parameter names instead of Go field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("query"); name != "" {
			return name
		}
		return field.Name
	})
}

// ValidateRequest validates a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// PageQuery holds the pagination parameters accepted by listing endpoints
type PageQuery struct {
	Skip  int `query:"skip" validate:"gte=0"`
	Limit int `query:"limit" validate:"gt=0,lte=1000"`
}

// DecodePageQuery reads skip and limit from the query string, applying
// defaults for missing values, and validates them.
func DecodePageQuery(r *http.Request, defaultLimit int) (PageQuery, error) {
	q := PageQuery{Skip: 0, Limit: defaultLimit}

	values := r.URL.Query()
	if raw := values.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("skip: %w", err)
		}
		q.Skip = skip
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("limit: %w", err)
		}
		q.Limit = limit
	}

	return q, ValidateRequest(q)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format
func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   e.Field(),
				Message: getErrorMessage(e),
			})
		}
	}

	return errors
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	case "lt":
		return "Value must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
