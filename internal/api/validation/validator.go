package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"toolinventory/internal/domain"
)

// Validator adapts go-playground/validator to echo.Validator. Failures come back as a 400
// echo.HTTPError whose message lists every violated rule.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("cents", validateCents)
	_ = v.RegisterValidation("website", validateWebsite)
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return domain.Department(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("tool_status", func(fl validator.FieldLevel) bool {
		return domain.ToolStatus(fl.Field().String()).Valid()
	})

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(Messages(fieldErrs), " | ")).SetInternal(err)
}

// Messages renders one readable sentence per violated rule.
func Messages(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, message(fe))
	}
	return messages
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return field + " must not be empty"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "cents":
		return field + " must have at most 2 decimal places"
	case "website":
		return field + " must be a valid URL"
	case "department":
		return field + " must be one of " + joinValues(domain.Departments)
	case "tool_status":
		return field + " must be one of " + joinValues(domain.ToolStatuses)
	default:
		return field + " is invalid"
	}
}

func validateCents(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Float64 && field.Kind() != reflect.Float32 {
		return false
	}
	return decimal.NewFromFloat(field.Float()).Exponent() >= -2
}

func validateWebsite(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return govalidator.IsURL(s) && govalidator.IsRequestURL(s)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
