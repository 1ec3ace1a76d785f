package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/segyhp/amortization-engine/internal/domain"
)

// newValidator returns a validator that understands decimal amounts and
// reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("decimal_gt", decimalCompare(func(value, threshold decimal.Decimal) bool {
		return value.GreaterThan(threshold)
	}))
	_ = v.RegisterValidation("decimal_gte", decimalCompare(func(value, threshold decimal.Decimal) bool {
		return value.GreaterThanOrEqual(threshold)
	}))
	_ = v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseFrequency(fl.Field().String())
		return err == nil
	})

	return v
}

// decimalValue lets validator see a decimal as its string form
func decimalValue(field reflect.Value) interface{} {
	if value, ok := field.Interface().(decimal.Decimal); ok {
		return value.String()
	}
	return nil
}

func decimalCompare(compare func(value, threshold decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		threshold, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return compare(value, threshold)
	}
}

// validationMessage flattens validator errors into "field: rule" pairs
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule += "=" + fieldErr.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fieldErr.Field(), rule))
	}
	return strings.Join(parts, "; ")
}
