package validation

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/haingladys/jsdc-accounting/internal"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO day format used by every record date.
const DateLayout = "2006-01-02"

type ValidatorFunc func(interface{}) *errors.AppError

// rule returns a message and code when the value is rejected.
type rule func(value interface{}) (string, errors.ErrorCode, bool)

type FieldValidator struct {
	name   string
	value  interface{}
	rules  []rule
	custom []ValidatorFunc
}

// ValidationBuilder collects field rules and reports every failing field at
// once. Only the first failing rule of a field is reported.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{name: name, value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) add(r rule) *FieldValidator {
	fv.rules = append(fv.rules, r)
	return fv
}

func (fv *FieldValidator) Required() *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int:
			missing = v == 0
		}
		return fmt.Sprintf("%s is required", fv.name), errors.ErrCodeValidationFailed, missing
	})
}

func (fv *FieldValidator) MinInt(min int, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(int)
		return fmt.Sprintf("%s must be at least %d", fv.name, min), code, ok && v < min
	})
}

func (fv *FieldValidator) MaxInt(max int, code errors.ErrorCode) *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(int)
		return fmt.Sprintf("%s must not exceed %d", fv.name, max), code, ok && v > max
	})
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(string)
		return fmt.Sprintf("%s must be at least %d characters", fv.name, min), errors.ErrCodeValidationFailed, ok && len(v) < min
	})
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(string)
		return fmt.Sprintf("%s must not exceed %d characters", fv.name, max), errors.ErrCodeValidationFailed, ok && len(v) > max
	})
}

// NonNegative rejects decimal amounts below zero.
func (fv *FieldValidator) NonNegative() *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(decimal.Decimal)
		return fmt.Sprintf("%s cannot be negative", fv.name), errors.ErrCodeInvalidAmount, ok && v.IsNegative()
	})
}

func (fv *FieldValidator) Positive() *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(decimal.Decimal)
		return fmt.Sprintf("%s must be greater than 0", fv.name), errors.ErrCodeInvalidAmount, ok && !v.IsPositive()
	})
}

// Date checks a YYYY-MM-DD string; empty values are left to Required.
func (fv *FieldValidator) Date() *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(string)
		if !ok || v == "" {
			return "", "", false
		}
		_, err := time.Parse(DateLayout, v)
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fv.name), errors.ErrCodeInvalidDate, err != nil
	})
}

// OneOf accepts empty strings so optional enums can be defaulted later.
func (fv *FieldValidator) OneOf(code errors.ErrorCode, allowed ...string) *FieldValidator {
	return fv.add(func(value interface{}) (string, errors.ErrorCode, bool) {
		v, ok := value.(string)
		if !ok || v == "" {
			return "", "", false
		}
		for _, a := range allowed {
			if v == a {
				return "", "", false
			}
		}
		return fmt.Sprintf("%s must be one of %s", fv.name, strings.Join(allowed, ", ")), code, true
	})
}

// Custom runs after the built-in rules of the field have passed.
func (fv *FieldValidator) Custom(validator ValidatorFunc) *FieldValidator {
	fv.custom = append(fv.custom, validator)
	return fv
}

func (fv *FieldValidator) check() []errors.ValidationError {
	for _, r := range fv.rules {
		if msg, code, failed := r(fv.value); failed {
			return []errors.ValidationError{{Field: fv.name, Message: msg, Code: string(code)}}
		}
	}
	for _, c := range fv.custom {
		err := c(fv.value)
		if err == nil {
			continue
		}
		if fields := err.FieldErrors(); len(fields) > 0 {
			return fields
		}
		return []errors.ValidationError{{Field: fv.name, Message: err.Message, Code: string(err.Code)}}
	}
	return nil
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var failures []errors.ValidationError
	for _, field := range v.fields {
		failures = append(failures, field.check()...)
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: failures})
}
