package validation

import (
	"fmt"
	"regexp"
	"strings"

	errors "github.com/beledshul/sponsorship/internal"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
		errors: make([]errors.ValidationError, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case int64:
			if v == 0 {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(strings.TrimSpace(v)) < min {
				return errors.NewValidationFieldError(fv.FieldName,
					fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) PositiveAmount(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int64); ok {
			if v <= 0 {
				return errors.NewValidationFieldError(fv.FieldName, "amount must be greater than 0", code)
			}
		}
		return nil
	})
	return fv
}

// Email passes empty values; the form treats email as optional.
func (fv *FieldValidator) Email(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if !emailPattern.MatchString(v) {
				return errors.NewValidationFieldError(fv.FieldName, "invalid email address", code)
			}
		}
		return nil
	})
	return fv
}

// Phone passes empty values and requires exactly 10 digits after stripping
// every non-digit rune.
func (fv *FieldValidator) Phone(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if len(StripNonDigits(v)) != 10 {
				return errors.NewValidationFieldError(fv.FieldName, "phone number must have 10 digits", code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MonthIndex(code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int); ok {
			if v < 0 || v > 11 {
				return errors.NewValidationFieldError(fv.FieldName, "month must be between 0 and 11", code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(fn ValidatorFunc) *FieldValidator {
	fv.Validators = append(fv.Validators, fn)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	v.errors = v.errors[:0]

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				if details, ok := err.Details.(errors.ValidationErrors); ok {
					v.errors = append(v.errors, details.Errors...)
				} else {
					v.errors = append(v.errors, errors.ValidationError{
						Field:   field.FieldName,
						Message: err.Message,
						Code:    string(err.Code),
					})
				}
				break
			}
		}
	}

	if len(v.errors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: v.errors})
	}
	return nil
}

// StripNonDigits removes every rune outside '0'-'9'.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
