// Package validation provides composable per-field validation rules that
// collect every failure as a (field, message) pair instead of stopping at
// the first invalid field.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// FieldError is a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors is the list of failures produced by a Validator. It implements error
// so services can return it directly.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ByField groups messages by field name, preserving their order.
func (e Errors) ByField() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, fe := range e {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Has reports whether field has at least one failure.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Rule checks a single value. It returns an empty string when the value passes.
type Rule func(field, value string) string

// Validator accumulates failures across fields.
type Validator struct {
	errs Errors
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Check runs rules against value in order and records the first failure.
// It reports whether the value passed every rule.
func (v *Validator) Check(field, value string, rules ...Rule) bool {
	for _, rule := range rules {
		if msg := rule(field, value); msg != "" {
			v.Add(field, msg)
			return false
		}
	}
	return true
}

// CheckOptional runs rules only when value is present.
func (v *Validator) CheckOptional(field string, value *string, rules ...Rule) bool {
	if value == nil {
		return true
	}
	return v.Check(field, *value, rules...)
}

// Add records a failure that was determined outside a Rule, such as a
// uniqueness or existence check against the store.
func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

// Failed reports whether field has a recorded failure.
func (v *Validator) Failed(field string) bool {
	return v.errs.Has(field)
}

// Valid reports whether no failures were recorded.
func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

// Err returns the accumulated failures, or nil if there are none.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	out := make(Errors, len(v.errs))
	copy(out, v.errs)
	return out
}

// Required fails on empty or whitespace-only values.
func Required() Rule {
	return func(field, value string) string {
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("The %s field is required.", Label(field))
		}
		return ""
	}
}

// MaxLength fails when value has more than n characters.
func MaxLength(n int) Rule {
	return func(field, value string) string {
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("The %s field must not be greater than %d characters.", Label(field), n)
		}
		return ""
	}
}

// MinLength fails when value has fewer than n characters.
func MinLength(n int) Rule {
	return func(field, value string) string {
		if utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("The %s field must be at least %d characters.", Label(field), n)
		}
		return ""
	}
}

// Email fails when value is not a syntactically valid email address.
func Email() Rule {
	return func(field, value string) string {
		if err := validate.Var(strings.TrimSpace(value), "required,email"); err != nil {
			return fmt.Sprintf("The %s field must be a valid email address.", Label(field))
		}
		return ""
	}
}

// Numeric fails when value is not a decimal number.
func Numeric() Rule {
	return func(field, value string) string {
		if _, err := decimal.NewFromString(strings.TrimSpace(value)); err != nil {
			return fmt.Sprintf("The %s field must be a number.", Label(field))
		}
		return ""
	}
}

// MaxAbs fails when the absolute value of a decimal exceeds limit. Values
// that do not parse are left to Numeric.
func MaxAbs(limit decimal.Decimal) Rule {
	return func(field, value string) string {
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return ""
		}
		if d.Abs().GreaterThan(limit) {
			return fmt.Sprintf("The %s field must be between -%s and %s.", Label(field), limit.String(), limit.String())
		}
		return ""
	}
}

// MaxDecimalPlaces fails when a decimal has more than places significant
// digits after the point. Trailing zeros are ignored.
func MaxDecimalPlaces(places int32) Rule {
	return func(field, value string) string {
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return ""
		}
		if !d.Equal(d.Truncate(places)) {
			return fmt.Sprintf("The %s field must not have more than %d decimal places.", Label(field), places)
		}
		return ""
	}
}

// Integer fails when value is not a base-10 integer.
func Integer() Rule {
	return func(field, value string) string {
		if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", Label(field))
		}
		return ""
	}
}

// Boolean accepts the same spellings as strconv.ParseBool.
func Boolean() Rule {
	return func(field, value string) string {
		if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
			return fmt.Sprintf("The %s field must be true or false.", Label(field))
		}
		return ""
	}
}

// Label turns a field key such as "product_category_id" into the words used
// in messages ("product category id").
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
