// Package validate wraps go-playground/validator so services can reject bad
// input with API-ready, field-keyed messages before anything touches
// persistence.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error carries per-field failure messages, keyed the way the API exposes
// them (e.g. "items.0.qty").
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

func (e *Error) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}

	e.Fields[field] = append(e.Fields[field], msg)
}

// NewError builds a single-field validation error.
func NewError(field, msg string) *Error {
	e := &Error{}
	e.add(field, msg)

	return e
}

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names so validation errors can be
	// returned to API clients as-is.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch val := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := val.Float64()
			return f
		case uuid.UUID:
			if val == uuid.Nil {
				return ""
			}

			return val.String()
		}

		return nil
	}, decimal.Decimal{}, uuid.UUID{})

	return v
}

// Struct checks the struct's validate tags and converts failures into an
// *Error. A nil return means the value passed.
func Struct(params any) error {
	err := v.Struct(params)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	vErr := &Error{}
	for _, fe := range fieldErrs {
		vErr.add(fieldKey(fe.Namespace()), fieldMessage(fe))
	}

	return vErr
}

// fieldKey strips the root struct name and flattens slice indexes:
// "CreateParams.items[0].qty" becomes "items.0.qty".
func fieldKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}

	namespace = strings.ReplaceAll(namespace, "[", ".")

	return strings.ReplaceAll(namespace, "]", "")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}

		if fe.Param() == "0" {
			return "must not be negative"
		}

		return "must be at least " + fe.Param()
	}

	return "is invalid"
}
