// internal/app/system/inputval/inputval.go
//
// Package inputval validates decoded request bodies using struct tags.
// Field names in messages come from the `label` tag, then the `json` tag,
// then the Go field name.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if l := fld.Tag.Get("label"); l != "" {
				return l
			}
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
			return fld.Name
		})
	})
	return v
}

// FieldError is a single failed rule.
type FieldError struct {
	Field   string // json name of the field
	Label   string // human label used in Message
	Message string
}

// Result collects the failures from Validate, in struct field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the message of the first failure, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// FirstField returns the json field name of the first failure, or "".
func (r Result) FirstField() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Field
}

// Validate runs the struct's `validate` tags.
func Validate(s any) Result {
	err := instance().Struct(s)
	if err == nil {
		return Result{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []FieldError{{Message: err.Error()}}}
	}
	typ := reflect.TypeOf(s)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   jsonName(typ, fe.StructField()),
			Label:   fe.Field(),
			Message: message(fe),
		})
	}
	return Result{Errors: out}
}

func jsonName(typ reflect.Type, field string) string {
	if typ.Kind() != reflect.Struct {
		return field
	}
	f, ok := typ.FieldByName(field)
	if !ok {
		return field
	}
	if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
		return name
	}
	return field
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "mongodb":
		return fmt.Sprintf("%s must be a valid id", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// IsValidEmail reports whether s is a bare email address.
func IsValidEmail(s string) bool {
	return instance().Var(s, "required,email") == nil
}
