package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one user-correctable problem with a submitted field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Result is the outcome of validating one input against a Schema. When OK is
// true, Value holds a pointer to the schema's input struct with defaults applied
// and unknown fields dropped.
type Result struct {
	OK     bool
	Value  any
	Errors []FieldError
}

// Errors wraps a list of field errors so it can travel as an error value.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AnyField is the Field reported when a partial update carries no recognised field.
const AnyField = "_"

var phonePattern = regexp.MustCompile(`^[0-9\-+() ]{8,20}$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("email_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || isEmail(s)
	})

	return &Validator{v: v}
}

// Validate decodes input into the schema's struct and checks every field.
// All errors are collected; nothing short-circuits.
func (val *Validator) Validate(schema Schema, input map[string]any) Result {
	def, ok := registry[schema]
	if !ok {
		return Result{Errors: []FieldError{{Field: AnyField, Message: fmt.Sprintf("unknown schema %q", schema)}}}
	}

	target := def.target()
	errs := decodeFields(input, target)
	trimStrings(reflect.ValueOf(target))

	if def.partial && len(errs) == 0 && !hasAnyField(target) {
		return Result{Errors: []FieldError{{Field: AnyField, Message: "at least one field must be provided"}}}
	}

	if d, ok := target.(defaulter); ok {
		d.ApplyDefaults()
	}

	errs = append(errs, val.check(target, fieldsIn(errs))...)

	if c, ok := target.(crossChecker); ok && len(errs) == 0 {
		errs = append(errs, c.CrossCheck()...)
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{OK: true, Value: target}
}

// Struct validates an already-typed value.
func (val *Validator) Struct(target any) []FieldError {
	return val.check(target, nil)
}

func (val *Validator) check(target any, skip map[string]bool) []FieldError {
	err := val.v.Struct(target)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: AnyField, Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		// a decode error on this field already explains the problem
		if skip[field] {
			continue
		}
		out = append(out, FieldError{Field: field, Message: messageFor(field, fe)})
	}
	return out
}

// decodeFields assigns each recognised key individually so that a type error on
// one field does not hide problems with the others. Unknown keys are ignored.
func decodeFields(input map[string]any, target any) []FieldError {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()

	var errs []FieldError
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		raw, present := input[name]
		if !present {
			continue
		}
		b, err := json.Marshal(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("%s has an unsupported value", name)})
			continue
		}
		if err := json.Unmarshal(b, v.Field(i).Addr().Interface()); err != nil {
			errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("%s must be %s", name, describeKind(t.Field(i).Type))})
		}
	}
	return errs
}

func trimStrings(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			trimStrings(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).CanSet() {
				trimStrings(v.Field(i))
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			trimStrings(v.Index(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldsIn(errs []FieldError) map[string]bool {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]bool, len(errs))
	for _, e := range errs {
		m[e.Field] = true
	}
	return m
}

func messageFor(field string, fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "email", "email_or_empty":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number (8-20 digits, spaces, dashes, + or parentheses)", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func describeKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "an integer"
	case reflect.Slice:
		return "a list"
	default:
		return "of a different type"
	}
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, ".")
}

// IsEmail applies the same address check as the email_or_empty rule.
func IsEmail(s string) bool {
	return isEmail(s)
}
