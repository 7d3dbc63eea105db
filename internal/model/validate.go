package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	tagNamesDiffer = "names_differ"
	tagNoNotLast   = "employeeno_not_lastname"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(employeeRules, EmployeeAddDto{}, EmployeeUpdateDto{})
	return v
}

func employeeRules(sl validator.StructLevel) {
	var e EmployeeAddDto
	switch v := sl.Current().Interface().(type) {
	case EmployeeAddDto:
		e = v
	case EmployeeUpdateDto:
		e = EmployeeAddDto(v)
	default:
		return
	}
	if e.FirstName != "" && e.FirstName == e.LastName {
		sl.ReportError(e.FirstName, "firstName", "FirstName", tagNamesDiffer, "")
		sl.ReportError(e.LastName, "lastName", "LastName", tagNamesDiffer, "")
	}
	if e.EmployeeNo != "" && e.EmployeeNo == e.LastName {
		sl.ReportError(e.EmployeeNo, "employeeNo", "EmployeeNo", tagNoNotLast, "")
	}
}

// ValidationError carries per-field messages keyed by JSON path
// ("name", "employees[0].employeeNo").
type ValidationError struct {
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Errors[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validate checks a create or update payload. Rule violations come back as
// *ValidationError; anything else is a programming error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Errors: map[string][]string{}}
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		out.Errors[key] = append(out.Errors[key], message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case tagNamesDiffer:
		return "first name and last name must differ"
	case tagNoNotLast:
		return "employee number must differ from last name"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
