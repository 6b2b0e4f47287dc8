package ocpp

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/go-playground/validator.v9"
)

var (
	validateMu sync.RWMutex
	validate   = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// RegisterEnum registers a validation tag accepting exactly the given values.
// Message packages call it from init for each of their enumerations.
func RegisterEnum[T ~string](tag string, values ...T) {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[string(v)] = struct{}{}
	}
	RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	})
}

// RegisterValidation exposes custom validations to message packages.
func RegisterValidation(tag string, fn validator.Func) {
	validateMu.Lock()
	defer validateMu.Unlock()
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("ocpp: register validation %s: %v", tag, err))
	}
}

// Validate checks a payload against its validate tags. Failures are reported as
// *Error with OccurrenceConstraintViolation for missing members and
// PropertyConstraintViolation otherwise.
func Validate(payload any) error {
	validateMu.RLock()
	err := validate.Struct(payload)
	validateMu.RUnlock()
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return NewError(InternalError, err.Error(), nil)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewError(FormatViolation, err.Error(), nil)
	}

	code := PropertyConstraintViolation
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			code = OccurrenceConstraintViolation
		}
		parts = append(parts, describeFieldError(fe))
	}
	return NewError(code, strings.Join(parts, "; "), nil)
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s violates %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s violates %s", field, fe.Tag())
}
