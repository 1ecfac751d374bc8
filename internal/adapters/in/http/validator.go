package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"settlement/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo.Context.Validate
// and reports failures with json field names.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator names fields by their json tag in error messages.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate returns one errs validation error per failed field, joined.
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	joined := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		joined = append(joined, fieldError(fe))
	}
	return errors.Join(joined...)
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), namespaceRoot(fe))
	switch fe.Tag() {
	case "required":
		return errs.NewValueIsRequiredError(field)
	case "min", "max":
		return errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("must satisfy %s=%s", fe.Tag(), fe.Param()))
	case "oneof":
		return errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("must be one of [%s]", fe.Param()))
	}
	return errs.NewValueIsInvalidErrorWithCause(field, fmt.Errorf("failed %q", fe.Tag()))
}

// namespaceRoot is the struct name prefix of a field namespace, e.g.
// "NewBundle." for "NewBundle.counterparty.name".
func namespaceRoot(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i+1]
	}
	return ""
}
