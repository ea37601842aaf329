package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns validator errors into one client-facing line.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		switch e.Tag() {
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}
