// Package validator holds the shared go-playground validator instance and
// the custom rules used by request and entity structs.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"sheetwallet/internal/core"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// non-empty after trimming
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// #RRGGBB, either case
	_ = Validate.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return core.ValidColorHex(fl.Field().String())
	})
}

// Struct validates v and turns failures into a core validation error whose
// message lists missing required fields first.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, problems []string
	for _, e := range verrs {
		if e.Tag() == "required" {
			missing = append(missing, e.Field())
			continue
		}
		problems = append(problems, fieldErrorToString(e))
	}
	if len(missing) > 0 {
		problems = append([]string{"missing required fields: " + strings.Join(missing, ", ")}, problems...)
	}
	return core.Invalid(strings.Join(problems, "; "))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "notblank":
		return fmt.Sprintf("%s must not be empty", e.Field())
	case "hexcolor6":
		return fmt.Sprintf("%s must be in #RRGGBB format", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
