package task

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"taskManager/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("task_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("due_date", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(time.Time)
		return ok && !d.IsZero()
	})
	return v
}

// Validate reports every broken field as one ValidationError.
func (t Task) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.NewValidationError("task", err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	reasons := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		reasons[fe.Field()] = reason(fe)
	}
	return apperr.NewValidationErrors(fields, reasons)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "task_status":
		return fmt.Sprintf("%q is not one of %v", fe.Value(), statuses)
	case "due_date":
		return "is required"
	default:
		return fmt.Sprintf("failed rule %s", fe.Tag())
	}
}

func dateError(raw string, err error) error {
	e := apperr.NewValidationError("due_date", fmt.Sprintf("%q is not a valid YYYY-MM-DD date", raw))
	e.Err = err
	return e
}
