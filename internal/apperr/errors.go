package apperr

import (
	"fmt"
	"strings"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeStorage    = "STORAGE_ERROR"
	CodeFormat     = "FORMAT_ERROR"
)

// Sentinels for errors.Is; they match any BusinessError with the same code.
var (
	ErrValidation = &BusinessError{Code: CodeValidation}
	ErrStorage    = &BusinessError{Code: CodeStorage}
	ErrFormat     = &BusinessError{Code: CodeFormat}
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func (b *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return t.Code == b.Code
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func New(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}
	return busErr
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid value for field '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewValidationErrors folds several field failures into one error; fields keep their input order.
func NewValidationErrors(fields []string, reasons map[string]string) *BusinessError {
	if len(fields) == 1 {
		return NewValidationError(fields[0], reasons[fields[0]])
	}
	parts := make([]string, 0, len(fields))
	details := make(map[string]any, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("'%s': %s", f, reasons[f]))
		details[f] = reasons[f]
	}
	return &BusinessError{
		Code:    CodeValidation,
		Message: "invalid fields " + strings.Join(parts, "; "),
		Details: details,
	}
}

func NewStorageError(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStorage,
		Message: fmt.Sprintf("storage operation '%s' failed", operation),
		Details: map[string]any{
			"operation": operation,
		},
		Err: err,
	}
}

func NewFormatError(source string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeFormat,
		Message: fmt.Sprintf("malformed document '%s'", source),
		Details: map[string]any{
			"source": source,
		},
		Err: err,
	}
}

// Field reports the offending field of a single-field validation error.
func Field(err error) string {
	b, ok := err.(*BusinessError)
	if !ok || b.Code != CodeValidation {
		return ""
	}
	f, _ := b.Details["field"].(string)
	return f
}
