package validators

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-task-keeper/internal/app"
)

var ErrUnsupportedType = errors.New("unsupported type for validation")

// FieldError is a single violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors lists every violation found in one payload. It wraps
// [app.ErrValidation].
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error {
	return app.ErrValidation
}

// violations collects field errors while a payload is checked.
type violations struct {
	errs ValidationErrors
}

func (v *violations) add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *violations) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

// Single returns a ValidationErrors holding one violation.
func Single(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}
