package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-playground/validator/v10"
)

const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldToken       = "token"

	MinPasswordLength = 8
	MaxNameLength     = 100

	specialCharacters = `!@#$%^&*(),.?":{}|<>`
)

var structValidator = newStructValidator()

// newStructValidator reports fields by their JSON names.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// PasswordViolations returns one message per unmet strength rule.
func PasswordViolations(password string) []string {
	var msgs []string

	if utf8.RuneCountInString(password) < MinPasswordLength {
		msgs = append(msgs, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
		if strings.ContainsRune(specialCharacters, r) {
			special = true
		}
	}

	if !upper {
		msgs = append(msgs, "Password must contain at least one uppercase letter")
	}
	if !lower {
		msgs = append(msgs, "Password must contain at least one lowercase letter")
	}
	if !digit {
		msgs = append(msgs, "Password must contain at least one digit")
	}
	if !special {
		msgs = append(msgs, "Password must contain at least one special character")
	}

	return msgs
}

// UserValidator checks the payloads of the auth endpoints.
type UserValidator struct{}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, obj any) error {
	var errs violations

	switch value := obj.(type) {
	case models.RegisterRequest:
		checkStruct(&errs, value)
		checkPassword(&errs, FieldPassword, value.Password)
		checkName(&errs, FieldFirstName, value.FirstName)
		checkName(&errs, FieldLastName, value.LastName)
	case models.LoginRequest:
		checkStruct(&errs, value)
	case models.PasswordResetRequest:
		checkStruct(&errs, value)
	case models.PasswordResetConfirm:
		checkStruct(&errs, value)
		checkPassword(&errs, FieldNewPassword, value.NewPassword)
	case models.UpdateProfileRequest:
		checkName(&errs, FieldFirstName, value.FirstName.Ptr())
		checkName(&errs, FieldLastName, value.LastName.Ptr())
	default:
		return ErrUnsupportedType
	}

	return errs.err()
}

func checkStruct(errs *violations, obj any) {
	err := structValidator.Struct(obj)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.add("body", err.Error())
		return
	}

	for _, fe := range fieldErrs {
		errs.add(fe.Field(), tagMessage(fe))
	}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "Value is not a valid email address"
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule", fe.Tag())
	}
}

func checkPassword(errs *violations, field, password string) {
	if password == "" {
		// reported by the required rule
		return
	}
	for _, msg := range PasswordViolations(password) {
		errs.add(field, msg)
	}
}

func checkName(errs *violations, field string, name *string) {
	if name == nil {
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(*name)) > MaxNameLength {
		errs.add(field, fmt.Sprintf("Ensure this value has at most %d characters", MaxNameLength))
	}
}
