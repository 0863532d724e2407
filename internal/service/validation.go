package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Password policy enforced by both the registration page and the API.
const (
	PasswordMinLength = 8
	// bcrypt silently ignores input past 72 bytes.
	PasswordMaxLength = 72
)

// Messages shared with the registration page so both layers report the same text.
const (
	MsgUsernameRequired = "Username is required"
	MsgUsernameLength   = "Username must be between 3 and 50 characters"
	MsgUsernameChars    = "Username may only contain letters, digits, dots, dashes and underscores"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgFirstName        = "First name is required"
	MsgLastName         = "Last name is required"
	MsgPasswordLength   = "Password must be at least 8 characters long"
	MsgPasswordTooLong  = "Password must be at most 72 characters long"
	MsgPasswordUpper    = "Password must contain at least one uppercase letter"
	MsgPasswordMismatch = "Passwords do not match"
)

// ErrValidation wraps every input validation failure.
var ErrValidation = errors.New("validation failed")

// RegisterInput is the payload accepted by the registration form and API.
type RegisterInput struct {
	Username        string `json:"username" form:"username" validate:"required,min=3,max=50,username_chars"`
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=72,has_upper"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

// normalize trims surrounding whitespace from identity fields; passwords are taken verbatim.
func (in RegisterInput) normalize() RegisterInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	return in
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("has_upper", func(fl validator.FieldLevel) bool {
		return hasUpper(fl.Field().String())
	})
	_ = v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return isUsername(fl.Field().String())
	})
	return v
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func isUsername(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}

// ValidateRegistration checks in and returns the first failure as a human-readable
// message wrapped in ErrValidation.
func ValidateRegistration(in RegisterInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return fmt.Errorf("%w: %s", ErrValidation, messageFor(verrs[0]))
}

// ValidationMessage strips the ErrValidation prefix so handlers can show the bare message.
func ValidationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}

func messageFor(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Username":
		switch fe.Tag() {
		case "required":
			return MsgUsernameRequired
		case "username_chars":
			return MsgUsernameChars
		default:
			return MsgUsernameLength
		}
	case "Email":
		return MsgEmailInvalid
	case "FirstName":
		return MsgFirstName
	case "LastName":
		return MsgLastName
	case "Password":
		switch fe.Tag() {
		case "has_upper":
			return MsgPasswordUpper
		case "max":
			return MsgPasswordTooLong
		default:
			return MsgPasswordLength
		}
	case "ConfirmPassword":
		return MsgPasswordMismatch
	}
	return fe.Error()
}
