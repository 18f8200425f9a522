// Package forms binds and validates the HTML forms of the taxi service.
// Struct fields carry gin `form` tags for binding and validator `validate`
// tags for the rules; cross-field rules live in each form's Validate method.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/models"
)

// NonFieldErrors is the key for errors not tied to one input.
const NonFieldErrors = "__all__"

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidDriver = "Select a valid choice. One of the drivers is not one of the available choices."
	msgUsername      = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgEmail         = "Enter a valid email address."
	msgPasswordShort = "This password is too short. It must contain at least 8 characters."
	msgPasswordDigit = "This password is entirely numeric."
	msgPasswordMatch = "The two password fields didn't match."
)

const PasswordMinLength = 8

var usernameExpr = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("license", func(fl validator.FieldLevel) bool {
		return models.ValidateLicenseNumber(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameExpr.MatchString(fl.Field().String())
	})
	return v
}

// Errors maps a field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Get(field string) []string {
	return e[field]
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// AddError records err when it is a field-level failure and reports
// whether it did.
func (e Errors) AddError(err error) bool {
	fe, ok := apperrors.AsFieldError(err)
	if !ok {
		return false
	}
	field := fe.Field
	if field == "" {
		field = NonFieldErrors
	}
	e.Add(field, fe.Message)
	return true
}

func validateStruct(form any) Errors {
	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add(NonFieldErrors, err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(fe.Value().(string))))
	case "email":
		return msgEmail
	case "username":
		return msgUsername
	case "license":
		if err := models.ValidateLicenseNumber(fe.Value().(string)); err != nil {
			return err.Error()
		}
	}
	return fe.Field() + " is invalid."
}

// checkPassword applies the length and numeric rules to a new password.
func checkPassword(errs Errors, field, password string) {
	if password == "" {
		return
	}
	if len([]rune(password)) < PasswordMinLength {
		errs.Add(field, msgPasswordShort)
	}
	if isAllDigits(password) {
		errs.Add(field, msgPasswordDigit)
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseID reads a select or checkbox value as a positive id.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
