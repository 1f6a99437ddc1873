// Package person defines the contact record held by the address book,
// its field validation rules, and its single-line text encoding.
package person

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors for caller-checkable decode failures.
var (
	ErrMalformed    = errors.New("person: malformed record")
	ErrInvalidName  = errors.New("person: invalid name")
	ErrInvalidPhone = errors.New("person: invalid phone")
	ErrInvalidEmail = errors.New("person: invalid email")
)

// Person is a single contact. Two persons with the same fields are equal.
type Person struct {
	Name  string `validate:"required,personname"`
	Phone string `validate:"required,number"`
	Email string `validate:"required,personemail"`
}

// New returns a Person with the given fields. It does not validate them.
func New(name, phone, email string) Person {
	return Person{Name: name, Phone: phone, Email: email}
}

var (
	// Word characters (letters, marks, digits, connectors) and whitespace.
	namePattern  = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\p{Pc}\s]+$`)
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "personemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("person: registering %s validation: %v", tag, err))
	}
}

// Validate checks every field of p and reports the first invalid one.
func Validate(p Person) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("person: validating: %w", err)
	}
	switch fe := fieldErrs[0]; fe.Field() {
	case "Name":
		return fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
	case "Phone":
		return fmt.Errorf("%w: %q", ErrInvalidPhone, p.Phone)
	case "Email":
		return fmt.Errorf("%w: %q", ErrInvalidEmail, p.Email)
	default:
		return fmt.Errorf("person: field %s failed %q", fe.Field(), fe.Tag())
	}
}

// IsValid reports whether p passes Validate.
func IsValid(p Person) bool {
	return Validate(p) == nil
}
