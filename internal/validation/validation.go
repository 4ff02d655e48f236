// Package validation checks registration form fields against fixed rules.
//
// Every rule is a go-playground/validator tag applied to a single string
// with validator.Var. Field order matters: ValidateRegistration reports only
// the first failing field, in the order listed in Fields.
package validation

import (
	"regexp"

	"github.com/aanand-mishra/registration-form/internal/types"
	"github.com/go-playground/validator/v10"
)

// Field identifies one input of the registration form.
type Field int

const (
	Name Field = iota
	LastName
	Email
	BirthDate
	Password
)

// Fields lists every form field in evaluation order.
var Fields = []Field{Name, LastName, Email, BirthDate, Password}

var fieldNames = map[Field]string{
	Name:      "name",
	LastName:  "lastName",
	Email:     "email",
	BirthDate: "birthDate",
	Password:  "password",
}

// String returns the field's JSON/column name.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField maps a JSON/column name back to its Field.
func ParseField(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// Error is a field-level validation failure. Message is meant to be shown
// to the user as-is.
type Error struct {
	Field   Field
	Message string
}

func (e *Error) Error() string {
	return e.Field.String() + ": " + e.Message
}

type rule struct {
	tag     string
	message string
}

// The email pattern must match the whole value, hence the anchors.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// min counts runes for strings, so "min=8" is a character count.
// datetime runs time.Parse, which requires zero-padded month and day.
var rules = map[Field]rule{
	Name:      {"required,alpha", "Name can only contain letters"},
	LastName:  {"required,alpha", "Lastname can only contain letters"},
	Email:     {"required,form_email", "Wrong email format, your email must look like: email@example.com"},
	BirthDate: {"required,datetime=2006-01-02", "Wrong birth date format, valid format: year-month-day"},
	Password:  {"required,min=8", "Your password is too short, password must have at least 8 characters"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("form_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateField checks text against the rule for field. It returns nil when
// the value is valid and an *Error otherwise.
func ValidateField(field Field, text string) error {
	r, ok := rules[field]
	if !ok {
		return &Error{Field: field, Message: "Unknown field"}
	}
	if err := validate.Var(text, r.tag); err != nil {
		return &Error{Field: field, Message: r.message}
	}
	return nil
}

// ValidateRegistration checks all five fields in order and returns the
// first failure, or nil if every field is valid.
func ValidateRegistration(r types.Registration) error {
	values := map[Field]string{
		Name:      r.Name,
		LastName:  r.LastName,
		Email:     r.Email,
		BirthDate: r.BirthDate,
		Password:  r.Password,
	}
	for _, f := range Fields {
		if err := ValidateField(f, values[f]); err != nil {
			return err
		}
	}
	return nil
}
