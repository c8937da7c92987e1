package contact

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User-facing validation messages.
const (
	MsgRequired     = "Required."
	MsgInvalidEmail = "Must be a valid email."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their form input name instead of the Go field name.
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationState is the per-field result of validating a set of Values.
// It is derived from the values and never stored.
type ValidationState struct {
	errs map[Field]string
}

// Validate checks v against the contact form rules. It has no side effects
// and always returns the same state for the same values.
func Validate(v Values) ValidationState {
	state := ValidationState{errs: make(map[Field]string)}
	err := validate.Struct(v)
	if err == nil {
		return state
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable with a misconfigured validator; treat every field as failing.
		for _, f := range Fields {
			state.errs[f] = MsgRequired
		}
		return state
	}
	for _, fe := range verrs {
		f, ok := ParseField(fe.Field())
		if !ok {
			continue
		}
		if _, seen := state.errs[f]; seen {
			continue
		}
		state.errs[f] = messageFor(fe.Tag())
	}
	return state
}

func messageFor(tag string) string {
	switch tag {
	case "email":
		return MsgInvalidEmail
	default:
		return MsgRequired
	}
}

// Valid reports whether every field passed.
func (s ValidationState) Valid() bool {
	return len(s.errs) == 0
}

// Error returns the message for f, if f is invalid.
func (s ValidationState) Error(f Field) (string, bool) {
	msg, ok := s.errs[f]
	return msg, ok
}

// Errors returns a copy of the field -> message map.
func (s ValidationState) Errors() map[Field]string {
	out := make(map[Field]string, len(s.errs))
	for f, msg := range s.errs {
		out[f] = msg
	}
	return out
}

// ErrInvalid is returned when a submission is attempted with invalid values.
var ErrInvalid = errors.New("contact: invalid form values")

// ValidationError carries the failing state of a rejected submission.
type ValidationError struct {
	State ValidationState
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.State.errs))
	for f, msg := range e.State.errs {
		fields = append(fields, string(f)+": "+msg)
	}
	sort.Strings(fields)
	return "contact: invalid form values (" + strings.Join(fields, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }
