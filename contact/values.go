// Package contact implements the contact form submission workflow: field
// state, validate-on-change, payload encoding, submission and the outcome
// flags the contact page renders.
package contact

import (
	"net/url"
	"strings"
)

// DefaultFormName identifies the contact form to the form-handling backend.
const DefaultFormName = "contact"

// FormNameKey is the discriminator key sent with every submission.
const FormNameKey = "form-name"

// Field names a contact form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists the form inputs in display and encoding order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ParseField returns the Field for a form input name.
func ParseField(s string) (Field, bool) {
	switch Field(strings.TrimSpace(s)) {
	case FieldName:
		return FieldName, true
	case FieldEmail:
		return FieldEmail, true
	case FieldMessage:
		return FieldMessage, true
	}
	return "", false
}

// Values holds the text of the three contact form fields.
type Values struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required"`
}

// Get returns the value of f.
func (v Values) Get(f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldMessage:
		return v.Message
	}
	return ""
}

// With returns a copy of v with f set to value. Unknown fields leave v as is.
func (v Values) With(f Field, value string) Values {
	switch f {
	case FieldName:
		v.Name = value
	case FieldEmail:
		v.Email = value
	case FieldMessage:
		v.Message = value
	}
	return v
}

// IsZero reports whether every field is empty.
func (v Values) IsZero() bool {
	return v == Values{}
}

// ValuesFromForm reads the contact fields out of a decoded form body.
func ValuesFromForm(form url.Values) Values {
	return Values{
		Name:    form.Get(string(FieldName)),
		Email:   form.Get(string(FieldEmail)),
		Message: form.Get(string(FieldMessage)),
	}
}

// Payload is a single submission: the form discriminator plus its values.
type Payload struct {
	FormName string
	Values   Values
}

// Encode serializes p as application/x-www-form-urlencoded. Pairs are
// written in a fixed order, form-name first.
func (p Payload) Encode() string {
	formName := p.FormName
	if formName == "" {
		formName = DefaultFormName
	}
	pairs := make([]string, 0, len(Fields)+1)
	pairs = append(pairs, url.QueryEscape(FormNameKey)+"="+url.QueryEscape(formName))
	for _, f := range Fields {
		pairs = append(pairs, url.QueryEscape(string(f))+"="+url.QueryEscape(p.Values.Get(f)))
	}
	return strings.Join(pairs, "&")
}
