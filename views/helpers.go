package views

import (
	"encoding/json"
	"strings"

	"github.com/derekaspaulding/portfolio"
	"github.com/derekaspaulding/portfolio/contact"
	"github.com/derekaspaulding/portfolio/content"
)

const (
	successMessage = "Message sent successfully. I will respond to the email provided as soon as possible. Thank you!"
	errorMessage   = "There was a problem sending your message. Please try again, or email me directly."
)

// accentWord is one word of the site name split for the header, where the
// first letter is highlighted.
type accentWord struct {
	Sep   string
	First string
	Rest  string
}

func nameWords(name string) []accentWord {
	var words []accentWord
	for i, w := range strings.Fields(name) {
		r := []rune(w)
		word := accentWord{First: string(r[0]), Rest: string(r[1:])}
		if i > 0 {
			word.Sep = " "
		}
		words = append(words, word)
	}
	return words
}

type formField struct {
	field contact.Field
	label string
	kind  string // input type, or "textarea"
}

func (f formField) name() string { return string(f.field) }

var contactFields = []formField{
	{contact.FieldName, "Name", "text"},
	{contact.FieldEmail, "Email", "email"},
	{contact.FieldMessage, "Message", "textarea"},
}

// touchedJSON lists the touched fields in form order for the form script.
func touchedJSON(form contact.State) string {
	names := []string{}
	for _, f := range contact.Fields {
		if form.Touched[f] {
			names = append(names, string(f))
		}
	}
	b, _ := json.Marshal(names)
	return string(b)
}

func pagerLabel(p *content.Post, rel string) string {
	if rel == "newer" {
		return p.Title + " →"
	}
	return "← " + p.Title
}

func uploadSrc(img portfolio.Image) string {
	return "/public/uploads/" + img.Filename
}

// imageSnippet is the markdown to paste into a post for img.
func imageSnippet(img portfolio.Image) string {
	return "![" + img.OriginalName + "](" + uploadSrc(img) + ")"
}
