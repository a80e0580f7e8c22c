// internal/app/system/normalize/normalize.go
package normalize

import (
	"html"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses internal whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Subject normalizes a subject label the same way as Name.
func Subject(s string) string {
	return Name(s)
}

// SubjectKey returns the folded form stored in subject_ci and used for
// case-insensitive subject filters.
func SubjectKey(s string) string {
	return text.Fold(Subject(s))
}

// Enum trims and lowercases a value compared against a fixed set
// (role, priority, status).
func Enum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// maxUnescapePasses bounds how many layers of entity encoding PlainText
// peels off.
const maxUnescapePasses = 8

// PlainText strips all HTML markup and trims the result. Input is decoded
// before sanitizing, so entity-encoded markup is stripped too, and the
// sanitizer's own entities are decoded so apostrophes and ampersands
// survive. Passes repeat until decoding no longer changes the text.
func PlainText(s string) string {
	for i := 0; i < maxUnescapePasses; i++ {
		out := html.UnescapeString(strict.Sanitize(html.UnescapeString(s)))
		if out == s {
			return strings.TrimSpace(out)
		}
		s = out
	}
	// Still changing after every pass: drop anything that could open a tag.
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}

// QueryParam trims a query string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
