// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Group names and descriptions arrive from end users and are later rendered
// by API consumers; everything written to a group document goes through here
// first.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows benign formatting markup and strips everything executable.
	ugc = bluemonday.UGCPolicy()
	// strict strips all markup, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns the input with unsafe HTML removed. Safe user-generated
// markup (paragraphs, emphasis, links) is preserved.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// SanitizeHTML sanitizes and returns the result as template.HTML for direct
// rendering.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(ugc.Sanitize(s))
}

// PlainText strips all markup and trims surrounding whitespace. Used for
// fields that must never contain HTML, like group names.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
