package render

import (
	"strings"

	"golang.org/x/net/html"
)

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

var attrEscaper = strings.NewReplacer("\n", "&#10;", "\t", "&#9;")

// escapeAttr escapes text for safe inclusion in HTML attribute values.
// Whitespace that could break attribute parsing is escaped as well.
func escapeAttr(s string) string {
	return attrEscaper.Replace(html.EscapeString(s))
}
