package dom

import (
	"encoding/base64"
	"strings"

	"golang.org/x/net/html"
)

// StateScriptType is the type of the script element carrying a
// component's prepared state in hydratable markup.
const StateScriptType = "application/x-vango-state"

// StartMarker returns the comment text opening a component's markup.
func StartMarker(name string) string {
	return "<[" + name + "]>"
}

// EndMarker returns the comment text closing a component's markup.
func EndMarker(name string) string {
	return "</[" + name + "]>"
}

// IsMarker reports whether n is the comment marker text.
func IsMarker(n *html.Node, text string) bool {
	return n != nil && n.Type == html.CommentNode && n.Data == text
}

// EncodeState encodes prepared state for a state script.
func EncodeState(state string) string {
	return base64.StdEncoding.EncodeToString([]byte(state))
}

// DecodeState decodes the contents of a state script element.
// ok is false if n is not a state script.
func DecodeState(n *html.Node) (state string, ok bool, err error) {
	if n == nil || n.Type != html.ElementNode || n.Data != "script" {
		return "", false, nil
	}
	if t, _ := Attr(n, "type"); t != StateScriptType {
		return "", false, nil
	}
	var raw strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			raw.WriteString(c.Data)
		}
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw.String()))
	if err != nil {
		return "", true, err
	}
	return string(b), true, nil
}
