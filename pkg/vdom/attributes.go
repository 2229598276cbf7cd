package vdom

import (
	"fmt"
	"strings"
)

// attr creates an attribute with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the inline style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the ARIA role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaBusy sets aria-busy.
func AriaBusy(busy bool) Attr { return attr("aria-busy", busy) }

// Hidden sets the hidden boolean attribute.
func Hidden() Attr { return attr("hidden", true) }

// HiddenIf sets the hidden attribute to the given state.
func HiddenIf(hidden bool) Attr { return attr("hidden", hidden) }

func Href(url string) Attr        { return attr("href", url) }
func Name(name string) Attr       { return attr("name", name) }
func Value(value string) Attr     { return attr("value", value) }
func Type(t string) Attr          { return attr("type", t) }
func Disabled() Attr              { return attr("disabled", true) }
func Checked() Attr               { return attr("checked", true) }
func TitleAttr(title string) Attr { return attr("title", title) }

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// OnClick sets the click handler.
func OnClick(fn func()) Attr { return attr("onclick", fn) }

// OnInput sets the input handler. It receives the new value.
func OnInput(fn func(string)) Attr { return attr("oninput", fn) }

// AttrOf creates an arbitrary attribute.
func AttrOf(key string, value any) Attr {
	return attr(key, value)
}
