package bundle

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// patchProps brings the attributes of n from old to next.
// Attributes are written in key order so output is stable.
func patchProps(n *html.Node, old, next vdom.Props) {
	for _, key := range slices.Sorted(maps.Keys(old)) {
		if _, ok := next[key]; !ok && !vdom.IsInternalProp(key) {
			dom.RemoveAttr(n, vdom.AttrName(key))
		}
	}

	var handlers map[string]any
	for _, key := range slices.Sorted(maps.Keys(next)) {
		value := next[key]
		if vdom.IsEventProp(key) {
			if handlers == nil {
				handlers = make(map[string]any)
			}
			handlers[strings.ToLower(key)] = value
			continue
		}
		if vdom.IsInternalProp(key) {
			continue
		}
		if prev, ok := old[key]; ok && vdom.PropsEqual(prev, value) {
			continue
		}
		setAttr(n, vdom.AttrName(key), value)
	}

	if handlers != nil {
		nodeHandlers.Store(n, handlers)
	} else {
		forgetHandlers(n)
	}
}

func setAttr(n *html.Node, name string, value any) {
	if b, ok := value.(bool); ok && vdom.IsBooleanAttr(name) {
		if b {
			dom.SetAttr(n, name, "")
		} else {
			dom.RemoveAttr(n, name)
		}
		return
	}
	if value == nil {
		dom.RemoveAttr(n, name)
		return
	}
	dom.SetAttr(n, name, vdom.PropString(value))
}

// dropUnknownAttrs removes attributes of a hydrated element that the view
// does not set.
func dropUnknownAttrs(n *html.Node, props vdom.Props) {
	keep := make(map[string]bool, len(props))
	for key, value := range props {
		if vdom.IsInternalProp(key) {
			continue
		}
		if b, ok := value.(bool); ok && !b && vdom.IsBooleanAttr(vdom.AttrName(key)) {
			continue
		}
		keep[vdom.AttrName(key)] = true
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace != "" || keep[a.Key] {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// nodeHandlers maps live element nodes to their event props.
var nodeHandlers sync.Map

func forgetHandlers(n *html.Node) {
	nodeHandlers.Delete(n)
}

// Handler returns the event prop registered on n, e.g. "onclick".
func Handler(n *html.Node, event string) (any, bool) {
	v, ok := nodeHandlers.Load(n)
	if !ok {
		return nil, false
	}
	h, ok := v.(map[string]any)[strings.ToLower(event)]
	return h, ok
}

// Dispatch invokes the event handler of the element with the given id
// attribute below root. Handlers may be func(), func(string) or
// func(any); value is passed to the latter two. It reports whether a
// handler ran.
func Dispatch(root *html.Node, id, event string, value any) bool {
	n := findByID(root, id)
	if n == nil {
		return false
	}
	h, ok := Handler(n, event)
	if !ok {
		return false
	}
	switch fn := h.(type) {
	case func():
		fn()
	case func(string):
		s, _ := value.(string)
		fn(s)
	case func(any):
		fn(value)
	default:
		return false
	}
	return true
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := dom.Attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
