package bundle

import (
	"fmt"
	"strings"

	"github.com/vango-dev/lifecycle/internal/errors"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// Fragment is a run of pre-rendered sibling nodes waiting to be adopted.
type Fragment struct {
	nodes []*html.Node
}

// FragmentOf returns a Fragment holding the children of parent.
func FragmentOf(parent *html.Node) *Fragment {
	return &Fragment{nodes: dom.Children(parent)}
}

// Len returns the number of nodes not yet adopted.
func (f *Fragment) Len() int {
	return len(f.nodes)
}

func (f *Fragment) front() *html.Node {
	if len(f.nodes) == 0 {
		return nil
	}
	return f.nodes[0]
}

func (f *Fragment) pop() *html.Node {
	n := f.front()
	if n != nil {
		f.nodes = f.nodes[1:]
	}
	return n
}

func (f *Fragment) position() dom.Slot {
	if n := f.front(); n != nil {
		return dom.Before(n)
	}
	return dom.AtEnd()
}

// Hydrate implements lifecycle.Fragment.
func (f *Fragment) Hydrate(scope *lifecycle.AnyScope, parent *html.Node, tree *vdom.VNode) (lifecycle.RenderTarget, dom.Slot) {
	root := hydrate(scope, parent, f, tree)
	return &Bundle{root: root}, root.first(f.position())
}

// TrimLeadingWhitespace implements lifecycle.Fragment.
func (f *Fragment) TrimLeadingWhitespace() {
	for dom.IsWhitespaceText(f.front()) {
		dom.Detach(f.pop())
	}
}

// Consumed implements lifecycle.Fragment.
func (f *Fragment) Consumed() bool {
	return len(f.nodes) == 0
}

// Detach implements lifecycle.Fragment.
func (f *Fragment) Detach(_ *html.Node, parentToDetach bool) {
	if !parentToDetach {
		for _, n := range f.nodes {
			dom.Detach(n)
		}
	}
	f.nodes = nil
}

// Shift implements lifecycle.Fragment.
func (f *Fragment) Shift(parent *html.Node, slot dom.Slot) {
	for _, n := range f.nodes {
		slot.Insert(parent, n)
	}
}

// CollectComponent splits off the markup of the component name at the
// front of f: the nodes between its start and end markers. The markers
// are removed from the DOM, and so is the trailing state script, whose
// decoded contents are returned as prepared.
func (f *Fragment) CollectComponent(name string) (child *Fragment, prepared string, err error) {
	f.TrimLeadingWhitespace()
	start, end := dom.StartMarker(name), dom.EndMarker(name)

	if !dom.IsMarker(f.front(), start) {
		return nil, "", errors.New("E044").WithComponent(name).
			WithDetail(fmt.Sprintf("expected component start marker, found %s", describe(f.front())))
	}
	dom.Detach(f.pop())

	var inner []*html.Node
	depth := 0
	for {
		n := f.pop()
		if n == nil {
			return nil, "", errors.New("E044").WithComponent(name).
				WithDetail("component end marker not found")
		}
		if dom.IsMarker(n, start) {
			depth++
		} else if dom.IsMarker(n, end) {
			if depth == 0 {
				dom.Detach(n)
				break
			}
			depth--
		}
		inner = append(inner, n)
	}

	if len(inner) > 0 {
		last := inner[len(inner)-1]
		state, ok, decodeErr := dom.DecodeState(last)
		if decodeErr != nil {
			return nil, "", errors.New("E044").WithComponent(name).
				WithDetail("prepared state is not valid base64").Wrap(decodeErr)
		}
		if ok {
			prepared = state
			dom.Detach(last)
			inner = inner[:len(inner)-1]
		}
	}
	return &Fragment{nodes: inner}, prepared, nil
}

// hydrate adopts the nodes of f that v describes.
func hydrate(scope *lifecycle.AnyScope, parent *html.Node, f *Fragment, v *vdom.VNode) bnode {
	if v == nil {
		v = vdom.Fragment()
	}

	switch v.Kind {
	case vdom.KindText:
		return hydrateText(scope, parent, f, v)

	case vdom.KindElement:
		f.TrimLeadingWhitespace()
		n := f.front()
		if n == nil {
			panic(mismatch("E043", scope, fmt.Sprintf("expected <%s>, found end of markup", v.Tag)))
		}
		if n.Type != html.ElementNode || n.Data != v.Tag {
			panic(mismatch("E040", scope, fmt.Sprintf("expected <%s>, found %s", v.Tag, describe(n))))
		}
		f.pop()

		children := FragmentOf(n)
		e := &belement{tag: v.Tag, k: v.Key, node: n, props: v.Props, children: &blist{}}
		for _, c := range v.Children {
			e.children.children = append(e.children.children, hydrate(scope, n, children, c))
		}
		children.TrimLeadingWhitespace()
		if !children.Consumed() {
			panic(mismatch("E045", scope, fmt.Sprintf("<%s> has unexpected child %s", v.Tag, describe(children.front()))))
		}

		dropUnknownAttrs(n, v.Props)
		patchProps(n, nil, v.Props)
		return e

	case vdom.KindFragment:
		l := &blist{k: v.Key}
		for _, c := range v.Children {
			l.children = append(l.children, hydrate(scope, parent, f, c))
		}
		return l

	case vdom.KindComponent:
		m := mountable(v)
		child, prepared, err := f.CollectComponent(m.ComponentName())
		if err != nil {
			panic(err)
		}
		own := dom.NewDynamicSlot(child.position())
		if child.Consumed() {
			own.Reassign(f.position())
		}
		return &bcomp{k: v.Key, m: m, scope: m.Hydrate(scope, parent, child, own, prepared), own: own}

	case vdom.KindRaw:
		f.TrimLeadingWhitespace()
		count := len(parseRaw(v.Text, parent))
		r := &braw{k: v.Key, markup: v.Text}
		for i := 0; i < count; i++ {
			n := f.pop()
			if n == nil {
				panic(mismatch("E043", scope, "raw markup is shorter than expected"))
			}
			r.nodes = append(r.nodes, n)
		}
		return r
	}

	panic(errors.Newf(errors.CategoryUsage, "bundle: unknown node kind %d", v.Kind))
}

func hydrateText(scope *lifecycle.AnyScope, parent *html.Node, f *Fragment, v *vdom.VNode) bnode {
	n := f.front()

	// Empty text renders nothing on the server.
	if v.Text == "" && (n == nil || n.Type != html.TextNode) {
		t := dom.NewText("")
		f.position().Insert(parent, t)
		return &btext{node: t}
	}
	if n == nil || n.Type != html.TextNode {
		panic(mismatch("E041", scope, fmt.Sprintf("expected text %q, found %s", v.Text, describe(n))))
	}
	f.pop()

	// The parser merges adjacent text; split off what belongs to the
	// following nodes.
	if len(n.Data) > len(v.Text) && strings.HasPrefix(n.Data, v.Text) {
		rest := dom.NewText(n.Data[len(v.Text):])
		n.Data = v.Text
		n.Parent.InsertBefore(rest, n.NextSibling)
		f.nodes = append([]*html.Node{rest}, f.nodes...)
	} else if n.Data != v.Text {
		n.Data = v.Text
	}
	return &btext{node: n}
}

func mismatch(code string, scope *lifecycle.AnyScope, detail string) *errors.Error {
	err := errors.New(code).WithDetail(detail)
	if scope != nil {
		err = err.WithComponent(scope.Name())
	}
	return err
}

func describe(n *html.Node) string {
	if n == nil {
		return "end of markup"
	}
	switch n.Type {
	case html.ElementNode:
		return "<" + n.Data + ">"
	case html.TextNode:
		return fmt.Sprintf("text %q", n.Data)
	case html.CommentNode:
		return "<!--" + n.Data + "-->"
	default:
		return "node"
	}
}
