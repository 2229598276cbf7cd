package bundle

import (
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// Bundle is the realized DOM of one component's view.
type Bundle struct {
	root bnode
}

// New returns an empty Bundle.
func New() *Bundle {
	return &Bundle{}
}

// Reconcile implements lifecycle.RenderTarget.
func (b *Bundle) Reconcile(scope *lifecycle.AnyScope, parent *html.Node, slot dom.Slot, tree *vdom.VNode) dom.Slot {
	var first dom.Slot
	b.root, first = reconcile(scope, parent, slot, tree, b.root)
	return first
}

// Detach implements lifecycle.RenderTarget.
func (b *Bundle) Detach(parent *html.Node, parentToDetach bool) {
	if b.root != nil {
		b.root.detach(parent, parentToDetach)
		b.root = nil
	}
}

// Shift implements lifecycle.RenderTarget.
func (b *Bundle) Shift(parent *html.Node, slot dom.Slot) dom.Slot {
	if b.root == nil {
		return slot
	}
	return b.root.shift(parent, slot)
}

// bnode is a realized view node.
type bnode interface {
	key() string
	// first returns the position of the first DOM node, or next if the
	// node renders nothing.
	first(next dom.Slot) dom.Slot
	detach(parent *html.Node, parentToDetach bool)
	shift(parent *html.Node, slot dom.Slot) dom.Slot
}

type btext struct {
	node *html.Node
}

func (t *btext) key() string { return "" }

func (t *btext) first(dom.Slot) dom.Slot { return dom.Before(t.node) }

func (t *btext) detach(_ *html.Node, parentToDetach bool) {
	if !parentToDetach {
		dom.Detach(t.node)
	}
}

func (t *btext) shift(parent *html.Node, slot dom.Slot) dom.Slot {
	slot.Insert(parent, t.node)
	return dom.Before(t.node)
}

type belement struct {
	tag      string
	k        string
	node     *html.Node
	props    vdom.Props
	children *blist
}

func (e *belement) key() string { return e.k }

func (e *belement) first(dom.Slot) dom.Slot { return dom.Before(e.node) }

func (e *belement) detach(_ *html.Node, parentToDetach bool) {
	e.children.detach(e.node, true)
	forgetHandlers(e.node)
	if !parentToDetach {
		dom.Detach(e.node)
	}
}

func (e *belement) shift(parent *html.Node, slot dom.Slot) dom.Slot {
	slot.Insert(parent, e.node)
	return dom.Before(e.node)
}

// blist is a fragment or the children of an element.
type blist struct {
	k        string
	children []bnode
}

func (l *blist) key() string { return l.k }

func (l *blist) first(next dom.Slot) dom.Slot {
	for i := len(l.children) - 1; i >= 0; i-- {
		next = l.children[i].first(next)
	}
	return next
}

func (l *blist) detach(parent *html.Node, parentToDetach bool) {
	for _, c := range l.children {
		c.detach(parent, parentToDetach)
	}
	l.children = nil
}

func (l *blist) shift(parent *html.Node, slot dom.Slot) dom.Slot {
	for i := len(l.children) - 1; i >= 0; i-- {
		slot = l.children[i].shift(parent, slot)
	}
	return slot
}

type bcomp struct {
	k     string
	m     lifecycle.Mountable
	scope *lifecycle.AnyScope
	own   *dom.DynamicSlot
}

func (c *bcomp) key() string { return c.k }

func (c *bcomp) first(dom.Slot) dom.Slot { return c.own.Slot() }

func (c *bcomp) detach(_ *html.Node, parentToDetach bool) {
	c.scope.Destroy(parentToDetach)
}

func (c *bcomp) shift(parent *html.Node, slot dom.Slot) dom.Slot {
	c.scope.Shift(parent, slot)
	return c.own.Slot()
}

type braw struct {
	k      string
	markup string
	nodes  []*html.Node
}

func (r *braw) key() string { return r.k }

func (r *braw) first(next dom.Slot) dom.Slot {
	if len(r.nodes) == 0 {
		return next
	}
	return dom.Before(r.nodes[0])
}

func (r *braw) detach(_ *html.Node, parentToDetach bool) {
	if parentToDetach {
		return
	}
	for _, n := range r.nodes {
		dom.Detach(n)
	}
}

func (r *braw) shift(parent *html.Node, slot dom.Slot) dom.Slot {
	for i := len(r.nodes) - 1; i >= 0; i-- {
		slot.Insert(parent, r.nodes[i])
		slot = dom.Before(r.nodes[i])
	}
	return slot
}
