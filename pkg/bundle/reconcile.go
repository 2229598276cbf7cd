package bundle

import (
	"github.com/vango-dev/lifecycle/internal/errors"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// reconcile realizes v in front of slot, reusing ex where it matches.
// It returns the realized node and the position of its first DOM node.
func reconcile(scope *lifecycle.AnyScope, parent *html.Node, slot dom.Slot, v *vdom.VNode, ex bnode) (bnode, dom.Slot) {
	if v == nil {
		v = vdom.Fragment()
	}

	switch v.Kind {
	case vdom.KindText:
		if t, ok := ex.(*btext); ok {
			if t.node.Data != v.Text {
				t.node.Data = v.Text
			}
			return t, dom.Before(t.node)
		}
		n := dom.NewText(v.Text)
		replace(parent, slot, ex, n)
		return &btext{node: n}, dom.Before(n)

	case vdom.KindElement:
		if e, ok := ex.(*belement); ok && e.tag == v.Tag && e.k == v.Key {
			patchProps(e.node, e.props, v.Props)
			e.props = v.Props
			e.children.reconcile(scope, e.node, dom.AtEnd(), v.Children)
			return e, dom.Before(e.node)
		}
		n := dom.NewElement(v.Tag)
		patchProps(n, nil, v.Props)
		e := &belement{tag: v.Tag, k: v.Key, node: n, props: v.Props, children: &blist{}}
		e.children.reconcile(scope, n, dom.AtEnd(), v.Children)
		replace(parent, slot, ex, n)
		return e, dom.Before(n)

	case vdom.KindFragment:
		l, ok := ex.(*blist)
		if !ok || l.k != v.Key {
			if ex != nil {
				ex.detach(parent, false)
			}
			l = &blist{k: v.Key}
		}
		return l, l.reconcile(scope, parent, slot, v.Children)

	case vdom.KindComponent:
		m := mountable(v)
		if c, ok := ex.(*bcomp); ok && c.k == v.Key && c.m.SameDefinition(m) {
			m.Reuse(c.scope, slot)
			c.m = m
			return c, c.own.Slot()
		}
		own := dom.NewDynamicSlot(slot)
		child := m.Mount(scope, New(), parent, slot, own)
		if ex != nil {
			ex.detach(parent, false)
		}
		return &bcomp{k: v.Key, m: m, scope: child, own: own}, own.Slot()

	case vdom.KindRaw:
		if r, ok := ex.(*braw); ok && r.markup == v.Text {
			return r, r.first(slot)
		}
		if ex != nil {
			ex.detach(parent, false)
		}
		r := &braw{k: v.Key, markup: v.Text, nodes: parseRaw(v.Text, parent)}
		for _, n := range r.nodes {
			slot.Insert(parent, n)
		}
		return r, r.first(slot)
	}

	panic(errors.Newf(errors.CategoryUsage, "bundle: unknown node kind %d", v.Kind))
}

// replace puts n in front of slot and removes what ex rendered.
func replace(parent *html.Node, slot dom.Slot, ex bnode, n *html.Node) {
	if ex != nil {
		ex.detach(parent, false)
	}
	slot.Insert(parent, n)
}

func mountable(v *vdom.VNode) lifecycle.Mountable {
	m, ok := v.Comp.(lifecycle.Mountable)
	if !ok {
		panic(errors.Newf(errors.CategoryUsage, "bundle: %s is not a mountable component", v.Name()))
	}
	return m
}

func parseRaw(markup string, parent *html.Node) []*html.Node {
	tag := "div"
	if parent != nil && parent.Type == html.ElementNode {
		tag = parent.Data
	}
	container, err := dom.ParseFragment(markup, tag)
	if err != nil {
		return []*html.Node{dom.NewText(markup)}
	}
	nodes := dom.Children(container)
	for _, n := range nodes {
		container.RemoveChild(n)
	}
	return nodes
}

// reconcile updates the list to children in front of slot and returns the
// position of its first DOM node.
func (l *blist) reconcile(scope *lifecycle.AnyScope, parent *html.Node, slot dom.Slot, children []*vdom.VNode) dom.Slot {
	if keyed(children) && keyedNodes(l.children) {
		return l.reconcileKeyed(scope, parent, slot, children)
	}

	old := l.children
	for i := len(children); i < len(old); i++ {
		old[i].detach(parent, false)
	}

	next := make([]bnode, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		var ex bnode
		if i < len(old) {
			ex = old[i]
		}
		next[i], slot = reconcile(scope, parent, slot, children[i], ex)
	}
	l.children = next
	return slot
}

// reconcileKeyed matches children by key. Reused nodes are moved to their
// new position.
func (l *blist) reconcileKeyed(scope *lifecycle.AnyScope, parent *html.Node, slot dom.Slot, children []*vdom.VNode) dom.Slot {
	byKey := make(map[string]bnode, len(l.children))
	for _, c := range l.children {
		if _, dup := byKey[c.key()]; !dup {
			byKey[c.key()] = c
		}
	}

	used := make(map[bnode]bool, len(children))
	next := make([]bnode, len(children))
	for i := len(children) - 1; i >= 0; i-- {
		v := children[i]
		ex, found := byKey[v.Key]
		if found {
			delete(byKey, v.Key)
		}

		n, first := reconcile(scope, parent, slot, v, ex)
		if found {
			used[ex] = true
			if n == ex {
				first = n.shift(parent, slot)
			}
		}
		next[i], slot = n, first
	}

	for _, c := range l.children {
		if !used[c] {
			c.detach(parent, false)
		}
	}
	l.children = next
	return slot
}

func keyed(children []*vdom.VNode) bool {
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if c == nil || c.Key == "" {
			return false
		}
	}
	return true
}

func keyedNodes(nodes []bnode) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if n.key() == "" {
			return false
		}
	}
	return true
}
