package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// Slot is a position inside a parent node.
// The zero Slot is the end of the parent.
type Slot struct {
	node  *html.Node
	chain *DynamicSlot
}

// AtEnd returns the position after the last child of a parent.
func AtEnd() Slot {
	return Slot{}
}

// Before returns the position directly in front of n.
func Before(n *html.Node) Slot {
	return Slot{node: n}
}

// Node resolves the slot to the node it sits in front of.
// A nil result means the end of the parent.
func (s Slot) Node() *html.Node {
	// Chains are short; a loop guard keeps a bad reassignment from hanging.
	for i := 0; i < maxChain; i++ {
		if s.chain == nil {
			return s.node
		}
		s = s.chain.target
	}
	panic("dom: slot chain too long")
}

// IsEnd reports whether the slot resolves to the end of its parent.
func (s Slot) IsEnd() bool {
	return s.Node() == nil
}

// Insert places n into parent at this position.
func (s Slot) Insert(parent, n *html.Node) {
	next := s.Node()
	if next != nil && next.Parent != parent {
		next = nil
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	parent.InsertBefore(n, next)
}

// String returns a debug representation of the slot.
func (s Slot) String() string {
	n := s.Node()
	if n == nil {
		return "Slot(end)"
	}
	return fmt.Sprintf("Slot(before %s)", describe(n))
}

const maxChain = 1024

// DynamicSlot is a shared, reassignable Slot.
type DynamicSlot struct {
	target Slot
}

// NewDynamicSlot returns a DynamicSlot initially pointing at s.
func NewDynamicSlot(s Slot) *DynamicSlot {
	return &DynamicSlot{target: s}
}

// Reassign points the dynamic slot at s.
// Slots chained to d follow the new position.
func (d *DynamicSlot) Reassign(s Slot) {
	if s.chain == d {
		return
	}
	d.target = s
}

// Slot returns a Slot chained to d.
func (d *DynamicSlot) Slot() Slot {
	return Slot{chain: d}
}

// Position returns the slot d currently points at.
func (d *DynamicSlot) Position() Slot {
	return d.target
}

func describe(n *html.Node) string {
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
