package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a node of the view tree.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key
	Text     string    // For KindText and KindRaw
	Comp     Component // For KindComponent
}

// Props holds element attributes.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is a nested component reference carried by a KindComponent node.
type Component interface {
	// ComponentName names the component for markers, logs and traces.
	ComponentName() string
}

// Name returns a short description of the node for diagnostics.
func (v *VNode) Name() string {
	if v == nil {
		return "nil"
	}
	switch v.Kind {
	case KindElement:
		return "<" + v.Tag + ">"
	case KindText:
		return "text"
	case KindComponent:
		if v.Comp != nil {
			return "<" + v.Comp.ComponentName() + " />"
		}
		return "component"
	default:
		return strings.ToLower(v.Kind.String())
	}
}

// Count returns the number of nodes in the tree rooted at v.
// Component nodes count as one; their output is not part of this tree.
func (v *VNode) Count() int {
	if v == nil {
		return 0
	}
	n := 1
	for _, c := range v.Children {
		n += c.Count()
	}
	return n
}
