package lifecycle

import (
	"slices"

	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// SuspenseProps configures a Suspense boundary.
type SuspenseProps struct {
	Fallback *vdom.VNode
	Children []*vdom.VNode
}

// SuspenseMsg is sent to a boundary by suspending descendants.
type SuspenseMsg struct {
	suspension *Suspension
	resume     bool
}

// SuspenseClass is the class of the element wrapping a boundary's children.
const SuspenseClass = "vango-suspense"

// Suspense is the boundary component. While any descendant is suspended
// the children are hidden and the fallback is shown after them. Children
// stay mounted while hidden.
var Suspense = Define("Suspense", func(*Context[SuspenseProps, SuspenseMsg]) Component[SuspenseProps, SuspenseMsg] {
	return &suspense{}
})

// SuspenseNode places a boundary around children.
func SuspenseNode(fallback *vdom.VNode, children ...*vdom.VNode) *vdom.VNode {
	return Suspense.Node(SuspenseProps{Fallback: fallback, Children: children})
}

type suspense struct {
	pending []*Suspension
}

func (b *suspense) Update(ctx *Context[SuspenseProps, SuspenseMsg], msg SuspenseMsg) bool {
	i := slices.Index(b.pending, msg.suspension)
	if msg.resume {
		if i < 0 {
			return false
		}
		b.pending = slices.Delete(b.pending, i, i+1)
		return true
	}
	if i >= 0 || msg.suspension.Resumed() {
		return false
	}
	b.pending = append(b.pending, msg.suspension)
	return true
}

func (b *suspense) View(ctx *Context[SuspenseProps, SuspenseMsg]) (*vdom.VNode, error) {
	props := ctx.Props()
	// Server output never shows the fallback; the renderer waits for
	// suspended children instead.
	pending := len(b.pending) > 0 && ctx.CreationMode() != ModeServer

	return vdom.Fragment(
		vdom.Div(vdom.Class(SuspenseClass), vdom.HiddenIf(pending), props.Children),
		vdom.If(pending, props.Fallback),
	), nil
}

// Pending returns the number of suspensions the boundary waits on.
func (b *suspense) Pending() int {
	return len(b.pending)
}

func suspendAt(boundary *Scope[SuspenseProps, SuspenseMsg], s *Suspension) {
	boundary.SendMessage(SuspenseMsg{suspension: s})
}

func resumeAt(boundary *Scope[SuspenseProps, SuspenseMsg], s *Suspension) {
	boundary.SendMessage(SuspenseMsg{suspension: s, resume: true})
}
