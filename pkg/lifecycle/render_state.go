package lifecycle

import (
	vangoerrors "github.com/vango-dev/lifecycle/internal/errors"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// RenderTarget is the realized output of committed views.
type RenderTarget interface {
	// Reconcile updates the target to tree, placing it in front of slot
	// inside parent. It returns the position of the target's first node.
	Reconcile(scope *AnyScope, parent *html.Node, slot dom.Slot, tree *vdom.VNode) dom.Slot

	// Detach removes the target's nodes from parent. When parentToDetach
	// is set only nested instances are torn down.
	Detach(parent *html.Node, parentToDetach bool)

	// Shift moves the target's nodes in front of slot inside parent.
	Shift(parent *html.Node, slot dom.Slot) dom.Slot
}

// Fragment is pre-rendered markup being hydrated.
type Fragment interface {
	// Hydrate merges tree with the leading nodes of the fragment and
	// returns the realized target and the position of its first node.
	Hydrate(scope *AnyScope, parent *html.Node, tree *vdom.VNode) (RenderTarget, dom.Slot)

	// TrimLeadingWhitespace drops whitespace-only text nodes at the front.
	TrimLeadingWhitespace()

	// Consumed reports whether every node was adopted.
	Consumed() bool

	Detach(parent *html.Node, parentToDetach bool)
	Shift(parent *html.Node, slot dom.Slot)
}

// ErrHydrationMismatch matches, with errors.Is, the panic raised when
// pre-rendered markup does not match the first client render.
var ErrHydrationMismatch = vangoerrors.New("E045")

type renderState interface {
	mode() RenderMode
	shift(parent *html.Node, slot dom.Slot)
	setSibling(slot dom.Slot)
	detach(parentToDetach bool)
}

type liveState struct {
	target  RenderTarget
	parent  *html.Node
	sibling *dom.DynamicSlot
	own     *dom.DynamicSlot
}

func (s *liveState) mode() RenderMode { return ModeRender }

func (s *liveState) shift(parent *html.Node, slot dom.Slot) {
	s.target.Shift(parent, slot)
	s.parent = parent
	s.sibling.Reassign(slot)
}

func (s *liveState) setSibling(slot dom.Slot) {
	s.sibling.Reassign(slot)
}

func (s *liveState) detach(parentToDetach bool) {
	s.target.Detach(s.parent, parentToDetach)
}

type hydrationState struct {
	fragment Fragment
	parent   *html.Node
	sibling  *dom.DynamicSlot
	own      *dom.DynamicSlot
}

func (s *hydrationState) mode() RenderMode { return ModeHydration }

func (s *hydrationState) shift(parent *html.Node, slot dom.Slot) {
	s.fragment.Shift(parent, slot)
	s.parent = parent
	s.sibling.Reassign(slot)
}

func (s *hydrationState) setSibling(slot dom.Slot) {
	s.sibling.Reassign(slot)
}

func (s *hydrationState) detach(parentToDetach bool) {
	s.fragment.Detach(s.parent, parentToDetach)
}

// serverState delivers the first view through sender, once.
type serverState struct {
	sender chan<- *vdom.VNode
}

func (s *serverState) mode() RenderMode { return ModeServer }

func (s *serverState) shift(*html.Node, dom.Slot) {
	panic(vangoerrors.New("E202").WithDetail("shifting is not possible during server rendering"))
}

func (s *serverState) setSibling(dom.Slot) {
	panic(vangoerrors.New("E202").WithDetail("siblings do not change during server rendering"))
}

func (s *serverState) detach(bool) {}
