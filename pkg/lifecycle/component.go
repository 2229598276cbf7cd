package lifecycle

import (
	"context"

	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// RenderMode is the way an instance was created.
type RenderMode uint8

const (
	ModeRender    RenderMode = iota // Live DOM
	ModeHydration                   // Adopting pre-rendered markup
	ModeServer                      // One-shot server render
)

// String returns the string representation of the RenderMode.
func (m RenderMode) String() string {
	switch m {
	case ModeRender:
		return "render"
	case ModeHydration:
		return "hydration"
	case ModeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Component is user logic with props P and messages M.
// View returns the tree to commit, or the error returned by Suspend.
type Component[P, M any] interface {
	View(ctx *Context[P, M]) (*vdom.VNode, error)
}

// Updater handles messages. It returns true to request a render.
// Components without Update render after every message.
type Updater[P, M any] interface {
	Update(ctx *Context[P, M], msg M) bool
}

// Changer is called when props differ from the previous ones.
// It returns true to request a render. Components without Changed render
// after every props change.
type Changer[P, M any] interface {
	Changed(ctx *Context[P, M], old P) bool
}

// RenderedNotifier is called after a view was committed.
type RenderedNotifier[P, M any] interface {
	Rendered(ctx *Context[P, M], firstRender bool)
}

// Destroyer is called once when the instance is torn down.
type Destroyer[P, M any] interface {
	Destroy(ctx *Context[P, M])
}

// StatePreparer returns state to embed in hydratable server output.
// Hydration hands it back through Context.PreparedState.
type StatePreparer interface {
	PrepareState() string
}

// Factory creates a component instance.
type Factory[P, M any] func(ctx *Context[P, M]) Component[P, M]

// Definition binds a component name to its factory.
// Reconciliation reuses a mounted instance only for the same Definition.
type Definition[P, M any] struct {
	name    string
	factory Factory[P, M]
}

// Define registers a component.
func Define[P, M any](name string, factory Factory[P, M]) *Definition[P, M] {
	return &Definition[P, M]{name: name, factory: factory}
}

// Name returns the component name.
func (d *Definition[P, M]) Name() string {
	return d.name
}

// Node returns a view tree node mounting the component with props.
func (d *Definition[P, M]) Node(props P) *vdom.VNode {
	return d.KeyedNode("", props)
}

// KeyedNode is Node with a reconciliation key.
func (d *Definition[P, M]) KeyedNode(key string, props P) *vdom.VNode {
	return vdom.ComponentNode(&element[P, M]{def: d, props: props}, key)
}

// Mountable is the component reference carried by a KindComponent node.
// Render targets use it to create, reuse and render nested instances.
type Mountable interface {
	vdom.Component

	// SameDefinition reports whether other mounts the same component.
	SameDefinition(other Mountable) bool

	// Mount creates a live instance below parentScope rendering into
	// target at slot. own tracks the position of its first node.
	Mount(parentScope *AnyScope, target RenderTarget, parent *html.Node, slot dom.Slot, own *dom.DynamicSlot) *AnyScope

	// Hydrate creates an instance adopting fragment.
	Hydrate(parentScope *AnyScope, parent *html.Node, fragment Fragment, own *dom.DynamicSlot, prepared string) *AnyScope

	// Reuse hands the node's props and position to an instance mounted
	// from the same definition.
	Reuse(scope *AnyScope, slot dom.Slot)

	// RenderServer renders the component once for string output.
	// A nil parentScope makes it a root on sched.
	RenderServer(ctx context.Context, parentScope *AnyScope, sched *scheduler.Scheduler) (*ServerRendering, error)
}

type element[P, M any] struct {
	def   *Definition[P, M]
	props P
}

func (e *element[P, M]) ComponentName() string {
	return e.def.name
}

func (e *element[P, M]) SameDefinition(other Mountable) bool {
	o, ok := other.(*element[P, M])
	return ok && o.def == e.def
}

func (e *element[P, M]) Mount(parentScope *AnyScope, target RenderTarget, parent *html.Node, slot dom.Slot, own *dom.DynamicSlot) *AnyScope {
	s := newScope(e.def, parentScope, nil)
	s.MountInPlace(target, parent, slot, own, e.props)
	return s.AnyScope
}

func (e *element[P, M]) Hydrate(parentScope *AnyScope, parent *html.Node, fragment Fragment, own *dom.DynamicSlot, prepared string) *AnyScope {
	s := newScope(e.def, parentScope, nil)
	s.HydrateInPlace(parent, fragment, own, e.props, prepared)
	return s.AnyScope
}

func (e *element[P, M]) Reuse(scope *AnyScope, slot dom.Slot) {
	if s, ok := scope.typed.(*Scope[P, M]); ok {
		s.Reuse(e.props, slot)
	}
}

func (e *element[P, M]) RenderServer(ctx context.Context, parentScope *AnyScope, sched *scheduler.Scheduler) (*ServerRendering, error) {
	return newScope(e.def, parentScope, sched).RenderServer(ctx, e.props)
}
