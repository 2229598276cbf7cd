// Package lifecycle drives a single component instance from creation to
// teardown.
//
// A component is a value implementing Component. It is registered once with
// Define and placed in view trees through Definition.Node:
//
//	var Counter = lifecycle.Define("Counter", func(ctx *lifecycle.Context[CounterProps, int]) lifecycle.Component[CounterProps, int] {
//	    return &counter{}
//	})
//
//	vdom.Div(Counter.Node(CounterProps{Start: 1}))
//
// The optional Update, Changed, Rendered and Destroy hooks are picked up by
// interface assertion (see Updater, Changer, RenderedNotifier and
// Destroyer).
//
// # Units of work
//
// Every instance owns a state cell shared by its Scope and by every queued
// unit that targets it. Units (create, update, props update, render,
// rendered, destroy) run on the scheduler one at a time. A unit borrows the
// cell for its duration and queues follow-up units instead of calling them.
// Once an instance is destroyed the cell is empty and later units return
// without doing anything.
//
// # Render modes
//
// An instance is created in one of three modes:
//
//   - ModeRender reconciles views into a live DOM through a RenderTarget.
//   - ModeHydration adopts pre-rendered markup through a Fragment and moves
//     to ModeRender on its first successful render.
//   - ModeServer delivers its first view once, for string rendering.
//
// # Suspension
//
// A view that cannot complete returns Suspend(s). The nearest Suspense
// boundary shows its fallback until the suspension resolves, at which point
// the component renders again. Suspending with no boundary among the
// ancestors panics with E201.
package lifecycle
