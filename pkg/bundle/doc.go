// Package bundle realizes view trees in the in-memory DOM.
//
// A Bundle is the lifecycle.RenderTarget of a live component: it keeps the
// DOM nodes created for the last committed view and patches them in place
// when a new view is reconciled. Children are matched by position, or by
// key when every child in a list carries one. Nested component nodes are
// mounted as their own instances and reused while their definition and
// key stay the same.
//
// A Fragment is the lifecycle.Fragment of a hydrating component: the
// pre-rendered nodes between the component's markers, adopted node by node
// by its first render.
//
//	parent := dom.NewElement("body")
//	scope := bundle.Mount(sched, App, parent, AppProps{})
//
// Element props named like events ("onclick") are not rendered. They are
// kept per node and invoked through Dispatch.
package bundle
