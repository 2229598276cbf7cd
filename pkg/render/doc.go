// Package render provides server-side rendering of component trees.
//
// Component nodes are rendered by creating their instances in server mode
// and waiting for their first view, so a suspended component holds up the
// output until its suspension resolves. Every instance is destroyed once its
// markup is written.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{}, sched)
//	html, err := renderer.RenderToString(ctx, App.Node(AppProps{}))
//
// # Hydratable Output
//
// With Hydratable set, every component's markup is wrapped in comment
// markers naming the component:
//
//	<!--<[Counter]>--><p>1</p><!--</[Counter]>-->
//
// Components implementing lifecycle.StatePreparer get their state written
// in a script element just before the end marker. bundle.Hydrate consumes
// both.
//
// # Security
//
// All text content is escaped. Raw HTML can be inserted using KindRaw
// nodes, but should only be used with trusted content.
package render
