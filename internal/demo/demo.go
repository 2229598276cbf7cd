package demo

import (
	"time"

	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// AppProps configures the demo tree.
type AppProps struct {
	Title string
	Start int

	// QuoteDelay is how long loading the quote takes.
	QuoteDelay time.Duration

	Trace *Trace
}

type app struct{}

type appCtx = lifecycle.Context[AppProps, struct{}]

func (app) View(ctx *appCtx) (*vdom.VNode, error) {
	p := ctx.Props()
	p.Trace.Add("App view")
	return vdom.Div(vdom.ID("app"),
		vdom.H1(p.Title),
		Counter.Node(CounterProps{Start: p.Start, Trace: p.Trace}),
		lifecycle.SuspenseNode(
			vdom.P(vdom.Class("loading"), "Loading quote..."),
			Quote.Node(QuoteProps{Delay: p.QuoteDelay, Trace: p.Trace}),
		),
	), nil
}

func (app) Rendered(ctx *appCtx, first bool) {
	ctx.Props().Trace.Add("App rendered(%t)", first)
}

// App is the root of the demo tree.
var App = lifecycle.Define("App", func(*appCtx) lifecycle.Component[AppProps, struct{}] {
	return app{}
})
