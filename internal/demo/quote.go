package demo

import (
	"time"

	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// QuoteText is the quote loaded by Quote.
const QuoteText = "Simplicity is prerequisite for reliability."

// QuoteProps configures Quote.
type QuoteProps struct {
	Delay time.Duration
	Trace *Trace
}

type quote struct {
	text    string
	loading *lifecycle.Suspension
}

type quoteCtx = lifecycle.Context[QuoteProps, struct{}]

func (q *quote) View(ctx *quoteCtx) (*vdom.VNode, error) {
	if q.loading != nil && !q.loading.Resumed() {
		ctx.Props().Trace.Add("Quote suspended")
		return nil, lifecycle.Suspend(q.loading)
	}
	ctx.Props().Trace.Add("Quote view")
	return vdom.Fragment(vdom.P(vdom.Class("quote"), q.text)), nil
}

func (q *quote) Rendered(ctx *quoteCtx, first bool) {
	ctx.Props().Trace.Add("Quote rendered(%t)", first)
}

// PrepareState hands the loaded quote to hydration.
func (q *quote) PrepareState() string {
	return q.text
}

// Quote loads a quote. Hydrated instances take it from the server
// render instead of loading it again.
var Quote = lifecycle.Define("Quote", func(ctx *quoteCtx) lifecycle.Component[QuoteProps, struct{}] {
	q := &quote{}
	if prepared := ctx.PreparedState(); prepared != "" {
		ctx.Props().Trace.Add("Quote create(%s, prepared)", ctx.CreationMode())
		q.text = prepared
		return q
	}

	ctx.Props().Trace.Add("Quote create(%s)", ctx.CreationMode())
	delay := ctx.Props().Delay
	q.loading = lifecycle.SuspendFunc(func() {
		time.Sleep(delay)
		q.text = QuoteText
	})
	return q
})
