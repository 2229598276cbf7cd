package demo

import (
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// CounterMsg changes the count.
type CounterMsg int

const (
	Increment CounterMsg = iota
	Decrement
	Reset
)

// CounterProps configures Counter.
type CounterProps struct {
	Start int
	Trace *Trace
}

type counter struct {
	count int
}

type counterCtx = lifecycle.Context[CounterProps, CounterMsg]

func (c *counter) Update(ctx *counterCtx, msg CounterMsg) bool {
	before := c.count
	switch msg {
	case Increment:
		c.count++
	case Decrement:
		c.count--
	case Reset:
		c.count = ctx.Props().Start
	}
	ctx.Props().Trace.Add("Counter update(%d -> %d)", before, c.count)
	return c.count != before
}

func (c *counter) Changed(ctx *counterCtx, old CounterProps) bool {
	if ctx.Props().Start == old.Start {
		return false
	}
	c.count = ctx.Props().Start
	return true
}

func (c *counter) View(ctx *counterCtx) (*vdom.VNode, error) {
	link := ctx.Link()
	send := func(msg CounterMsg) func() {
		return link.Callback(func() CounterMsg { return msg })
	}
	ctx.Props().Trace.Add("Counter view(%d)", c.count)

	return vdom.Section(vdom.Class("counter"),
		vdom.Button(vdom.ID("dec"), vdom.OnClick(send(Decrement)), "-"),
		Badge.Node(BadgeProps{Count: c.count, Trace: ctx.Props().Trace}),
		vdom.Button(vdom.ID("inc"), vdom.OnClick(send(Increment)), "+"),
		vdom.Button(vdom.ID("reset"), vdom.OnClick(send(Reset)), "reset"),
	), nil
}

func (c *counter) Rendered(ctx *counterCtx, first bool) {
	ctx.Props().Trace.Add("Counter rendered(%t)", first)
}

func (c *counter) Destroy(ctx *counterCtx) {
	ctx.Props().Trace.Add("Counter destroy")
}

// Counter is a count with buttons changing it.
var Counter = lifecycle.Define("Counter", func(ctx *counterCtx) lifecycle.Component[CounterProps, CounterMsg] {
	ctx.Props().Trace.Add("Counter create(%s)", ctx.CreationMode())
	return &counter{count: ctx.Props().Start}
})

// BadgeProps configures Badge.
type BadgeProps struct {
	Count int
	Trace *Trace
}

type badge struct{}

type badgeCtx = lifecycle.Context[BadgeProps, struct{}]

func (badge) View(ctx *badgeCtx) (*vdom.VNode, error) {
	n := ctx.Props().Count
	ctx.Props().Trace.Add("Badge view(%d)", n)
	parity := "even"
	if n%2 != 0 {
		parity = "odd"
	}
	return vdom.Span(vdom.ID("count"), vdom.Class("badge", parity), vdom.Textf("%d", n)), nil
}

func (badge) Rendered(ctx *badgeCtx, first bool) {
	ctx.Props().Trace.Add("Badge rendered(%t)", first)
}

// Badge shows a count.
var Badge = lifecycle.Define("Badge", func(*badgeCtx) lifecycle.Component[BadgeProps, struct{}] {
	return badge{}
})
