package lifecycle_test

import (
	"testing"

	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"github.com/vango-dev/lifecycle/pkg/vtest"
)

type hostComp struct{}

func (hostComp) View(ctx *lifecycle.Context[*vdom.VNode, struct{}]) (*vdom.VNode, error) {
	return ctx.Props(), nil
}

// host renders the tree it is given.
var host = lifecycle.Define("Host", func(*lifecycle.Context[*vdom.VNode, struct{}]) lifecycle.Component[*vdom.VNode, struct{}] {
	return hostComp{}
})

type waitProps struct {
	rec *vtest.Recorder
	s   *lifecycle.Suspension
}

type waiter struct{}

func (w *waiter) View(ctx *lifecycle.Context[waitProps, struct{}]) (*vdom.VNode, error) {
	p := ctx.Props()
	if !p.s.Resumed() {
		p.rec.Record("suspend")
		return nil, lifecycle.Suspend(p.s)
	}
	p.rec.Record("view")
	return vdom.P("ready"), nil
}

func (w *waiter) Rendered(ctx *lifecycle.Context[waitProps, struct{}], first bool) {
	ctx.Props().rec.Recordf("rendered(%t)", first)
}

var waiterDef = lifecycle.Define("Waiter", func(*lifecycle.Context[waitProps, struct{}]) lifecycle.Component[waitProps, struct{}] {
	return &waiter{}
})

func TestSuspenseShowsFallback(t *testing.T) {
	rec := vtest.NewRecorder()
	s, handle := lifecycle.NewSuspension()

	h := vtest.New()
	vtest.Mount(h, host, lifecycle.SuspenseNode(
		vdom.P("loading"),
		waiterDef.Node(waitProps{rec: rec, s: s}),
	))

	vtest.ExpectHTML(t, h, `<div class="vango-suspense" hidden=""></div><p>loading</p>`)
	rec.Expect(t, "suspend")

	handle.Resume()
	vtest.ExpectHTML(t, h, `<div class="vango-suspense"><p>ready</p></div>`)
	rec.Expect(t, "suspend", "view", "rendered(true)")

	// Resuming again has no effect.
	handle.Resume()
	rec.Expect(t, "suspend", "view", "rendered(true)")
}

func TestSuspendWithoutBoundaryPanics(t *testing.T) {
	s, _ := lifecycle.NewSuspension()
	h := vtest.New()
	vtest.ExpectPanicCode(t, "E201", func() {
		vtest.Mount(h, waiterDef, waitProps{rec: vtest.NewRecorder(), s: s})
	})
}

type resolvedFirst struct {
	rec   *vtest.Recorder
	calls int
}

func (r *resolvedFirst) View(*lifecycle.Context[struct{}, struct{}]) (*vdom.VNode, error) {
	r.calls++
	r.rec.Recordf("view(%d)", r.calls)
	if r.calls == 1 {
		s, h := lifecycle.NewSuspension()
		h.Resume()
		return nil, lifecycle.Suspend(s)
	}
	return vdom.Text("done"), nil
}

func (r *resolvedFirst) Rendered(_ *lifecycle.Context[struct{}, struct{}], first bool) {
	r.rec.Recordf("rendered(%t)", first)
}

func TestSuspendOnResolvedRendersAgain(t *testing.T) {
	rec := vtest.NewRecorder()
	def := lifecycle.Define("ResolvedFirst", func(*lifecycle.Context[struct{}, struct{}]) lifecycle.Component[struct{}, struct{}] {
		return &resolvedFirst{rec: rec}
	})

	h := vtest.New()
	vtest.Mount(h, def, struct{}{})

	rec.Expect(t, "view(1)", "view(2)", "rendered(true)")
	vtest.ExpectHTML(t, h, "done")
}

type flakyProps struct {
	rec  *vtest.Recorder
	s    *lifecycle.Suspension
	link **lifecycle.Scope[flakyProps, struct{}]
}

// flaky suspends on its second update. The first update's view sends the
// message causing it, so the pending rendered hook runs while suspended.
type flaky struct {
	n int
}

func (f *flaky) Update(*lifecycle.Context[flakyProps, struct{}], struct{}) bool {
	f.n++
	return true
}

func (f *flaky) View(ctx *lifecycle.Context[flakyProps, struct{}]) (*vdom.VNode, error) {
	p := ctx.Props()
	if f.n == 1 {
		ctx.Link().SendMessage(struct{}{})
	}
	if f.n >= 2 && !p.s.Resumed() {
		p.rec.Record("suspend")
		return nil, lifecycle.Suspend(p.s)
	}
	return vdom.Textf("n=%d", f.n), nil
}

func (f *flaky) Rendered(ctx *lifecycle.Context[flakyProps, struct{}], first bool) {
	ctx.Props().rec.Recordf("rendered(%t)", first)
}

var flakyDef = lifecycle.Define("Flaky", func(ctx *lifecycle.Context[flakyProps, struct{}]) lifecycle.Component[flakyProps, struct{}] {
	*ctx.Props().link = ctx.Link()
	return &flaky{}
})

func TestRenderedSkippedWhileSuspended(t *testing.T) {
	rec := vtest.NewRecorder()
	s, handle := lifecycle.NewSuspension()

	var scope *lifecycle.Scope[flakyProps, struct{}]

	h := vtest.New()
	vtest.Mount(h, host, lifecycle.SuspenseNode(
		vdom.Text("wait"),
		flakyDef.Node(flakyProps{rec: rec, s: s, link: &scope}),
	))
	rec.Expect(t, "rendered(true)")
	vtest.ExpectHTML(t, h, `<div class="vango-suspense">n=0</div>`)

	if scope.FindBoundary() == nil {
		t.Fatal("Flaky should find the enclosing boundary")
	}
	scope.SendMessage(struct{}{})
	rec.Expect(t, "rendered(true)", "suspend")
	vtest.ExpectHTML(t, h, `<div class="vango-suspense" hidden="">n=1</div>wait`)

	handle.Resume()
	rec.Expect(t, "rendered(true)", "suspend", "rendered(false)")
	vtest.ExpectHTML(t, h, `<div class="vango-suspense">n=2</div>`)
}

type toggleProps struct {
	rec  *vtest.Recorder
	s    *lifecycle.Suspension
	link **lifecycle.Scope[toggleProps, bool]
}

// toggle shows a waiter inside a boundary until it is told to hide it.
type toggle struct {
	show bool
}

func (t *toggle) Update(_ *lifecycle.Context[toggleProps, bool], show bool) bool {
	t.show = show
	return true
}

func (t *toggle) View(ctx *lifecycle.Context[toggleProps, bool]) (*vdom.VNode, error) {
	p := ctx.Props()
	child := vdom.Text("gone")
	if t.show {
		child = waiterDef.Node(waitProps{rec: p.rec, s: p.s})
	}
	return lifecycle.SuspenseNode(vdom.P("loading"), child), nil
}

var toggleDef = lifecycle.Define("Toggle", func(ctx *lifecycle.Context[toggleProps, bool]) lifecycle.Component[toggleProps, bool] {
	*ctx.Props().link = ctx.Link()
	return &toggle{show: true}
})

func TestDestroyReleasesSuspension(t *testing.T) {
	rec := vtest.NewRecorder()
	s, handle := lifecycle.NewSuspension()
	var scope *lifecycle.Scope[toggleProps, bool]

	h := vtest.New()
	vtest.Mount(h, toggleDef, toggleProps{rec: rec, s: s, link: &scope})
	vtest.ExpectHTML(t, h, `<div class="vango-suspense" hidden=""></div><p>loading</p>`)
	rec.Expect(t, "suspend")

	scope.SendMessage(false)
	vtest.ExpectHTML(t, h, `<div class="vango-suspense">gone</div>`)

	// The destroyed waiter ignores its suspension resolving.
	handle.Resume()
	vtest.ExpectHTML(t, h, `<div class="vango-suspense">gone</div>`)
	rec.Expect(t, "suspend")
}

type twoStepProps struct {
	rec    *vtest.Recorder
	s1, s2 *lifecycle.Suspension
	link   **lifecycle.Scope[twoStepProps, struct{}]
}

// twoStep suspends on s1, and on s2 after its first update.
type twoStep struct {
	n int
}

func (c *twoStep) Update(*lifecycle.Context[twoStepProps, struct{}], struct{}) bool {
	c.n++
	return true
}

func (c *twoStep) View(ctx *lifecycle.Context[twoStepProps, struct{}]) (*vdom.VNode, error) {
	p := ctx.Props()
	if c.n == 0 && !p.s1.Resumed() {
		p.rec.Record("suspend(s1)")
		return nil, lifecycle.Suspend(p.s1)
	}
	if c.n > 0 && !p.s2.Resumed() {
		p.rec.Record("suspend(s2)")
		return nil, lifecycle.Suspend(p.s2)
	}
	p.rec.Record("view")
	return vdom.Text("ready"), nil
}

func (c *twoStep) Rendered(ctx *lifecycle.Context[twoStepProps, struct{}], first bool) {
	ctx.Props().rec.Recordf("rendered(%t)", first)
}

var twoStepDef = lifecycle.Define("TwoStep", func(ctx *lifecycle.Context[twoStepProps, struct{}]) lifecycle.Component[twoStepProps, struct{}] {
	*ctx.Props().link = ctx.Link()
	return &twoStep{}
})

type pendingCounter interface {
	Pending() int
}

func TestSuspendReplacesTrackedSuspension(t *testing.T) {
	rec := vtest.NewRecorder()
	s1, h1 := lifecycle.NewSuspension()
	s2, h2 := lifecycle.NewSuspension()
	var scope *lifecycle.Scope[twoStepProps, struct{}]

	h := vtest.New()
	vtest.Mount(h, host, lifecycle.SuspenseNode(
		vdom.Text("wait"),
		twoStepDef.Node(twoStepProps{rec: rec, s1: s1, s2: s2, link: &scope}),
	))
	rec.Expect(t, "suspend(s1)")

	boundary, ok := lifecycle.ComponentOf[pendingCounter](scope.FindBoundary().Any())
	if !ok {
		t.Fatal("boundary component not found")
	}
	if n := boundary.Pending(); n != 1 {
		t.Fatalf("Pending() = %d after the first suspension, want 1", n)
	}

	scope.SendMessage(struct{}{})
	rec.Expect(t, "suspend(s1)", "suspend(s2)")
	if n := boundary.Pending(); n != 1 {
		t.Errorf("Pending() = %d after switching suspensions, want 1", n)
	}
	vtest.ExpectHTML(t, h, `<div class="vango-suspense" hidden=""></div>wait`)

	h2.Resume()
	rec.Expect(t, "suspend(s1)", "suspend(s2)", "view", "rendered(true)")
	if n := boundary.Pending(); n != 0 {
		t.Errorf("Pending() = %d after s2 resumed, want 0", n)
	}
	vtest.ExpectHTML(t, h, `<div class="vango-suspense">ready</div>`)

	// s1 was released when s2 replaced it; resolving it renders nothing.
	h1.Resume()
	rec.Expect(t, "suspend(s1)", "suspend(s2)", "view", "rendered(true)")
}
