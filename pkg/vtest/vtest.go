package vtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/lifecycle/pkg/bundle"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/render"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

// Harness is a container element and the scheduler running the instances
// mounted into it.
type Harness struct {
	Sched *scheduler.Scheduler
	Root  *html.Node
}

// New returns a Harness with an empty <div> root.
func New(opts ...scheduler.Option) *Harness {
	return &Harness{
		Sched: scheduler.New(opts...),
		Root:  dom.NewElement("div"),
	}
}

// Mount mounts def as a live root instance.
func Mount[P, M any](h *Harness, def *lifecycle.Definition[P, M], props P) *lifecycle.Scope[P, M] {
	return bundle.Mount(h.Sched, def, h.Root, props)
}

// Hydrate loads markup into the root and hydrates def from it.
func Hydrate[P, M any](t testing.TB, h *Harness, def *lifecycle.Definition[P, M], markup string, props P) *lifecycle.Scope[P, M] {
	t.Helper()
	container, err := dom.ParseFragment(markup, "div")
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	for _, n := range dom.Children(container) {
		container.RemoveChild(n)
		h.Root.AppendChild(n)
	}

	scope, err := bundle.Hydrate(h.Sched, def, h.Root, props)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return scope
}

// HTML returns the markup inside the root.
func (h *Harness) HTML() string {
	return dom.InnerHTML(h.Root)
}

// Flush runs queued units.
func (h *Harness) Flush() {
	h.Sched.RunPending()
}

// RenderToString server renders node. Hydratable output carries component
// markers.
func RenderToString(t testing.TB, node *vdom.VNode, hydratable bool) string {
	t.Helper()
	r := render.NewRenderer(render.RendererConfig{Hydratable: hydratable}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := r.RenderToString(ctx, node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

// ExpectHTML asserts the root markup.
func ExpectHTML(t testing.TB, h *Harness, want string) {
	t.Helper()
	if got := h.HTML(); got != want {
		t.Errorf("html = %s\nwant   %s", got, want)
	}
}

// ExpectContains asserts that s contains expected.
func ExpectContains(t testing.TB, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, truncate(s, 500))
	}
}

// WaitFor polls cond until it holds or a second passes.
func WaitFor(t testing.TB, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

// ExpectPanicCode runs fn and asserts it panics with an error matching
// code.
func ExpectPanicCode(t testing.TB, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %s", code)
		}
		err, ok := r.(error)
		if !ok || !strings.HasPrefix(err.Error(), code+":") {
			t.Fatalf("panic = %v, want code %s", r, code)
		}
	}()
	fn()
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
