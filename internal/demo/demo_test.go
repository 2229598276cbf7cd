package demo_test

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/lifecycle/internal/demo"
	"github.com/vango-dev/lifecycle/pkg/bundle"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vtest"
)

func TestCounter(t *testing.T) {
	h := vtest.New()
	vtest.Mount(h, demo.Counter, demo.CounterProps{Start: 1})
	vtest.ExpectContains(t, h.HTML(), `<span class="badge odd" id="count">1</span>`)

	steps := []struct {
		id   string
		want string
	}{
		{"inc", `<span class="badge even" id="count">2</span>`},
		{"inc", `<span class="badge odd" id="count">3</span>`},
		{"dec", `<span class="badge even" id="count">2</span>`},
		{"reset", `<span class="badge odd" id="count">1</span>`},
	}
	for _, step := range steps {
		if !bundle.Dispatch(h.Root, step.id, "onclick", nil) {
			t.Fatalf("no handler for %s", step.id)
		}
		vtest.ExpectContains(t, h.HTML(), step.want)
	}
}

func TestServerRenderWaitsForQuote(t *testing.T) {
	props := demo.AppProps{Title: "Demo", QuoteDelay: 5 * time.Millisecond}
	out := vtest.RenderToString(t, demo.App.Node(props), false)

	vtest.ExpectContains(t, out, `<h1>Demo</h1>`)
	vtest.ExpectContains(t, out, `<p class="quote">`+demo.QuoteText+`</p>`)
	if strings.Contains(out, "Loading") {
		t.Errorf("server output shows the fallback:\n%s", out)
	}
}

func TestLiveQuoteSuspends(t *testing.T) {
	snapshots := make(chan string, 64)
	var h *vtest.Harness
	h = vtest.New(scheduler.WithIdle(func() {
		select {
		case snapshots <- h.HTML():
		default:
		}
	}))

	vtest.Mount(h, demo.App, demo.AppProps{Title: "Demo", QuoteDelay: 20 * time.Millisecond})

	first := <-snapshots
	vtest.ExpectContains(t, first, `<div class="vango-suspense" hidden="">`)
	vtest.ExpectContains(t, first, "Loading quote...")

	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap := <-snapshots:
			if strings.Contains(snap, demo.QuoteText) {
				if strings.Contains(snap, "Loading") || strings.Contains(snap, "hidden") {
					t.Errorf("fallback still shown:\n%s", snap)
				}
				return
			}
		case <-timeout:
			t.Fatal("quote never shown")
		}
	}
}

func TestHydrateDemo(t *testing.T) {
	props := demo.AppProps{Title: "Demo", Start: 4, QuoteDelay: time.Millisecond}
	markup := vtest.RenderToString(t, demo.App.Node(props), true)
	plain := vtest.RenderToString(t, demo.App.Node(props), false)

	trace := &demo.Trace{}
	props.Trace = trace
	h := vtest.New()
	vtest.Hydrate(t, h, demo.App, markup, props)

	vtest.ExpectHTML(t, h, plain)

	events := trace.Events()
	if !slices.Contains(events, "Quote create(hydration, prepared)") {
		t.Errorf("quote should hydrate from prepared state; events = %v", events)
	}
	if slices.Contains(events, "Quote suspended") {
		t.Errorf("hydrated quote should not suspend; events = %v", events)
	}

	bundle.Dispatch(h.Root, "inc", "onclick", nil)
	vtest.ExpectContains(t, h.HTML(), `<span class="badge odd" id="count">5</span>`)
}

func TestTraceNil(t *testing.T) {
	var tr *demo.Trace
	tr.Add("ignored %d", 1)
	if tr.Events() != nil {
		t.Error("nil trace should have no events")
	}
}
