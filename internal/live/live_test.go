package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/lifecycle/pkg/bundle"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vdom"
	"golang.org/x/net/html"
)

type counter struct {
	n int
}

type counterCtx = lifecycle.Context[struct{}, struct{}]

func (c *counter) Update(*counterCtx, struct{}) bool {
	c.n++
	return true
}

func (c *counter) View(ctx *counterCtx) (*vdom.VNode, error) {
	return vdom.Div(
		vdom.Span(vdom.ID("n"), vdom.Textf("%d", c.n)),
		vdom.Button(vdom.ID("inc"), vdom.OnClick(ctx.Link().Callback(func() struct{} { return struct{}{} })), "+"),
		vdom.Button(vdom.ID("boom"), vdom.OnClick(func() { panic("boom") })),
	), nil
}

var counterDef = lifecycle.Define("Counter", func(*counterCtx) lifecycle.Component[struct{}, struct{}] {
	return &counter{}
})

func mountCounter(sched *scheduler.Scheduler, root *html.Node) *lifecycle.AnyScope {
	return bundle.Mount(sched, counterDef, root, struct{}{}).Any()
}

func dial(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func expectCount(t *testing.T, msg Message, n string) {
	t.Helper()
	if msg.Type != MessageHTML || !strings.Contains(msg.HTML, `<span id="n">`+n+`</span>`) {
		t.Fatalf("message = %+v, want count %s", msg, n)
	}
}

func TestSessionStreamsUpdates(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := NewServer(mountCounter, Options{MessagesPerSecond: 1000, Burst: 100, Registerer: reg})
	conn := dial(t, srv)

	expectCount(t, read(t, conn), "0")

	if err := conn.WriteJSON(Event{Event: "onclick", ID: "inc"}); err != nil {
		t.Fatal(err)
	}
	expectCount(t, read(t, conn), "1")

	// Events without a handler change nothing and send nothing.
	conn.WriteJSON(Event{Event: "onclick", ID: "missing"})
	conn.WriteJSON(Event{Event: "onclick", ID: "inc"})
	expectCount(t, read(t, conn), "2")

	if got := testutil.ToFloat64(srv.eventsTotal.WithLabelValues("handled")); got != 2 {
		t.Errorf("handled events = %v, want 2", got)
	}
	if got := testutil.ToFloat64(srv.eventsTotal.WithLabelValues("ignored")); got != 1 {
		t.Errorf("ignored events = %v, want 1", got)
	}
	if srv.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", srv.SessionCount())
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not closed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSessionRateLimit(t *testing.T) {
	srv := NewServer(mountCounter, Options{MessagesPerSecond: 0, Burst: 1})
	conn := dial(t, srv)
	expectCount(t, read(t, conn), "0")

	conn.WriteJSON(Event{Event: "onclick", ID: "inc"})
	expectCount(t, read(t, conn), "1")

	conn.WriteJSON(Event{Event: "onclick", ID: "inc"})
	if msg := read(t, conn); msg.Type != MessageError || msg.Error != "rate limit exceeded" {
		t.Errorf("message = %+v, want rate limit error", msg)
	}
}

func TestSessionClosesOnPanic(t *testing.T) {
	srv := NewServer(mountCounter, Options{MessagesPerSecond: 1000, Burst: 100})
	conn := dial(t, srv)
	expectCount(t, read(t, conn), "0")

	conn.WriteJSON(Event{Event: "onclick", ID: "boom"})
	msg := read(t, conn)
	if msg.Type != MessageError || !strings.Contains(msg.Error, "boom") {
		t.Fatalf("message = %+v, want error", msg)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection should be closed after a component panic")
	}
}

type fragile struct {
	loading *lifecycle.Suspension
}

type fragileCtx = lifecycle.Context[struct{}, struct{}]

func (f *fragile) View(*fragileCtx) (*vdom.VNode, error) {
	if !f.loading.Resumed() {
		return nil, lifecycle.Suspend(f.loading)
	}
	panic("boom after resume")
}

var fragileDef = lifecycle.Define("Fragile", func(*fragileCtx) lifecycle.Component[struct{}, struct{}] {
	return &fragile{loading: lifecycle.SuspendFunc(func() { time.Sleep(20 * time.Millisecond) })}
})

type shell struct{}

func (shell) View(*fragileCtx) (*vdom.VNode, error) {
	return lifecycle.SuspenseNode(vdom.P("loading"), fragileDef.Node(struct{}{})), nil
}

var shellDef = lifecycle.Define("Shell", func(*fragileCtx) lifecycle.Component[struct{}, struct{}] {
	return shell{}
})

func TestSessionClosesOnPanicAfterResume(t *testing.T) {
	srv := NewServer(func(sched *scheduler.Scheduler, root *html.Node) *lifecycle.AnyScope {
		return bundle.Mount(sched, shellDef, root, struct{}{}).Any()
	}, Options{MessagesPerSecond: 1000, Burst: 100})
	conn := dial(t, srv)

	if msg := read(t, conn); msg.Type != MessageHTML || !strings.Contains(msg.HTML, "<p>loading</p>") {
		t.Fatalf("first message = %+v, want the fallback", msg)
	}

	msg := read(t, conn)
	if msg.Type != MessageError || !strings.Contains(msg.Error, "boom after resume") {
		t.Fatalf("message = %+v, want error", msg)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection should be closed after a component panic")
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not closed")
		}
		time.Sleep(time.Millisecond)
	}
}
