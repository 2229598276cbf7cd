package scheduler

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type trace struct {
	mu     sync.Mutex
	events []string
}

func (tr *trace) unit(name string) Runnable {
	return RunnableFunc(func() {
		tr.mu.Lock()
		tr.events = append(tr.events, name)
		tr.mu.Unlock()
	})
}

func (tr *trace) get() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.events...)
}

func TestLaneOrder(t *testing.T) {
	s := New()
	tr := &trace{}

	s.PushRendered(1, tr.unit("rendered-1"), false)
	s.PushRender(2, tr.unit("render-2"))
	s.PushRender(1, tr.unit("render-1"))
	s.PushPriorityRender(3, tr.unit("priority-3"))
	s.PushUpdate(tr.unit("update"))
	s.PushPropsUpdate(tr.unit("props"))
	s.PushRendered(1, tr.unit("rendered-first-1"), true)
	s.PushRendered(2, tr.unit("rendered-first-2"), true)
	s.PushCreate(tr.unit("create"), tr.unit("first-render"))
	s.PushDestroy(tr.unit("destroy"))

	s.Wake()

	want := []string{
		"destroy", "create",
		"first-render",
		"rendered-first-2", "rendered-first-1",
		"props",
		"update",
		"priority-3",
		"render-1", "render-2",
		"rendered-1",
	}
	if got := tr.get(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v\nwant    %v", got, want)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestRenderDeduplicatedPerID(t *testing.T) {
	s := New()
	tr := &trace{}

	s.PushRender(1, tr.unit("first"))
	s.PushRender(1, tr.unit("second"))
	s.PushPriorityRender(1, tr.unit("p1"))
	s.PushPriorityRender(1, tr.unit("p2"))
	s.Wake()

	want := []string{"p2", "second"}
	if got := tr.get(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestFirstRendersNotDeduplicated(t *testing.T) {
	s := New()
	tr := &trace{}

	s.PushCreate(tr.unit("c1"), tr.unit("r1"))
	s.PushCreate(tr.unit("c2"), tr.unit("r2"))
	s.Wake()

	want := []string{"c1", "c2", "r1", "r2"}
	if got := tr.get(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestCreateRunsAheadOfNewWork(t *testing.T) {
	s := New()
	tr := &trace{}

	// A unit that queues more work sees it run after the current batch,
	// with newly created components going first.
	s.PushUpdate(RunnableFunc(func() {
		tr.unit("update").Run()
		s.PushRender(5, tr.unit("render"))
		s.PushCreate(tr.unit("create"), tr.unit("first-render"))
	}))
	s.Wake()

	want := []string{"update", "create", "first-render", "render"}
	if got := tr.get(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestReentrantWakeIsNoop(t *testing.T) {
	s := New()
	tr := &trace{}

	s.PushUpdate(RunnableFunc(func() {
		s.PushUpdate(tr.unit("inner"))
		s.Wake()
		tr.unit("outer").Run()
	}))
	s.Wake()

	want := []string{"outer", "inner"}
	if got := tr.get(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestPanicReleasesRunLock(t *testing.T) {
	s := New()

	s.PushUpdate(RunnableFunc(func() { panic("boom") }))
	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		s.Wake()
	}()

	ran := false
	s.PushUpdate(RunnableFunc(func() { ran = true }))
	s.Wake()
	if !ran {
		t.Error("scheduler should run again after a panicking unit")
	}
}

func TestServe(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	ran := make(chan struct{})
	// Serve may not have started yet; Wake either signals the loop or
	// drains inline, and the unit runs either way.
	s.PushUpdate(RunnableFunc(func() { close(ran) }))
	s.Wake()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("unit did not run")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestConcurrentPushes(t *testing.T) {
	s := New()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.PushUpdate(RunnableFunc(func() {
				mu.Lock()
				count++
				mu.Unlock()
			}))
			s.Wake()
		}()
	}
	wg.Wait()
	s.RunPending()

	if count != 50 {
		t.Errorf("count = %d, want 50", count)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(WithMetrics(reg))

	s.PushUpdate(RunnableFunc(func() {}))
	s.PushUpdate(RunnableFunc(func() {}))
	s.PushRender(1, RunnableFunc(func() {}))
	s.Wake()

	if got := testutil.ToFloat64(s.metrics.unitsTotal.WithLabelValues("update")); got != 2 {
		t.Errorf("update units = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.metrics.unitsTotal.WithLabelValues("render")); got != 1 {
		t.Errorf("render units = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.pending); got != 0 {
		t.Errorf("pending = %v, want 0", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, name := range []string{
		"vango_lifecycle_units_total",
		"vango_lifecycle_unit_duration_seconds",
		"vango_lifecycle_pending_units",
	} {
		if !names[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestIdleHook(t *testing.T) {
	tr := &trace{}
	idle := 0
	var pendingAtIdle int
	var s *Scheduler
	s = New(WithIdle(func() {
		idle++
		pendingAtIdle = s.Pending()
	}))

	s.RunPending()
	if idle != 0 {
		t.Errorf("idle ran %d times for an empty drain", idle)
	}

	s.PushUpdate(RunnableFunc(func() {
		s.PushRender(1, tr.unit("render"))
		s.Wake()
	}))
	s.Wake()

	if idle != 1 {
		t.Errorf("idle ran %d times, want 1", idle)
	}
	if pendingAtIdle != 0 {
		t.Errorf("idle saw %d pending units", pendingAtIdle)
	}
	if got := tr.get(); !reflect.DeepEqual(got, []string{"render"}) {
		t.Errorf("events = %v", got)
	}
}

func TestServeRecoversPanic(t *testing.T) {
	recovered := make(chan any, 1)
	s := New(WithPanicHandler(func(r any) { recovered <- r }))
	ctx, cancel := context.WithCancel(context.Background())
	done := s.Start(ctx)

	ran := make(chan struct{})
	s.PushUpdate(RunnableFunc(func() { panic("boom") }))
	s.PushUpdate(RunnableFunc(func() { close(ran) }))
	s.Wake()

	select {
	case r := <-recovered:
		if r != "boom" {
			t.Errorf("recovered = %v, want boom", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("panic not reported")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped after a panicking unit")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestStartServesBeforeReturning(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	started := make(chan struct{})
	release := make(chan struct{})
	s.PushUpdate(RunnableFunc(func() {
		close(started)
		<-release
	}))
	// Running inline would block here forever.
	s.Wake()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("unit did not run on the loop")
	}
	close(release)
}
