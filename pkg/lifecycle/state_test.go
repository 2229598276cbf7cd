package lifecycle

import (
	"testing"

	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

type counter struct {
	seen    []int
	changes int
	accept  func(int) bool
}

func (c *counter) View(*Context[int, int]) (*vdom.VNode, error) { return nil, nil }

func (c *counter) Update(_ *Context[int, int], msg int) bool {
	c.seen = append(c.seen, msg)
	return c.accept(msg)
}

func (c *counter) Changed(*Context[int, int], int) bool {
	c.changes++
	return c.changes%2 == 1
}

func newCounterState(props int, accept func(int) bool) (*compState[int, int], *counter) {
	c := &counter{accept: accept}
	def := Define("Counter", func(*Context[int, int]) Component[int, int] { return c })
	s := newScope(def, nil, scheduler.New())
	return &compState[int, int]{comp: c, ctx: &Context[int, int]{scope: s, props: props}}, c
}

func TestFlushMessages(t *testing.T) {
	even := func(m int) bool { return m%2 == 0 }
	tests := []struct {
		name string
		msgs []int
		want bool
	}{
		{"none", nil, false},
		{"all rejected", []int{1, 3}, false},
		{"first accepted", []int{2, 1, 3}, true},
		{"last accepted", []int{1, 3, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, c := newCounterState(0, even)
			st.ctx.scope.messages = tt.msgs
			if got := st.flushMessages(); got != tt.want {
				t.Errorf("flushMessages() = %v, want %v", got, tt.want)
			}
			if len(c.seen) != len(tt.msgs) {
				t.Errorf("Update saw %v, want every message of %v", c.seen, tt.msgs)
			}
			if len(st.ctx.scope.messages) != 0 {
				t.Error("messages should be drained")
			}
		})
	}
}

func TestFlushMessagesWithoutUpdater(t *testing.T) {
	def := Define("Plain", func(*Context[int, string]) Component[int, string] { return nil })
	s := newScope(def, nil, scheduler.New())
	st := &compState[int, string]{comp: plain{}, ctx: &Context[int, string]{scope: s}}

	if st.flushMessages() {
		t.Error("no messages should not render")
	}
	s.messages = []string{"x"}
	if !st.flushMessages() {
		t.Error("a message without Update should render")
	}
}

type plain struct{}

func (plain) View(*Context[int, string]) (*vdom.VNode, error) { return nil, nil }

func TestPropsChanged(t *testing.T) {
	st, c := newCounterState(1, nil)

	if st.propsChanged("wrong type") {
		t.Error("props of another type should be ignored")
	}
	if st.propsChanged(1) {
		t.Error("equal props should not render")
	}
	if c.changes != 0 {
		t.Errorf("Changed called %d times for unchanged props", c.changes)
	}

	if !st.propsChanged(2) {
		t.Error("first change should render")
	}
	if st.ctx.Props() != 2 {
		t.Errorf("Props() = %d, want 2", st.ctx.Props())
	}
	if st.propsChanged(3) {
		t.Error("Changed returned false; no render expected")
	}
	if c.changes != 2 {
		t.Errorf("Changed called %d times, want 2", c.changes)
	}
}

type versioned struct {
	v    int
	note string
}

func (a versioned) Equal(b versioned) bool { return a.v == b.v }

func TestPropsEqual(t *testing.T) {
	if !propsEqual(versioned{1, "a"}, versioned{1, "b"}) {
		t.Error("Equal method should decide equality")
	}
	if propsEqual([]int{1}, []int{2}) {
		t.Error("different slices should differ")
	}
	if !propsEqual(map[string]int{"a": 1}, map[string]int{"a": 1}) {
		t.Error("equal maps should be equal")
	}
}

func TestCellBorrow(t *testing.T) {
	c := &stateCell{id: 1, name: "Cell"}
	release := c.borrow()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("second borrow should panic")
			}
		}()
		c.borrow()
	}()

	release()
	c.borrow()()
}

func TestReadersWhileBorrowed(t *testing.T) {
	def := Define("Plain", func(*Context[int, string]) Component[int, string] { return plain{} })
	s := newScope(def, nil, nil)
	rendering := &ServerRendering{scope: s.AnyScope}

	release := s.cell.borrow()
	if _, ok := ComponentOf[plain](s.AnyScope); ok {
		t.Error("ComponentOf should report false while the cell is borrowed")
	}
	if got := rendering.PreparedState(); got != "" {
		t.Errorf("PreparedState() = %q while borrowed, want empty", got)
	}
	release()

	if _, ok := s.cell.tryBorrow(); !ok {
		t.Error("tryBorrow should succeed once the cell is released")
	}
}

func TestScopeIDsIncrease(t *testing.T) {
	def := Define("Plain", func(*Context[int, string]) Component[int, string] { return plain{} })
	a := newScope(def, nil, nil)
	b := newScope(def, a.AnyScope, nil)

	if b.ID() <= a.ID() {
		t.Errorf("child id %d should exceed parent id %d", b.ID(), a.ID())
	}
	if b.Scheduler() != a.Scheduler() {
		t.Error("child should inherit the parent scheduler")
	}
	if b.Parent() != a.AnyScope || a.Parent() != nil {
		t.Error("unexpected parent links")
	}
	if FindScope[int, string](b.AnyScope) != b {
		t.Error("FindScope should start at the scope itself")
	}
	if b.FindBoundary() != nil {
		t.Error("no boundary expected")
	}
}
