package lifecycle

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"golang.org/x/net/html"
)

var lastID atomic.Uint64

// AnyScope is the type-erased identity of a component instance.
type AnyScope struct {
	id     uint64
	name   string
	parent *AnyScope
	sched  *scheduler.Scheduler
	cell   *stateCell
	typed  any
	served atomic.Bool
}

// ID returns the instance id. Ids grow with creation order, so children
// always have higher ids than their parents.
func (s *AnyScope) ID() uint64 {
	return s.id
}

// Name returns the component name.
func (s *AnyScope) Name() string {
	return s.name
}

// Parent returns the parent scope, or nil for a root.
func (s *AnyScope) Parent() *AnyScope {
	return s.parent
}

// Scheduler returns the scheduler running the instance's units.
func (s *AnyScope) Scheduler() *scheduler.Scheduler {
	return s.sched
}

func (s *AnyScope) logger() *slog.Logger {
	return s.sched.Logger()
}

// FindBoundary returns the nearest enclosing Suspense boundary, or nil.
func (s *AnyScope) FindBoundary() *Scope[SuspenseProps, SuspenseMsg] {
	return FindScope[SuspenseProps, SuspenseMsg](s)
}

// FindScope walks from s towards the root and returns the first scope with
// props P and messages M.
func FindScope[P, M any](s *AnyScope) *Scope[P, M] {
	for cur := s; cur != nil; cur = cur.parent {
		if typed, ok := cur.typed.(*Scope[P, M]); ok {
			return typed
		}
	}
	return nil
}

// Shift moves the instance's output to slot inside parent.
func (s *AnyScope) Shift(parent *html.Node, slot dom.Slot) {
	release := s.cell.borrow()
	defer release()
	if st := s.cell.state; st != nil {
		st.renderState.shift(parent, slot)
	}
}

// Destroy queues the instance's teardown. parentToDetach reports that the
// container is being removed as a whole, so the instance's nodes are left
// in it.
func (s *AnyScope) Destroy(parentToDetach bool) {
	s.sched.PushDestroy(&destroyRunner{cell: s.cell, parentToDetach: parentToDetach})
	s.sched.Wake()
}

// ComponentOf returns the component behind s if it has type C. It reports
// false while a unit of s is running.
func ComponentOf[C any](s *AnyScope) (C, bool) {
	var zero C
	if s == nil {
		return zero, false
	}
	release, ok := s.cell.tryBorrow()
	if !ok {
		return zero, false
	}
	defer release()
	if s.cell.state == nil {
		return zero, false
	}
	c, ok := s.cell.state.inner.component().(C)
	return c, ok
}

// Scope is the typed handle of a component instance.
type Scope[P, M any] struct {
	*AnyScope

	def      *Definition[P, M]
	mu       sync.Mutex
	messages []M
}

// NewScope creates a root scope for def on sched.
func NewScope[P, M any](def *Definition[P, M], sched *scheduler.Scheduler) *Scope[P, M] {
	return newScope(def, nil, sched)
}

func newScope[P, M any](def *Definition[P, M], parent *AnyScope, sched *scheduler.Scheduler) *Scope[P, M] {
	if parent != nil && sched == nil {
		sched = parent.sched
	}
	if sched == nil {
		sched = scheduler.New()
	}

	id := lastID.Add(1)
	s := &Scope[P, M]{
		AnyScope: &AnyScope{
			id:     id,
			name:   def.name,
			parent: parent,
			sched:  sched,
			cell:   &stateCell{id: id, name: def.name},
		},
		def: def,
	}
	s.typed = s
	return s
}

// Any returns the type-erased scope.
func (s *Scope[P, M]) Any() *AnyScope {
	return s.AnyScope
}

// SendMessage queues msg and schedules an update.
func (s *Scope[P, M]) SendMessage(msg M) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.sched.PushUpdate(&updateRunner{cell: s.cell})
	s.sched.Wake()
}

// SendMessages queues msgs for a single update.
func (s *Scope[P, M]) SendMessages(msgs ...M) {
	if len(msgs) == 0 {
		return
	}
	s.mu.Lock()
	s.messages = append(s.messages, msgs...)
	s.mu.Unlock()

	s.sched.PushUpdate(&updateRunner{cell: s.cell})
	s.sched.Wake()
}

// Callback returns a function sending the message fn produces.
func (s *Scope[P, M]) Callback(fn func() M) func() {
	return func() {
		s.SendMessage(fn())
	}
}

// Handler is Callback for handlers taking an event value.
func Handler[E, P, M any](s *Scope[P, M], fn func(E) M) func(E) {
	return func(e E) {
		s.SendMessage(fn(e))
	}
}

func (s *Scope[P, M]) takeMessages() []M {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages
	s.messages = nil
	return msgs
}

// MountInPlace creates a live instance rendering into target, placed at
// slot inside parent. own, if not nil, is kept pointing at the instance's
// first node.
func (s *Scope[P, M]) MountInPlace(target RenderTarget, parent *html.Node, slot dom.Slot, own *dom.DynamicSlot, props P) {
	if own == nil {
		own = dom.NewDynamicSlot(slot)
	}
	s.schedule(&liveState{
		target:  target,
		parent:  parent,
		sibling: dom.NewDynamicSlot(slot),
		own:     own,
	}, props, "")
}

// HydrateInPlace creates an instance adopting the pre-rendered nodes in
// fragment. The first render merges the view into them and switches the
// instance to live rendering.
func (s *Scope[P, M]) HydrateInPlace(parent *html.Node, fragment Fragment, own *dom.DynamicSlot, props P, prepared string) {
	if own == nil {
		own = dom.NewDynamicSlot(dom.AtEnd())
	}
	s.schedule(&hydrationState{
		fragment: fragment,
		parent:   parent,
		sibling:  dom.NewDynamicSlot(dom.AtEnd()),
		own:      own,
	}, props, prepared)
}

// Reuse hands new props and a new sibling position to the mounted
// instance.
func (s *Scope[P, M]) Reuse(props P, slot dom.Slot) {
	s.sched.PushPropsUpdate(&propsUpdateRunner{
		cell:    s.cell,
		props:   &propsValue{value: props},
		sibling: &slot,
	})
	s.sched.Wake()
}

func (s *Scope[P, M]) schedule(initial renderState, props P, prepared string) {
	s.sched.PushCreate(
		&createRunner[P, M]{scope: s, initial: initial, props: props, prepared: prepared},
		&renderRunner{cell: s.cell},
	)
	s.sched.Wake()
}
