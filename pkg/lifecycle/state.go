package lifecycle

import (
	"errors"
	"log/slog"
	"reflect"

	vangoerrors "github.com/vango-dev/lifecycle/internal/errors"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// stateful is the type-erased component handle.
type stateful interface {
	view() (*vdom.VNode, error)
	rendered(firstRender bool)
	destroy()
	flushMessages() bool
	propsChanged(props any) bool
	creationMode() RenderMode
	component() any
	prepareState() string
}

type compState[P, M any] struct {
	comp Component[P, M]
	ctx  *Context[P, M]
}

func (c *compState[P, M]) view() (*vdom.VNode, error) {
	return c.comp.View(c.ctx)
}

func (c *compState[P, M]) rendered(firstRender bool) {
	if r, ok := c.comp.(RenderedNotifier[P, M]); ok {
		r.Rendered(c.ctx, firstRender)
	}
}

func (c *compState[P, M]) destroy() {
	if d, ok := c.comp.(Destroyer[P, M]); ok {
		d.Destroy(c.ctx)
	}
}

// flushMessages folds every queued message through Update, in arrival
// order. All messages are delivered even after one requested a render.
func (c *compState[P, M]) flushMessages() bool {
	msgs := c.ctx.scope.takeMessages()
	u, ok := c.comp.(Updater[P, M])
	if !ok {
		return len(msgs) > 0
	}
	render := false
	for _, msg := range msgs {
		render = u.Update(c.ctx, msg) || render
	}
	return render
}

func (c *compState[P, M]) propsChanged(props any) bool {
	next, ok := props.(P)
	if !ok {
		return false
	}
	if propsEqual(c.ctx.props, next) {
		return false
	}
	old := c.ctx.props
	c.ctx.props = next
	if ch, ok := c.comp.(Changer[P, M]); ok {
		return ch.Changed(c.ctx, old)
	}
	return true
}

func (c *compState[P, M]) creationMode() RenderMode {
	return c.ctx.mode
}

func (c *compState[P, M]) component() any {
	return c.comp
}

func (c *compState[P, M]) prepareState() string {
	if p, ok := c.comp.(StatePreparer); ok {
		return p.PrepareState()
	}
	return ""
}

// propsEqual uses an Equal(P) bool method when P has one.
func propsEqual[P any](a, b P) bool {
	if eq, ok := any(a).(interface{ Equal(P) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// propsValue is an optional props value.
type propsValue struct {
	value any
}

type componentState struct {
	inner        stateful
	renderState  renderState
	hasRendered  bool
	pendingProps *propsValue
	suspension   *Suspension
	scope        *AnyScope
	id           uint64
}

func newComponentState[P, M any](initial renderState, scope *Scope[P, M], props P, prepared string) *componentState {
	span := startSpan("create", scope.id, scope.name)
	defer span.End()

	ctx := &Context[P, M]{
		scope:    scope,
		props:    props,
		mode:     initial.mode(),
		prepared: prepared,
	}
	inner := &compState[P, M]{ctx: ctx}
	inner.comp = scope.def.factory(ctx)

	scope.logger().Debug("component created",
		"component.id", scope.id,
		"component.name", scope.name,
		"mode", ctx.mode.String())

	return &componentState{
		inner:       inner,
		renderState: initial,
		scope:       scope.AnyScope,
		id:          scope.id,
	}
}

func (st *componentState) sched() *scheduler.Scheduler {
	return st.scope.sched
}

func (st *componentState) logger() *slog.Logger {
	return st.scope.logger()
}

func (st *componentState) update() bool {
	span := startSpan("update", st.id, st.scope.name)
	defer span.End()

	render := st.inner.flushMessages()
	st.logger().Debug("update", "component.id", st.id, "schedule_render", render)
	return render
}

func (st *componentState) render(cell *stateCell) {
	span := startSpan("render", st.id, st.scope.name)
	defer span.End()

	tree, err := st.inner.view()
	if err == nil {
		st.commitRender(cell, tree)
		return
	}

	var suspended *SuspendedError
	if errors.As(err, &suspended) {
		st.logger().Debug("render suspended", "component.id", st.id)
		st.suspend(cell, suspended.Suspension)
		return
	}
	span.RecordError(err)
	panic(vangoerrors.New("E205").WithComponent(st.scope.name).Wrap(err))
}

func (st *componentState) suspend(cell *stateCell, s *Suspension) {
	if s.Resumed() {
		// Resolved before we got here; render again right away.
		st.sched().PushRender(st.id, &renderRunner{cell: cell})
		return
	}

	boundary := st.scope.FindBoundary()
	if boundary == nil {
		panic(vangoerrors.New("E201").WithComponent(st.scope.name))
	}

	id, sched := st.id, st.sched()
	cell.waiting.Store(s)
	s.Listen(func() {
		if cell.waiting.Load() != s {
			return
		}
		sched.PushRender(id, &renderRunner{cell: cell})
		sched.Wake()
	})

	if st.suspension != nil && st.suspension != s {
		resumeAt(boundary, st.suspension)
	}
	st.suspension = s
	suspendAt(boundary, s)
}

func (st *componentState) resumeExistingSuspension() {
	if st.suspension == nil {
		return
	}
	s := st.suspension
	st.suspension = nil
	if boundary := st.scope.FindBoundary(); boundary != nil {
		resumeAt(boundary, s)
	}
}

func (st *componentState) commitRender(cell *stateCell, tree *vdom.VNode) {
	st.resumeExistingSuspension()

	switch rs := st.renderState.(type) {
	case *liveState:
		slot := rs.target.Reconcile(st.scope, rs.parent, rs.sibling.Slot(), tree)
		rs.own.Reassign(slot)

		first := !st.hasRendered
		st.hasRendered = true
		st.sched().PushRendered(st.id, &renderedRunner{cell: cell, firstRender: first}, first)

	case *hydrationState:
		// Node positions taken while hydrating are provisional; a priority
		// render right after fixes them up.
		st.sched().PushPriorityRender(st.id, &renderRunner{cell: cell})

		target, slot := rs.fragment.Hydrate(st.scope, rs.parent, tree)
		rs.fragment.TrimLeadingWhitespace()
		if !rs.fragment.Consumed() {
			panic(vangoerrors.New("E045").WithComponent(st.scope.name).
				WithDetail("the pre-rendered fragment has nodes left after the first render"))
		}
		rs.own.Reassign(slot)

		st.renderState = &liveState{
			target:  target,
			parent:  rs.parent,
			sibling: rs.sibling,
			own:     rs.own,
		}
		st.logger().Debug("hydrated", "component.id", st.id)

	case *serverState:
		if rs.sender == nil {
			return
		}
		rs.sender <- tree
		rs.sender = nil
	}
}

func (st *componentState) destroy(parentToDetach bool) {
	span := startSpan("destroy", st.id, st.scope.name)
	defer span.End()

	st.inner.destroy()
	st.resumeExistingSuspension()
	st.renderState.detach(parentToDetach)
	st.logger().Debug("component destroyed", "component.id", st.id, "parent_to_detach", parentToDetach)
}

// rendered runs the rendered hook unless the instance is suspended. It
// reports whether props parked during hydration are waiting.
func (st *componentState) rendered(firstRender bool) bool {
	span := startSpan("rendered", st.id, st.scope.name)
	defer span.End()

	if st.suspension == nil {
		st.inner.rendered(firstRender)
	}
	return st.pendingProps != nil
}

// changed applies new props and a new sibling position. It returns true
// when a render should be scheduled.
func (st *componentState) changed(props *propsValue, sibling *dom.Slot) bool {
	span := startSpan("changed", st.id, st.scope.name)
	defer span.End()

	if sibling != nil {
		st.renderState.setSibling(*sibling)
	}

	schedule := false
	if st.inner.creationMode() == ModeHydration {
		if props == nil {
			props, st.pendingProps = st.pendingProps, nil
		}
		switch {
		case props == nil:
		case st.hasRendered:
			st.pendingProps = nil
			schedule = st.inner.propsChanged(props.value)
		default:
			st.pendingProps = props
		}
	} else if props != nil {
		schedule = st.inner.propsChanged(props.value)
	}

	st.logger().Debug("props_update",
		"component.id", st.id,
		"has_rendered", st.hasRendered,
		"schedule_render", schedule)
	return schedule
}
