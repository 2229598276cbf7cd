package lifecycle

import "github.com/vango-dev/lifecycle/pkg/dom"

type createRunner[P, M any] struct {
	scope    *Scope[P, M]
	initial  renderState
	props    P
	prepared string
}

func (r *createRunner[P, M]) Run() {
	cell := r.scope.cell
	release := cell.borrow()
	defer release()
	if cell.state == nil {
		cell.state = newComponentState(r.initial, r.scope, r.props, r.prepared)
	}
}

type updateRunner struct {
	cell *stateCell
}

func (r *updateRunner) Run() {
	release := r.cell.borrow()
	defer release()
	st := r.cell.state
	if st == nil {
		return
	}
	if st.update() {
		st.sched().PushRender(st.id, &renderRunner{cell: r.cell})
	}
}

type propsUpdateRunner struct {
	cell    *stateCell
	props   *propsValue
	sibling *dom.Slot
}

func (r *propsUpdateRunner) Run() {
	release := r.cell.borrow()
	defer release()
	st := r.cell.state
	if st == nil {
		return
	}
	if st.changed(r.props, r.sibling) {
		st.sched().PushRender(st.id, &renderRunner{cell: r.cell})
	}
}

type renderRunner struct {
	cell *stateCell
}

func (r *renderRunner) Run() {
	release := r.cell.borrow()
	defer release()
	if st := r.cell.state; st != nil {
		st.render(r.cell)
	}
}

type renderedRunner struct {
	cell        *stateCell
	firstRender bool
}

func (r *renderedRunner) Run() {
	release := r.cell.borrow()
	defer release()
	st := r.cell.state
	if st == nil {
		return
	}
	if st.rendered(r.firstRender) {
		st.sched().PushPropsUpdate(&propsUpdateRunner{cell: r.cell})
	}
}

type destroyRunner struct {
	cell           *stateCell
	parentToDetach bool
}

func (r *destroyRunner) Run() {
	release := r.cell.borrow()
	defer release()
	st := r.cell.state
	if st == nil {
		return
	}
	r.cell.state = nil
	st.destroy(r.parentToDetach)
}
