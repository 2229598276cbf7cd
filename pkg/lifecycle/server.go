package lifecycle

import (
	"context"

	vangoerrors "github.com/vango-dev/lifecycle/internal/errors"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// ServerRendering is the first view of a server-rendered instance.
type ServerRendering struct {
	Tree  *vdom.VNode
	scope *AnyScope
}

// Scope returns the rendered instance's scope. Nested components in Tree
// are rendered below it.
func (r *ServerRendering) Scope() *AnyScope {
	return r.scope
}

// Name returns the component name.
func (r *ServerRendering) Name() string {
	return r.scope.name
}

// PreparedState returns the state the component wants embedded in
// hydratable output, or "". It returns "" while a unit of the instance is
// running.
func (r *ServerRendering) PreparedState() string {
	release, ok := r.scope.cell.tryBorrow()
	if !ok {
		return ""
	}
	defer release()
	if st := r.scope.cell.state; st != nil {
		return st.inner.prepareState()
	}
	return ""
}

// Close destroys the instance.
func (r *ServerRendering) Close() {
	r.scope.Destroy(false)
}

// RenderServer creates the instance in server mode and waits for its first
// view. A suspended view delays the result until the suspension resolves
// or ctx is done. Each scope renders once; a second call returns E203.
func (s *Scope[P, M]) RenderServer(ctx context.Context, props P) (*ServerRendering, error) {
	if s.served.Swap(true) {
		return nil, vangoerrors.New("E203").WithComponent(s.name)
	}

	ch := make(chan *vdom.VNode, 1)
	s.schedule(&serverState{sender: ch}, props, "")

	select {
	case tree := <-ch:
		return &ServerRendering{Tree: tree, scope: s.AnyScope}, nil
	case <-ctx.Done():
		s.Destroy(false)
		return nil, ctx.Err()
	}
}
