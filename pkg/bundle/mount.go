package bundle

import (
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"golang.org/x/net/html"
)

// Mount creates a live root instance of def rendering at the end of
// parent. Queued work runs before Mount returns unless sched is served
// elsewhere.
func Mount[P, M any](sched *scheduler.Scheduler, def *lifecycle.Definition[P, M], parent *html.Node, props P) *lifecycle.Scope[P, M] {
	s := lifecycle.NewScope(def, sched)
	s.MountInPlace(New(), parent, dom.AtEnd(), nil, props)
	return s
}

// Hydrate creates a root instance of def adopting the component markup at
// the front of parent, as written by hydratable server rendering.
// Hydration mismatches found while rendering panic with a *errors.Error
// matching lifecycle.ErrHydrationMismatch or one of the E04x codes.
func Hydrate[P, M any](sched *scheduler.Scheduler, def *lifecycle.Definition[P, M], parent *html.Node, props P) (*lifecycle.Scope[P, M], error) {
	child, prepared, err := FragmentOf(parent).CollectComponent(def.Name())
	if err != nil {
		return nil, err
	}
	s := lifecycle.NewScope(def, sched)
	s.HydrateInPlace(parent, child, nil, props, prepared)
	return s, nil
}
