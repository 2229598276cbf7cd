package lifecycle

import (
	"sync/atomic"

	"github.com/vango-dev/lifecycle/internal/errors"
)

// stateCell holds an instance's state. At most one unit borrows it at a
// time; a nil state means the instance was destroyed or not yet created.
type stateCell struct {
	id       uint64
	name     string
	borrowed atomic.Bool
	state    *componentState

	// waiting is the suspension the instance last suspended on. Listeners
	// of older suspensions see a different value and do nothing.
	waiting atomic.Pointer[Suspension]
}

// borrow takes exclusive access and returns the release function.
// It panics with E204 if the cell is already borrowed.
func (c *stateCell) borrow() func() {
	if !c.borrowed.CompareAndSwap(false, true) {
		panic(errors.New("E204").WithComponent(c.name))
	}
	return func() {
		c.borrowed.Store(false)
	}
}

// tryBorrow is borrow for readers outside units. It reports false instead
// of panicking while a unit holds the cell.
func (c *stateCell) tryBorrow() (release func(), ok bool) {
	if !c.borrowed.CompareAndSwap(false, true) {
		return nil, false
	}
	return func() {
		c.borrowed.Store(false)
	}, true
}
