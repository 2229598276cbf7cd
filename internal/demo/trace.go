package demo

import (
	"fmt"
	"sync"
)

// Trace collects hook events. A nil *Trace discards them.
type Trace struct {
	mu     sync.Mutex
	events []string
}

// Add records an event.
func (t *Trace) Add(format string, args ...any) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.events = append(t.events, fmt.Sprintf(format, args...))
	t.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (t *Trace) Events() []string {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}
