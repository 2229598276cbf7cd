package vtest

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

// Recorder collects hook events in order. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends an event.
func (r *Recorder) Record(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Recordf appends a formatted event.
func (r *Recorder) Recordf(format string, args ...any) {
	r.Record(fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Equal reports whether r and other are the same recorder.
// Props holding a recorder compare equal when they share it.
func (r *Recorder) Equal(other *Recorder) bool {
	return r == other
}

// Expect asserts the recorded events are exactly want.
func (r *Recorder) Expect(t testing.TB, want ...string) {
	t.Helper()
	got := r.Events()
	if !slices.Equal(got, want) {
		t.Errorf("events = %q\nwant     %q", got, want)
	}
}
