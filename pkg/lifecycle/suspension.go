package lifecycle

import "sync"

// Suspension is a pending asynchronous dependency of a view.
// Suspensions compare by identity.
type Suspension struct {
	mu       sync.Mutex
	resumed  bool
	listener func()
	done     chan struct{}
}

// SuspensionHandle resolves its Suspension.
type SuspensionHandle struct {
	s *Suspension
}

// NewSuspension returns an unresolved suspension and the handle resolving
// it.
func NewSuspension() (*Suspension, *SuspensionHandle) {
	s := &Suspension{done: make(chan struct{})}
	return s, &SuspensionHandle{s: s}
}

// SuspendFunc runs fn on its own goroutine and resolves the returned
// suspension when fn returns.
func SuspendFunc(fn func()) *Suspension {
	s, h := NewSuspension()
	go func() {
		defer h.Resume()
		fn()
	}()
	return s
}

// Resumed reports whether the suspension resolved.
func (s *Suspension) Resumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumed
}

// Done is closed when the suspension resolves.
func (s *Suspension) Done() <-chan struct{} {
	return s.done
}

// Listen registers fn to run once when the suspension resolves. It
// replaces any previously registered function. If the suspension
// already resolved, fn runs immediately.
func (s *Suspension) Listen(fn func()) {
	s.mu.Lock()
	if s.resumed {
		s.mu.Unlock()
		fn()
		return
	}
	s.listener = fn
	s.mu.Unlock()
}

func (s *Suspension) resume() {
	s.mu.Lock()
	if s.resumed {
		s.mu.Unlock()
		return
	}
	s.resumed = true
	fn := s.listener
	s.listener = nil
	close(s.done)
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Suspension returns the suspension the handle resolves.
func (h *SuspensionHandle) Suspension() *Suspension {
	return h.s
}

// Resume resolves the suspension. Only the first call has an effect.
func (h *SuspensionHandle) Resume() {
	h.s.resume()
}

// SuspendedError is returned from View while a suspension is pending.
type SuspendedError struct {
	Suspension *Suspension
}

func (e *SuspendedError) Error() string {
	return "lifecycle: rendering suspended"
}

// Suspend returns the error a View returns to suspend on s.
func Suspend(s *Suspension) error {
	return &SuspendedError{Suspension: s}
}
