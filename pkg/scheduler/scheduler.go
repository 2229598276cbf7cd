package scheduler

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Runnable is a single unit of work.
type Runnable interface {
	Run()
}

// RunnableFunc adapts a function to Runnable.
type RunnableFunc func()

// Run calls f.
func (f RunnableFunc) Run() { f() }

// Lane names a queue. Lane names are used as metric labels.
type Lane string

const (
	LaneDestroy        Lane = "destroy"
	LaneCreate         Lane = "create"
	LaneRenderFirst    Lane = "render_first"
	LaneRenderedFirst  Lane = "rendered_first"
	LanePropsUpdate    Lane = "props_update"
	LaneUpdate         Lane = "update"
	LaneRenderPriority Lane = "render_priority"
	LaneRender         Lane = "render"
	LaneRendered       Lane = "rendered"
)

type unit struct {
	lane Lane
	r    Runnable
}

// Scheduler is a priority-lane run queue.
// All methods are safe for concurrent use.
type Scheduler struct {
	mu             sync.Mutex
	destroy        []Runnable
	create         []Runnable
	renderFirst    []Runnable
	renderedFirst  map[uint64]Runnable
	propsUpdate    []Runnable
	update         []Runnable
	renderPriority map[uint64]Runnable
	render         map[uint64]Runnable
	rendered       map[uint64]Runnable
	serving        bool
	signal         chan struct{}

	// runMu is held by the goroutine currently executing units.
	runMu sync.Mutex

	logger  *slog.Logger
	metrics *metrics
	idle    func()
	onPanic func(any)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used by the scheduler and by every component
// mounted on it.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers unit metrics with reg.
//
// Metrics collected:
//   - vango_lifecycle_units_total: Counter of executed units by lane
//   - vango_lifecycle_unit_duration_seconds: Histogram of unit duration by lane
//   - vango_lifecycle_pending_units: Gauge of queued units
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Scheduler) {
		if reg != nil {
			s.metrics = newMetrics(reg)
		}
	}
}

// WithIdle sets fn to run whenever a drain that executed work finds the
// queue empty. fn runs on the draining goroutine with no unit running, so
// it sees a settled DOM.
func WithIdle(fn func()) Option {
	return func(s *Scheduler) {
		s.idle = fn
	}
}

// WithPanicHandler sets fn to receive the value of a unit panic recovered
// by the Serve loop. The loop keeps serving after fn returns.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(s *Scheduler) {
		s.onPanic = fn
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		renderedFirst:  make(map[uint64]Runnable),
		renderPriority: make(map[uint64]Runnable),
		render:         make(map[uint64]Runnable),
		rendered:       make(map[uint64]Runnable),
		signal:         make(chan struct{}, 1),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the scheduler's logger.
func (s *Scheduler) Logger() *slog.Logger {
	return s.logger
}

// PushCreate queues a create unit together with the first render that
// follows it.
func (s *Scheduler) PushCreate(create, firstRender Runnable) {
	s.mu.Lock()
	s.create = append(s.create, create)
	s.renderFirst = append(s.renderFirst, firstRender)
	s.mu.Unlock()
}

// PushUpdate queues a message update.
func (s *Scheduler) PushUpdate(r Runnable) {
	s.mu.Lock()
	s.update = append(s.update, r)
	s.mu.Unlock()
}

// PushPropsUpdate queues a props update.
func (s *Scheduler) PushPropsUpdate(r Runnable) {
	s.mu.Lock()
	s.propsUpdate = append(s.propsUpdate, r)
	s.mu.Unlock()
}

// PushRender queues a render for component id, replacing any render
// already queued for it.
func (s *Scheduler) PushRender(id uint64, r Runnable) {
	s.mu.Lock()
	s.render[id] = r
	s.mu.Unlock()
}

// PushPriorityRender queues a render that runs ahead of normal renders.
func (s *Scheduler) PushPriorityRender(id uint64, r Runnable) {
	s.mu.Lock()
	s.renderPriority[id] = r
	s.mu.Unlock()
}

// PushRendered queues a rendered effect. First effects run ahead of every
// rendered effect queued for later renders.
func (s *Scheduler) PushRendered(id uint64, r Runnable, first bool) {
	s.mu.Lock()
	if first {
		s.renderedFirst[id] = r
	} else {
		s.rendered[id] = r
	}
	s.mu.Unlock()
}

// PushDestroy queues a destroy unit.
func (s *Scheduler) PushDestroy(r Runnable) {
	s.mu.Lock()
	s.destroy = append(s.destroy, r)
	s.mu.Unlock()
}

// Pending returns the number of queued units.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked()
}

func (s *Scheduler) pendingLocked() int {
	return len(s.destroy) + len(s.create) + len(s.renderFirst) +
		len(s.renderedFirst) + len(s.propsUpdate) + len(s.update) +
		len(s.renderPriority) + len(s.render) + len(s.rendered)
}

// Wake runs queued work. With an active Serve loop the loop is signalled;
// otherwise the queue is drained on the calling goroutine.
func (s *Scheduler) Wake() {
	s.mu.Lock()
	serving := s.serving
	s.mu.Unlock()

	if serving {
		select {
		case s.signal <- struct{}{}:
		default:
		}
		return
	}
	s.RunPending()
}

// RunPending drains the queue on the calling goroutine. It returns
// immediately if another goroutine, or an enclosing call on this one, is
// already running units.
func (s *Scheduler) RunPending() {
	for {
		if !s.runMu.TryLock() {
			return
		}
		s.drain()
		if s.Pending() == 0 {
			return
		}
	}
}

// Serve runs queued work whenever the scheduler is woken, until ctx is done.
// A panicking unit is logged and passed to the panic handler; the loop
// then carries on with the remaining queue.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.setServing(true)
	defer s.setServing(false)
	return s.serve(ctx)
}

// Start runs Serve on a new goroutine. The scheduler counts as serving as
// soon as Start returns, so every later Wake only signals the loop. The
// channel receives Serve's result.
func (s *Scheduler) Start(ctx context.Context) <-chan error {
	s.setServing(true)
	done := make(chan error, 1)
	go func() {
		defer s.setServing(false)
		done <- s.serve(ctx)
	}()
	return done
}

func (s *Scheduler) setServing(serving bool) {
	s.mu.Lock()
	s.serving = serving
	s.mu.Unlock()
}

func (s *Scheduler) serve(ctx context.Context) error {
	s.logger.Debug("scheduler serving")
	s.runGuarded()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("scheduler stopped", "pending", s.Pending())
			return ctx.Err()
		case <-s.signal:
			s.runGuarded()
		}
	}
}

// runGuarded drains the queue, recovering unit panics until it is empty.
func (s *Scheduler) runGuarded() {
	for {
		if !s.recoverPending() {
			return
		}
	}
}

// recoverPending runs RunPending and reports whether a unit panicked.
func (s *Scheduler) recoverPending() (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			s.logger.Error("unit panicked", "panic", r)
			if s.onPanic != nil {
				s.onPanic(r)
			}
		}
	}()
	s.RunPending()
	return false
}

func (s *Scheduler) drain() {
	defer s.runMu.Unlock()
	ran := false
	for {
		batch := s.fill()
		if len(batch) == 0 {
			if ran && s.idle != nil {
				s.idle()
			}
			return
		}
		ran = true
		for _, u := range batch {
			s.exec(u)
		}
	}
}

func (s *Scheduler) exec(u unit) {
	if s.metrics == nil {
		u.r.Run()
		return
	}
	start := time.Now()
	u.r.Run()
	s.metrics.observe(u.lane, time.Since(start))
}

// fill takes the next batch of work, following the lane order.
func (s *Scheduler) fill() []unit {
	s.mu.Lock()
	defer func() {
		if s.metrics != nil {
			s.metrics.pending.Set(float64(s.pendingLocked()))
		}
		s.mu.Unlock()
	}()

	var batch []unit
	batch = takeAll(batch, LaneDestroy, &s.destroy)
	batch = takeAll(batch, LaneCreate, &s.create)
	if len(batch) > 0 {
		return batch
	}

	if len(s.renderFirst) > 0 {
		r := s.renderFirst[0]
		s.renderFirst = s.renderFirst[1:]
		return append(batch, unit{LaneRenderFirst, r})
	}

	if len(s.renderedFirst) > 0 {
		return takeDescending(batch, LaneRenderedFirst, s.renderedFirst)
	}

	batch = takeAll(batch, LanePropsUpdate, &s.propsUpdate)
	if len(batch) > 0 {
		return batch
	}

	if len(s.update) > 0 {
		r := s.update[0]
		s.update = s.update[1:]
		return append(batch, unit{LaneUpdate, r})
	}

	if r, ok := popLowest(s.renderPriority); ok {
		return append(batch, unit{LaneRenderPriority, r})
	}
	if r, ok := popLowest(s.render); ok {
		return append(batch, unit{LaneRender, r})
	}

	if len(s.rendered) > 0 {
		return takeDescending(batch, LaneRendered, s.rendered)
	}
	return batch
}

func takeAll(batch []unit, lane Lane, q *[]Runnable) []unit {
	for _, r := range *q {
		batch = append(batch, unit{lane, r})
	}
	*q = nil
	return batch
}

func popLowest(m map[uint64]Runnable) (Runnable, bool) {
	if len(m) == 0 {
		return nil, false
	}
	first := true
	var low uint64
	for id := range m {
		if first || id < low {
			low = id
			first = false
		}
	}
	r := m[low]
	delete(m, low)
	return r, true
}

// takeDescending drains m highest id first. Children are created after
// their parents, so they carry higher ids and run first.
func takeDescending(batch []unit, lane Lane, m map[uint64]Runnable) []unit {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for i := len(ids) - 1; i >= 0; i-- {
		batch = append(batch, unit{lane, m[ids[i]]})
		delete(m, ids[i])
	}
	return batch
}
