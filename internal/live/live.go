package live

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/lifecycle/pkg/bundle"
	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// MessageType is the type of a message sent to the browser.
type MessageType string

const (
	MessageHTML  MessageType = "html"
	MessageError MessageType = "error"
)

// Message is sent to browsers.
type Message struct {
	Type  MessageType `json:"type"`
	HTML  string      `json:"html,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Event is received from browsers.
type Event struct {
	Event string `json:"event"`
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
}

// MountFunc mounts the session's root instance into root.
type MountFunc func(sched *scheduler.Scheduler, root *html.Node) *lifecycle.AnyScope

// Options configures a Server.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Registerer receives the session metrics. Nil disables them.
	Registerer prometheus.Registerer

	// MessagesPerSecond and Burst limit the events of one session.
	MessagesPerSecond float64
	Burst             int
}

// Server manages live sessions.
type Server struct {
	mount    MountFunc
	logger   *slog.Logger
	limit    rate.Limit
	burst    int
	upgrader websocket.Upgrader

	sessionsGauge prometheus.Gauge
	eventsTotal   *prometheus.CounterVec

	mu       sync.RWMutex
	sessions map[*session]bool
}

// NewServer creates a Server mounting a fresh tree with mount for every
// connection.
func NewServer(mount MountFunc, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mount:    mount,
		logger:   logger,
		limit:    rate.Limit(opts.MessagesPerSecond),
		burst:    opts.Burst,
		sessions: make(map[*session]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if opts.Registerer != nil {
		factory := promauto.With(opts.Registerer)
		s.sessionsGauge = factory.NewGauge(prometheus.GaugeOpts{
			Name: "vango_lifecycle_live_sessions",
			Help: "Number of open live sessions",
		})
		s.eventsTotal = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vango_lifecycle_live_events_total",
			Help: "Browser events by result",
		}, []string{"result"})
	}
	return s
}

// HandleWebSocket upgrades the request and runs a session until the
// browser disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Warn("live upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, rate.NewLimiter(s.limit, s.burst), s.logger)
	s.track(sess, true)
	defer s.track(sess, false)

	sess.run(s)
}

func (s *Server) track(sess *session, open bool) {
	s.mu.Lock()
	if open {
		s.sessions[sess] = true
	} else {
		delete(s.sessions, sess)
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if s.sessionsGauge != nil {
		s.sessionsGauge.Set(float64(n))
	}
}

func (s *Server) countEvent(result string) {
	if s.eventsTotal != nil {
		s.eventsTotal.WithLabelValues(result).Inc()
	}
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close closes all sessions.
func (s *Server) Close() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for sess := range s.sessions {
		sess.conn.Close()
	}
}

type session struct {
	conn    *websocket.Conn
	limiter *rate.Limiter
	logger  *slog.Logger
	sched   *scheduler.Scheduler
	root    *html.Node

	mu     sync.Mutex
	queue  []Message
	sent   string
	closed bool
	wake   chan struct{}
}

func newSession(conn *websocket.Conn, limiter *rate.Limiter, logger *slog.Logger) *session {
	sess := &session{
		conn:    conn,
		limiter: limiter,
		logger:  logger.With("remote", conn.RemoteAddr().String()),
		root:    dom.NewElement("main"),
		wake:    make(chan struct{}, 1),
	}
	sess.sched = scheduler.New(
		scheduler.WithLogger(sess.logger),
		scheduler.WithIdle(sess.snapshot),
		scheduler.WithPanicHandler(sess.fail),
	)
	return sess
}

// run serves the session until the browser disconnects or a component
// panics. Units run on the session's own loop, so suspensions resolving on
// other goroutines only signal it.
func (sess *session) run(srv *Server) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.writeLoop()
		// Unblocks ReadJSON once the last message is out.
		sess.conn.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	served := sess.sched.Start(ctx)

	var scope *lifecycle.AnyScope
	defer func() {
		cancel()
		<-served
		// The loop has stopped, so the destroy units run here.
		sess.guard(func() {
			if scope != nil {
				scope.Destroy(false)
			}
		})
		sess.stop()
		<-done
	}()

	if err := sess.guard(func() { scope = srv.mount(sess.sched, sess.root) }); err != nil {
		sess.stop()
		return
	}

	sess.logger.Debug("live session started")
	for {
		var ev Event
		if err := sess.conn.ReadJSON(&ev); err != nil {
			sess.logger.Debug("live session ended", "error", err)
			return
		}

		if !sess.limiter.Allow() {
			srv.countEvent("limited")
			sess.send(Message{Type: MessageError, Error: "rate limit exceeded"})
			continue
		}

		sess.sched.PushUpdate(scheduler.RunnableFunc(func() {
			defer func() {
				if r := recover(); r != nil {
					srv.countEvent("failed")
					panic(r)
				}
			}()
			if bundle.Dispatch(sess.root, ev.ID, ev.Event, ev.Value) {
				srv.countEvent("handled")
			} else {
				srv.countEvent("ignored")
			}
		}))
		sess.sched.Wake()
	}
}

// fail reports a component panic recovered by the session loop and closes
// the session once the error message is written.
func (sess *session) fail(recovered any) {
	err := fmt.Errorf("live: %v", recovered)
	sess.logger.Error("component failed", "error", err)
	sess.send(Message{Type: MessageError, Error: err.Error()})
	sess.stop()
}

// guard runs fn on the calling goroutine and turns a panic into a failed
// session.
func (sess *session) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("live: %v", r)
			sess.fail(r)
		}
	}()
	fn()
	return nil
}

// snapshot queues the root markup if it changed. It runs as the idle
// hook, so no unit is modifying the DOM.
func (sess *session) snapshot() {
	markup, err := dom.RenderChildren(sess.root)
	if err != nil {
		sess.logger.Error("render markup", "error", err)
		sess.send(Message{Type: MessageError, Error: "live: " + err.Error()})
		return
	}

	sess.mu.Lock()
	if sess.closed || markup == sess.sent {
		sess.mu.Unlock()
		return
	}
	sess.sent = markup
	// Only the newest markup matters.
	if n := len(sess.queue); n > 0 && sess.queue[n-1].Type == MessageHTML {
		sess.queue = sess.queue[:n-1]
	}
	sess.queue = append(sess.queue, Message{Type: MessageHTML, HTML: markup})
	sess.mu.Unlock()

	sess.signal()
}

// send queues msg. Nothing is queued once the session is closing.
func (sess *session) send(msg Message) {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return
	}
	sess.queue = append(sess.queue, msg)
	sess.mu.Unlock()
	sess.signal()
}

func (sess *session) signal() {
	select {
	case sess.wake <- struct{}{}:
	default:
	}
}

func (sess *session) stop() {
	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()
	sess.signal()
}

// writeLoop is the only writer of conn.
func (sess *session) writeLoop() {
	for range sess.wake {
		sess.mu.Lock()
		batch, closed := sess.queue, sess.closed
		sess.queue = nil
		sess.mu.Unlock()

		for _, msg := range batch {
			sess.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := sess.conn.WriteJSON(msg); err != nil {
				sess.logger.Debug("live write failed", "error", err)
				return
			}
		}
		if closed {
			return
		}
	}
}
