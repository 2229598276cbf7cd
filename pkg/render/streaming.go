package render

import (
	"context"
	"io"
	"net/http"

	"github.com/vango-dev/lifecycle/pkg/scheduler"
)

// StreamingRenderer wraps Renderer with chunked output support.
// It flushes the head before waiting on component instances, so a
// suspended component does not delay first paint.
type StreamingRenderer struct {
	*Renderer
	flusher http.Flusher
	w       io.Writer
}

// NewStreamingRenderer creates a streaming renderer that writes to
// an http.ResponseWriter. If the writer implements http.Flusher,
// content will be flushed after each section.
func NewStreamingRenderer(w http.ResponseWriter, config RendererConfig, sched *scheduler.Scheduler) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{
		Renderer: NewRenderer(config, sched),
		flusher:  flusher,
		w:        w,
	}
}

// RenderPage renders a complete HTML document with incremental flushing.
func (s *StreamingRenderer) RenderPage(ctx context.Context, page PageData) error {
	if err := s.renderDocumentStart(s.w, page); err != nil {
		return err
	}
	s.flush()

	if err := s.renderDocumentBody(ctx, s.w, page); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
