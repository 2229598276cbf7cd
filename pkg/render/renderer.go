package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/vango-dev/lifecycle/pkg/dom"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Pretty output is not hydratable.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Hydratable wraps components in markers and writes prepared state.
	Hydratable bool
}

// Renderer renders view trees to HTML.
type Renderer struct {
	config RendererConfig
	sched  *scheduler.Scheduler
}

// NewRenderer creates a Renderer whose component instances run on sched.
// A nil sched gets a private scheduler.
func NewRenderer(config RendererConfig, sched *scheduler.Scheduler) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.Hydratable {
		config.Pretty = false
	}
	if sched == nil {
		sched = scheduler.New()
	}
	return &Renderer{config: config, sched: sched}
}

// RenderToString renders a tree to an HTML string.
func (r *Renderer) RenderToString(ctx context.Context, node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(ctx, &buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to w.
func (r *Renderer) RenderToWriter(ctx context.Context, w io.Writer, node *vdom.VNode) error {
	return r.renderNode(ctx, w, node, nil, 0)
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(ctx context.Context, w io.Writer, node *vdom.VNode, scope *lifecycle.AnyScope, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(ctx, w, node, scope, depth)
	case vdom.KindText:
		_, err := io.WriteString(w, escapeHTML(node.Text))
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(ctx, w, child, scope, depth); err != nil {
				return err
			}
		}
		return nil
	case vdom.KindComponent:
		return r.renderComponent(ctx, w, node, scope, depth)
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(ctx context.Context, w io.Writer, node *vdom.VNode, scope *lifecycle.AnyScope, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		r.newline(w)
		return nil
	}

	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		r.newline(w)
	}
	for _, child := range node.Children {
		if err := r.renderNode(ctx, w, child, scope, depth+1); err != nil {
			return err
		}
	}
	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	r.newline(w)
	return nil
}

// renderComponent creates the component in server mode and renders its
// first view below its own scope.
func (r *Renderer) renderComponent(ctx context.Context, w io.Writer, node *vdom.VNode, scope *lifecycle.AnyScope, depth int) error {
	m, ok := node.Comp.(lifecycle.Mountable)
	if !ok {
		return fmt.Errorf("render: %s is not a renderable component", node.Name())
	}

	rendering, err := m.RenderServer(ctx, scope, r.sched)
	if err != nil {
		return fmt.Errorf("render %s: %w", m.ComponentName(), err)
	}
	defer rendering.Close()

	if r.config.Hydratable {
		if err := writeMarker(w, dom.StartMarker(rendering.Name())); err != nil {
			return err
		}
	}

	if err := r.renderNode(ctx, w, rendering.Tree, rendering.Scope(), depth); err != nil {
		return err
	}

	if r.config.Hydratable {
		if state := rendering.PreparedState(); state != "" {
			if _, err := fmt.Fprintf(w, `<script type="%s">%s</script>`, dom.StateScriptType, dom.EncodeState(state)); err != nil {
				return err
			}
		}
		if err := writeMarker(w, dom.EndMarker(rendering.Name())); err != nil {
			return err
		}
	}
	return nil
}

func writeMarker(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "<!--%s-->", text)
	return err
}

// renderAttributes renders all attributes for an element.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	// Sort keys for deterministic output
	for _, key := range slices.Sorted(maps.Keys(node.Props)) {
		if vdom.IsInternalProp(key) {
			continue
		}
		value := node.Props[key]
		name := vdom.AttrName(key)

		if b, ok := value.(bool); ok && vdom.IsBooleanAttr(name) {
			if b {
				if _, err := fmt.Fprintf(w, " %s", name); err != nil {
					return err
				}
			}
			continue
		}
		if value == nil {
			continue
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(vdom.PropString(value))); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) newline(w io.Writer) {
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

// isInlineElement reports whether pretty output keeps the children of tag
// on the element's line.
func isInlineElement(tag string) bool {
	switch tag {
	case "a", "abbr", "b", "br", "cite", "code", "em", "i", "kbd", "mark",
		"q", "s", "small", "span", "strong", "sub", "sup", "time", "u":
		return true
	}
	return false
}
