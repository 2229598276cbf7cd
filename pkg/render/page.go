package render

import (
	"context"
	"fmt"
	"io"

	"github.com/vango-dev/lifecycle/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// LiveURL is the WebSocket endpoint of the live session. When set, a
	// small script keeps the body in sync with the server-side instance.
	LiveURL string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(ctx context.Context, w io.Writer, page PageData) error {
	if err := r.renderDocumentStart(w, page); err != nil {
		return err
	}
	return r.renderDocumentBody(ctx, w, page)
}

func (r *Renderer) renderDocumentStart(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

func (r *Renderer) renderDocumentBody(ctx context.Context, w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<body>\n<main id=\"root\">"); err != nil {
		return err
	}
	if err := r.RenderToWriter(ctx, w, page.Body); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "</main>\n"); err != nil {
		return err
	}
	if page.LiveURL != "" {
		if _, err := fmt.Fprintf(w, "<script>%s</script>\n", liveScript(page.LiveURL)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// liveScript connects to the live session: it forwards clicks on elements
// with an id and replaces the root markup with every update.
func liveScript(url string) string {
	return fmt.Sprintf(`(function(){var root=document.getElementById("root");`+
		`var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+%q);`+
		`ws.onmessage=function(e){var m=JSON.parse(e.data);`+
		`if(m.type==="html"){root.innerHTML=m.html;}else{console.error("live:",m.error);}};`+
		`root.addEventListener("click",function(e){var t=e.target.closest("[id]");`+
		`if(t&&ws.readyState===1){ws.send(JSON.stringify({event:"onclick",id:t.id}));}});})();`, url)
}
