package html

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	sharedcontext "tradeboard/frontend/shared/context"
	"tradeboard/frontend/shared/nav"
)

// Esc escapes text for HTML bodies and attribute values.
func Esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps body in the page shell with the top navigation.
func Layout(title string, navData nav.TopNavData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/assets/app.css"></head><body>`, Esc(title))
		buf.WriteString(`<nav class="topnav"><span class="brand">Trade Dashboard</span><ul>`)
		for _, link := range navData.Links {
			class := ""
			if link.Active {
				class = ` class="active"`
			}
			fmt.Fprintf(&buf, `<li><a href="%s"%s>%s</a></li>`, Esc(link.Href), class, Esc(link.Label))
		}
		buf.WriteString(`</ul></nav><main>`)
		if err := body.Render(ctx, &buf); err != nil {
			return err
		}
		buf.WriteString(`</main></body></html>`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// CSRFField renders the hidden token input every POST form carries.
func CSRFField(ctx context.Context) string {
	return fmt.Sprintf(`<input type="hidden" name="_csrf" value="%s">`, Esc(sharedcontext.CSRFTokenFromContext(ctx)))
}

// Alert renders a dismissable banner; kind is "success" or "error".
// Error banners also raise a blocking browser alert.
func Alert(kind, message string) string {
	if message == "" {
		return ""
	}
	out := fmt.Sprintf(`<div class="alert alert-%s" role="alert">%s</div>`, Esc(kind), Esc(message))
	if kind == "error" {
		out += fmt.Sprintf(`<script>window.addEventListener("load",function(){alert(%s);});</script>`, JSString(message))
	}
	return out
}
