package trades

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"tradeboard/frontend/shared/html"
	"tradeboard/frontend/shared/nav"
	"tradeboard/models"
)

// TradesPage renders the table, pager and any open dialog.
func TradesPage(data PageData) templ.Component {
	return html.Layout("Trades", nav.BuildTopNavData("/trades"), tradesBody(data))
}

func tradesBody(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		v := data.View
		state := TableState{SearchText: v.SearchText, Page: v.Page, RowsPerPage: v.RowsPerPage}

		b.WriteString(`<section id="trades-page" class="paper">`)
		b.WriteString(html.Alert("success", data.Status))
		b.WriteString(html.Alert("error", data.Error))
		if data.LoadWarning != "" {
			fmt.Fprintf(&b, `<div class="alert alert-error">%s</div>`, html.Esc(data.LoadWarning))
		}

		b.WriteString(`<div class="toolbar"><h2>Recent Orders</h2>`)
		if !v.LoadedAt.IsZero() {
			fmt.Fprintf(&b, `<p class="muted">Last refreshed %s</p>`, v.LoadedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(&b, `<form method="get" action="/trades" role="search"><input type="search" name="q" value="%s" placeholder="Search here"><input type="hidden" name="page" value="%d"><input type="hidden" name="rows" value="%d"><button class="btn" type="submit">Search</button></form>`,
			html.Esc(v.SearchText), v.Page, v.RowsPerPage)
		fmt.Fprintf(&b, `<a class="btn" href="%s">Add Trade</a></div>`, html.Esc(listURL(state, url.Values{"dialog": {"add"}})))

		b.WriteString(`<table><thead><tr>`)
		for _, h := range Headers() {
			fmt.Fprintf(&b, `<th>%s</th>`, html.Esc(h))
		}
		b.WriteString(`</tr></thead><tbody>`)
		if len(v.Rows) == 0 {
			fmt.Fprintf(&b, `<tr><td colspan="%d" class="empty">No trades found</td></tr>`, len(Schema)+1)
		}
		for _, r := range v.Rows {
			writeRow(&b, state, r)
		}
		b.WriteString(`</tbody></table>`)
		writePager(&b, v)
		b.WriteString(`</section>`)

		if data.Dialog != nil {
			writeDialog(ctx, &b, state, data.Dialog)
		}
		if data.Confirm != nil {
			writeConfirm(ctx, &b, state, *data.Confirm)
		}

		_, err := w.Write(b.Bytes())
		return err
	})
}

func writeRow(b *bytes.Buffer, state TableState, r models.TradeRecord) {
	fmt.Fprintf(b, `<tr data-id="%d">`, r.ID)
	for _, f := range Schema {
		v, _ := r.Field(f.Name)
		fmt.Fprintf(b, `<td>%s</td>`, html.Esc(v))
	}
	id := strconv.FormatInt(r.ID, 10)
	fmt.Fprintf(b, `<td><a class="btn" href="%s">Update</a> <a class="btn btn-danger" href="%s">Delete</a></td></tr>`,
		html.Esc(listURL(state, url.Values{"dialog": {"update"}, "id": {id}})),
		html.Esc(withState("/trades/"+id+"/delete", state, nil)))
}

func writePager(b *bytes.Buffer, v View) {
	state := TableState{SearchText: v.SearchText, Page: v.Page, RowsPerPage: v.RowsPerPage}
	b.WriteString(`<div class="pager">`)
	b.WriteString(`<form method="get" action="/trades"><label>Rows per page: <select name="rows" onchange="this.form.submit()">`)
	for _, n := range v.Options {
		selected := ""
		if n == v.RowsPerPage {
			selected = " selected"
		}
		fmt.Fprintf(b, `<option value="%d"%s>%d</option>`, n, selected, n)
	}
	fmt.Fprintf(b, `</select></label><input type="hidden" name="prev_rows" value="%d"><input type="hidden" name="page" value="%d"><input type="hidden" name="q" value="%s"><noscript><button class="btn" type="submit">Apply</button></noscript></form>`,
		v.RowsPerPage, v.Page, html.Esc(v.SearchText))
	fmt.Fprintf(b, `<span class="range">%s</span>`, html.Esc(v.Range()))
	if v.HasPrev() {
		prev := state
		prev.Page--
		fmt.Fprintf(b, `<a class="btn btn-secondary" href="%s" rel="prev">Previous</a>`, html.Esc(listURL(prev, nil)))
	}
	if v.HasNext() {
		next := state
		next.Page++
		fmt.Fprintf(b, `<a class="btn btn-secondary" href="%s" rel="next">Next</a>`, html.Esc(listURL(next, nil)))
	}
	b.WriteString(`</div>`)
}

func writeDialog(ctx context.Context, b *bytes.Buffer, state TableState, d *DialogData) {
	b.WriteString(`<dialog id="trade-dialog" open>`)
	fmt.Fprintf(b, `<h3>%s</h3>`, html.Esc(d.Title))
	if d.Alert != "" {
		b.WriteString(html.Alert("error", d.Alert))
	}
	fmt.Fprintf(b, `<form method="post" action="%s" onsubmit="this.querySelector('[type=submit]').disabled=true">`, html.Esc(d.Action))
	b.WriteString(html.CSRFField(ctx))
	fmt.Fprintf(b, `<input type="hidden" name="submission_token" value="%s">`, html.Esc(d.Token))
	writeStateFields(b, state)
	b.WriteString(`<div class="form-grid">`)
	for _, f := range Schema {
		value, _ := d.Draft.Field(f.Name)
		msg, invalid := d.Errors[f.Name]
		class := ""
		if invalid {
			class = ` class="field-error"`
		}
		fmt.Fprintf(b, `<label%s>%s<input type="%s" name="%s" value="%s"`, class, html.Esc(f.Label), html.Esc(string(f.Kind)), html.Esc(f.Name), html.Esc(value))
		if invalid {
			b.WriteString(` aria-invalid="true"`)
		}
		b.WriteString(`>`)
		if invalid {
			fmt.Fprintf(b, `<span class="hint">%s</span>`, html.Esc(msg))
		}
		b.WriteString(`</label>`)
	}
	b.WriteString(`</div><div class="dialog-actions">`)
	fmt.Fprintf(b, `<a class="btn btn-secondary" href="%s">Cancel</a><button class="btn" type="submit">%s</button>`,
		html.Esc(listURL(state, nil)), html.Esc(d.SubmitLabel))
	b.WriteString(`</div></form></dialog>`)
}

func writeConfirm(ctx context.Context, b *bytes.Buffer, state TableState, r models.TradeRecord) {
	id := strconv.FormatInt(r.ID, 10)
	b.WriteString(`<dialog id="delete-dialog" open><h3>Delete Trade</h3>`)
	fmt.Fprintf(b, `<p>Are you sure you want to delete this record?</p><p><strong>%s</strong> on %s</p>`, html.Esc(r.TradeCode), html.Esc(r.Date))
	fmt.Fprintf(b, `<form method="post" action="/trades/%s/delete">`, id)
	b.WriteString(html.CSRFField(ctx))
	writeStateFields(b, state)
	fmt.Fprintf(b, `<div class="dialog-actions"><a class="btn btn-secondary" href="%s">Cancel</a><button class="btn btn-danger" type="submit" name="confirm" value="yes">Delete</button></div>`,
		html.Esc(listURL(state, nil)))
	b.WriteString(`</form></dialog>`)
}

func writeStateFields(b *bytes.Buffer, state TableState) {
	fmt.Fprintf(b, `<input type="hidden" name="q" value="%s"><input type="hidden" name="page" value="%d"><input type="hidden" name="rows" value="%d">`,
		html.Esc(state.SearchText), state.Page, state.RowsPerPage)
}
