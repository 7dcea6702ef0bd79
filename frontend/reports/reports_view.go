package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"tradeboard/frontend/shared/html"
	"tradeboard/frontend/shared/nav"
)

const echartsScript = `<script src="https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"></script>`

// volumeFormatterJS mirrors FormatVolume for chart labels and tooltips.
const volumeFormatterJS = `function fmtVolume(v){return v>=1000?(v/1000).toFixed(1)+"K":v;}`

func ReportsPage(data PageData) templ.Component {
	return html.Layout("Trade Reports", nav.BuildTopNavData("/reports"), reportsBody(data))
}

func reportsBody(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		b.WriteString(`<section id="reports-page" class="paper"><div class="toolbar"><h2>Trade Reports</h2>`)
		if data.SelectedCode != "" {
			code := url.QueryEscape(data.SelectedCode)
			fmt.Fprintf(&b, `<div class="actions"><a class="btn btn-secondary" href="/reports?code=%s">Refresh</a><a class="btn btn-secondary" href="/reports/export.pdf?code=%s">Export</a><a class="btn btn-secondary" href="/reports/share.png?code=%s">Share</a></div>`,
				html.Esc(code), html.Esc(code), html.Esc(code))
		}
		b.WriteString(`</div>`)

		if data.LoadError != "" {
			fmt.Fprintf(&b, `<div class="alert alert-error" role="alert">%s</div></section>`, html.Esc(data.LoadError))
			_, err := w.Write(b.Bytes())
			return err
		}

		b.WriteString(`<form method="get" action="/reports"><label>Trade Code <select name="code" onchange="this.form.submit()">`)
		for _, code := range data.Codes {
			selected := ""
			if code == data.SelectedCode {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, html.Esc(code), selected, html.Esc(code))
		}
		b.WriteString(`</select></label><noscript><button class="btn" type="submit">Show</button></noscript></form>`)

		if len(data.Series.Points) == 0 {
			b.WriteString(`<p class="empty">No data available for the selected trade code.</p></section>`)
			_, err := w.Write(b.Bytes())
			return err
		}

		b.WriteString(`<div id="reports-chart" class="chart"></div></section>`)
		b.WriteString(echartsScript)
		fmt.Fprintf(&b, `<script>%s(function(){var option=%s;option.tooltip.formatter=function(ps){var c=0,v=0;ps.forEach(function(p){if(p.seriesName==="Close"){c=p.value;}if(p.seriesName==="Volume"){v=p.value;}});return "<strong>"+ps[0].name+"</strong><br/>Close: "+c+"<br/>Volume: "+fmtVolume(v);};option.yAxis[1].axisLabel={formatter:fmtVolume};echarts.init(document.getElementById("reports-chart")).setOption(option);})();</script>`,
			volumeFormatterJS, data.OptionJSON)

		_, err := w.Write(b.Bytes())
		return err
	})
}

func AnalyticsPage(data AnalyticsPageData) templ.Component {
	return html.Layout("Analytics", nav.BuildTopNavData("/reports/analytics"), analyticsBody(data))
}

func analyticsBody(data AnalyticsPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		b.WriteString(`<section id="analytics-page" class="paper"><div class="toolbar"><h2>Analytics</h2></div>`)
		if data.LoadError != "" {
			fmt.Fprintf(&b, `<div class="alert alert-error" role="alert">%s</div></section>`, html.Esc(data.LoadError))
			_, err := w.Write(b.Bytes())
			return err
		}
		if len(data.Records) == 0 {
			b.WriteString(`<p class="empty">No trades recorded yet.</p></section>`)
			_, err := w.Write(b.Bytes())
			return err
		}

		b.WriteString(`<form method="get" action="/reports/analytics"><label>Trade <select name="id" onchange="this.form.submit()">`)
		for _, r := range data.Records {
			selected := ""
			if r.ID == data.Selected.ID {
				selected = " selected"
			}
			fmt.Fprintf(&b, `<option value="%d"%s>%s %s</option>`, r.ID, selected, html.Esc(r.TradeCode), html.Esc(r.Date))
		}
		b.WriteString(`</select></label><noscript><button class="btn" type="submit">Show</button></noscript></form>`)

		b.WriteString(`<ul class="breakdown">`)
		for _, sl := range data.Slices {
			fmt.Fprintf(&b, `<li><span>%s</span> %s</li>`, html.Esc(sl.Name), html.Esc(sl.Value.String()))
		}
		b.WriteString(`</ul><div id="analytics-chart" class="chart"></div></section>`)
		b.WriteString(echartsScript)
		fmt.Fprintf(&b, `<script>echarts.init(document.getElementById("analytics-chart")).setOption(%s);</script>`, data.OptionJSON)

		_, err := w.Write(b.Bytes())
		return err
	})
}
