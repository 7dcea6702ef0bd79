package reports

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"tradeboard/models"
)

const loadFailedMessage = "Failed to load data."

// RecordSource is the dashboard's copy of the trade collection.
type RecordSource interface {
	Load(ctx context.Context) error
	Records() []models.TradeRecord
}

func ReportsPageQueryHandler(src RecordSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := PageData{}
		if err := src.Load(r.Context()); err != nil {
			data.LoadError = loadFailedMessage
			renderPage(w, r, http.StatusBadGateway, ReportsPage(data))
			return
		}

		records := src.Records()
		data.Codes = TradeCodes(records)
		data.SelectedCode = selectCode(data.Codes, r.URL.Query().Get("code"))
		data.Series = BuildSeries(records, data.SelectedCode)

		option, err := marshalOption(SeriesChartOption(data.Series))
		if err != nil {
			http.Error(w, "failed to build chart", http.StatusInternalServerError)
			return
		}
		data.OptionJSON = option
		renderPage(w, r, http.StatusOK, ReportsPage(data))
	}
}

func AnalyticsPageQueryHandler(src RecordSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := AnalyticsPageData{}
		if err := src.Load(r.Context()); err != nil {
			data.LoadError = loadFailedMessage
			renderPage(w, r, http.StatusBadGateway, AnalyticsPage(data))
			return
		}

		data.Records = src.Records()
		if len(data.Records) == 0 {
			renderPage(w, r, http.StatusOK, AnalyticsPage(data))
			return
		}
		data.Selected = data.Records[0]
		if id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64); err == nil {
			for _, rec := range data.Records {
				if rec.ID == id {
					data.Selected = rec
					break
				}
			}
		}
		data.Slices = Breakdown(data.Selected)

		option, err := marshalOption(BreakdownChartOption(data.Slices))
		if err != nil {
			http.Error(w, "failed to build chart", http.StatusInternalServerError)
			return
		}
		data.OptionJSON = option
		renderPage(w, r, http.StatusOK, AnalyticsPage(data))
	}
}

// ExportPDFQueryHandler streams the report of one trade code as a PDF.
func ExportPDFQueryHandler(src RecordSource, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := src.Load(r.Context()); err != nil {
			http.Error(w, loadFailedMessage, http.StatusBadGateway)
			return
		}
		records := src.Records()
		code := selectCode(TradeCodes(records), r.URL.Query().Get("code"))
		if code == "" {
			http.Error(w, "no trade code to export", http.StatusNotFound)
			return
		}

		pdfBytes, err := RenderReportPDF(BuildSeries(records, code), ShareURL(publicURL, code), time.Now())
		if err != nil {
			slog.Error("render report pdf failed", slog.String("trade_code", code), slog.Any("err", err))
			http.Error(w, "failed to build report pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=trade-report-%s.pdf", url.PathEscape(code)))
		_, _ = w.Write(pdfBytes)
	}
}

// ShareQRQueryHandler returns a QR code linking to the chart of one trade code.
func ShareQRQueryHandler(publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(r.URL.Query().Get("code"))
		if code == "" {
			http.Error(w, "code is required", http.StatusBadRequest)
			return
		}
		png, err := RenderShareQR(ShareURL(publicURL, code), 320)
		if err != nil {
			http.Error(w, "failed to build share code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// ShareURL is the public link to the chart of code.
func ShareURL(publicURL, code string) string {
	return strings.TrimRight(publicURL, "/") + "/reports?code=" + url.QueryEscape(code)
}

// selectCode keeps requested when it is a known code, else the first code.
func selectCode(codes []string, requested string) string {
	for _, c := range codes {
		if c == requested {
			return c
		}
	}
	if len(codes) == 0 {
		return ""
	}
	return codes[0]
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		slog.Error("render reports page failed", slog.Any("err", err))
	}
}
