package reports

import (
	"bytes"
	"image/png"
	"testing"
	"time"
)

func TestRenderReportPDF_GeneratesPDF(t *testing.T) {
	t.Parallel()

	series := BuildSeries(sampleRecords(), "1JANATAMF")
	pdf, err := RenderReportPDF(series, "http://dashboard.local/reports?code=1JANATAMF", time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RenderReportPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf header, got %q", pdf[:8])
	}
}

func TestRenderReportPDF_EmptySeriesStillRenders(t *testing.T) {
	t.Parallel()

	pdf, err := RenderReportPDF(Series{Code: "NONE"}, "", time.Now())
	if err != nil {
		t.Fatalf("RenderReportPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected non-empty pdf bytes")
	}
}

func TestRenderReportPDF_RequiresCode(t *testing.T) {
	t.Parallel()

	if _, err := RenderReportPDF(Series{}, "", time.Now()); err == nil {
		t.Fatalf("expected error for missing trade code")
	}
}

func TestRenderShareQR_SquarePNG(t *testing.T) {
	t.Parallel()

	raw, err := RenderShareQR("http://dashboard.local/reports?code=ABC", 300)
	if err != nil {
		t.Fatalf("RenderShareQR returned error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 300 {
		t.Fatalf("expected 300x300, got %dx%d", b.Dx(), b.Dy())
	}
	if _, err := RenderShareQR(" ", 300); err == nil {
		t.Fatalf("expected error for blank url")
	}
}
