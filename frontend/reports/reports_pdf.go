package reports

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
)

// RenderReportPDF lays out a series as a printable report with a QR code
// pointing back at the live chart.
func RenderReportPDF(series Series, shareURL string, printedAt time.Time) ([]byte, error) {
	if strings.TrimSpace(series.Code) == "" {
		return nil, fmt.Errorf("no trade code to report")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trade Report "+series.Code, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "Trade Report: "+series.Code, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Printed: "+printedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")

	sum := series.Summary()
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Data points: %d", sum.Points), "", 1, "L", false, 0, "")
	if sum.Points > 0 {
		pdf.CellFormat(0, 6, "Close range: "+sum.MinClose.String()+" - "+sum.MaxClose.String(), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Total volume: "+FormatVolume(sum.TotalVolume), "", 1, "L", false, 0, "")
	}

	if shareURL != "" {
		qrPNG, err := RenderShareQR(shareURL, 400)
		if err != nil {
			return nil, err
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := "report-share-" + series.Code
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(qrPNG))
		pageW, _ := pdf.GetPageSize()
		size := 32.0
		pdf.ImageOptions(imageName, pageW-size-10, 10, size, size, false, opt, 0, "")
	}

	pdf.Ln(4)
	colW := []float64{60, 60, 60}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Date", "Close", "Volume"} {
		pdf.CellFormat(colW[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	if len(series.Points) == 0 {
		pdf.CellFormat(colW[0]+colW[1]+colW[2], 7, "No data available for the selected trade code.", "1", 1, "C", false, 0, "")
	}
	for _, p := range series.Points {
		pdf.CellFormat(colW[0], 6, p.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 6, p.Close.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], 6, FormatVolume(p.Volume), "1", 1, "R", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// RenderShareQR encodes url as a square QR code PNG of size pixels.
func RenderShareQR(url string, size int) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("share url is required")
	}
	if size <= 0 {
		size = 256
	}
	code, err := qr.Encode(url, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
