package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradeboard/models"
)

var (
	closeAxisFallback  = decimal.NewFromInt(100)
	volumeAxisFallback = decimal.NewFromInt(1000)
	axisHeadroom       = decimal.RequireFromString("1.1")
	thousand           = decimal.NewFromInt(1000)
)

// Point is one day of a trade code's close and volume.
type Point struct {
	Date   string
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Series is the date-ordered history of one trade code.
type Series struct {
	Code   string
	Points []Point
}

// Summary totals a series for the report export.
type Summary struct {
	Points      int
	MinClose    decimal.Decimal
	MaxClose    decimal.Decimal
	TotalVolume decimal.Decimal
}

// TradeCodes returns the distinct trade codes in first-seen order.
func TradeCodes(records []models.TradeRecord) []string {
	seen := make(map[string]bool, len(records))
	codes := make([]string, 0)
	for _, r := range records {
		if seen[r.TradeCode] {
			continue
		}
		seen[r.TradeCode] = true
		codes = append(codes, r.TradeCode)
	}
	return codes
}

// BuildSeries keeps the records of code and orders them by date, oldest first.
// Records sharing a date keep their fetch order.
func BuildSeries(records []models.TradeRecord, code string) Series {
	points := make([]Point, 0)
	for _, r := range records {
		if r.TradeCode != code {
			continue
		}
		points = append(points, Point{
			Date:   r.Date,
			Close:  ParseNumber(r.Close),
			Volume: ParseNumber(r.Volume),
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return dateBefore(points[i].Date, points[j].Date)
	})
	return Series{Code: code, Points: points}
}

func dateBefore(a, b string) bool {
	ta, errA := time.Parse("2006-01-02", strings.TrimSpace(a))
	tb, errB := time.Parse("2006-01-02", strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return ta.Before(tb)
	}
	return a < b
}

// ParseNumber reads a decimal, dropping thousands separators. Unparsable text is 0.
func ParseNumber(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s Series) Dates() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

func (s Series) Closes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

func (s Series) Volumes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Volume
	}
	return out
}

// CloseAxisMax is the upper bound of the close axis.
func (s Series) CloseAxisMax() decimal.Decimal {
	return AxisMax(s.Closes(), closeAxisFallback)
}

// VolumeAxisMax is the upper bound of the volume axis.
func (s Series) VolumeAxisMax() decimal.Decimal {
	return AxisMax(s.Volumes(), volumeAxisFallback)
}

func (s Series) Summary() Summary {
	sum := Summary{Points: len(s.Points), TotalVolume: decimal.Zero}
	for i, p := range s.Points {
		if i == 0 || p.Close.LessThan(sum.MinClose) {
			sum.MinClose = p.Close
		}
		if i == 0 || p.Close.GreaterThan(sum.MaxClose) {
			sum.MaxClose = p.Close
		}
		sum.TotalVolume = sum.TotalVolume.Add(p.Volume)
	}
	return sum
}

// AxisMax leaves 10% headroom over the largest value. An empty or all-zero
// set falls back to fallback.
func AxisMax(values []decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return fallback
	}
	max := values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(max) {
			max = v
		}
	}
	if max.IsZero() {
		return fallback
	}
	return max.Mul(axisHeadroom)
}

// FormatVolume abbreviates thousands, e.g. 2285416 -> "2285.4K".
func FormatVolume(v decimal.Decimal) string {
	if v.GreaterThanOrEqual(thousand) {
		return v.Div(thousand).StringFixed(1) + "K"
	}
	return v.Round(0).String()
}
