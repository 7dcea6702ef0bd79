package reports

import (
	"github.com/shopspring/decimal"

	"tradeboard/models"
)

// Slice is one segment of the price breakdown pie.
type Slice struct {
	ID    int
	Name  string
	Value decimal.Decimal
}

// Breakdown splits one record into its High, Low, Open and Close slices.
func Breakdown(r models.TradeRecord) []Slice {
	return []Slice{
		{ID: 1, Name: "High", Value: ParseNumber(r.High)},
		{ID: 2, Name: "Low", Value: ParseNumber(r.Low)},
		{ID: 3, Name: "Open", Value: ParseNumber(r.Open)},
		{ID: 4, Name: "Close", Value: ParseNumber(r.Close)},
	}
}
