package reports

import "tradeboard/models"

type PageData struct {
	Codes        []string
	SelectedCode string
	Series       Series
	OptionJSON   string
	LoadError    string
}

type AnalyticsPageData struct {
	Records    []models.TradeRecord
	Selected   models.TradeRecord
	Slices     []Slice
	OptionJSON string
	LoadError  string
}
