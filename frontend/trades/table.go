package trades

import (
	"fmt"
	"strings"
	"time"

	"tradeboard/models"
)

// TableState is the ephemeral filter and pagination cursor of one table view.
type TableState struct {
	SearchText  string
	Page        int
	RowsPerPage int
	Options     []int
}

// NewTableState starts on page 0 with rowsPerPage rows.
func NewTableState(options []int, rowsPerPage int) TableState {
	return TableState{Page: 0, RowsPerPage: rowsPerPage, Options: options}
}

// SetSearch replaces the filter string. The page is left as is.
func (s *TableState) SetSearch(text string) {
	s.SearchText = text
}

// SetPage moves the cursor; negative pages are treated as 0.
func (s *TableState) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	s.Page = page
}

// SetRowsPerPage changes the page size and always resets the page to 0.
func (s *TableState) SetRowsPerPage(n int) error {
	if !s.allowed(n) {
		return fmt.Errorf("rows per page %d is not one of %v", n, s.Options)
	}
	s.RowsPerPage = n
	s.Page = 0
	return nil
}

func (s TableState) allowed(n int) bool {
	for _, o := range s.Options {
		if o == n {
			return true
		}
	}
	return false
}

// Filter keeps records whose joined field values contain text, ignoring case.
// Order is preserved and an empty text keeps everything.
func Filter(records []models.TradeRecord, text string) []models.TradeRecord {
	if text == "" {
		out := make([]models.TradeRecord, len(records))
		copy(out, records)
		return out
	}
	needle := strings.ToLower(text)
	out := make([]models.TradeRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(r.SearchText(), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Paginate returns filtered[page*rowsPerPage : (page+1)*rowsPerPage] clamped to bounds.
func Paginate(filtered []models.TradeRecord, page, rowsPerPage int) []models.TradeRecord {
	if rowsPerPage <= 0 || page < 0 || page >= pagesFor(len(filtered), rowsPerPage) {
		return []models.TradeRecord{}
	}
	// page is below the page count, so page*rowsPerPage < len(filtered).
	start := page * rowsPerPage
	end := len(filtered)
	if end-start > rowsPerPage {
		end = start + rowsPerPage
	}
	return filtered[start:end]
}

// pagesFor is the number of non-empty pages; it never multiplies by page.
func pagesFor(n, rowsPerPage int) int {
	if n <= 0 || rowsPerPage <= 0 {
		return 0
	}
	return (n-1)/rowsPerPage + 1
}

// View is the derived window of records the table renders.
type View struct {
	Rows        []models.TradeRecord
	Count       int
	SearchText  string
	Page        int
	RowsPerPage int
	Options     []int
	// LoadedAt is when the underlying records were fetched; zero if never.
	LoadedAt time.Time
}

// Derive computes the visible slice from the records and the state.
func Derive(records []models.TradeRecord, state TableState) View {
	filtered := Filter(records, state.SearchText)
	return View{
		Rows:        Paginate(filtered, state.Page, state.RowsPerPage),
		Count:       len(filtered),
		SearchText:  state.SearchText,
		Page:        state.Page,
		RowsPerPage: state.RowsPerPage,
		Options:     state.Options,
	}
}

// PageCount is the number of pages for the filtered count, at least 1.
func (v View) PageCount() int {
	if n := pagesFor(v.Count, v.RowsPerPage); n > 0 {
		return n
	}
	return 1
}

func (v View) HasPrev() bool { return v.Page > 0 }

func (v View) HasNext() bool {
	return v.Page >= 0 && v.Page < pagesFor(v.Count, v.RowsPerPage)-1
}

// Range is the pager caption, e.g. "1-100 of 250".
func (v View) Range() string {
	if len(v.Rows) == 0 || v.Page >= pagesFor(v.Count, v.RowsPerPage) {
		return fmt.Sprintf("0-0 of %d", v.Count)
	}
	from := v.Page*v.RowsPerPage + 1
	return fmt.Sprintf("%d-%d of %d", from, from+len(v.Rows)-1, v.Count)
}
