package data

import (
	"errors"
	"sort"
	"strings"

	"tradeboard/models"
)

var ErrNotFound = errors.New("trade not found")

// requiredFields are the wire names every stored trade must carry.
var requiredFields = []string{"date", "trade_code", "high", "low", "open", "close", "volume"}

// ValidationError names the required fields missing from a request body.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate reports blank required fields.
func Validate(r models.TradeRecord) error {
	missing := make([]string, 0)
	for _, name := range requiredFields {
		v, _ := r.Field(name)
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &ValidationError{Missing: missing}
}

type errorResponse struct {
	Error string `json:"error"`
}
