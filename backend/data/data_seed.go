package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tradeboard/infrastructure/sqlite"
	"tradeboard/models"
)

// flexValue accepts a JSON string or number and keeps its text.
type flexValue string

func (v *flexValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = flexValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("value %s is neither string nor number", b)
	}
	*v = flexValue(n.String())
	return nil
}

type tradeBody struct {
	Date      flexValue `json:"date"`
	TradeCode flexValue `json:"trade_code"`
	High      flexValue `json:"high"`
	Low       flexValue `json:"low"`
	Open      flexValue `json:"open"`
	Close     flexValue `json:"close"`
	Volume    flexValue `json:"volume"`
}

func (s tradeBody) record() models.TradeRecord {
	return models.TradeRecord{
		Date:      strings.TrimSpace(string(s.Date)),
		TradeCode: strings.TrimSpace(string(s.TradeCode)),
		High:      strings.TrimSpace(string(s.High)),
		Low:       strings.TrimSpace(string(s.Low)),
		Open:      strings.TrimSpace(string(s.Open)),
		Close:     strings.TrimSpace(string(s.Close)),
		Volume:    strings.TrimSpace(string(s.Volume)),
	}
}

// ParseSeed decodes a JSON array of trades. Rows missing required fields are
// skipped and counted.
func ParseSeed(raw []byte) ([]models.TradeRecord, int, error) {
	var rows []tradeBody
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, 0, fmt.Errorf("decode seed: %w", err)
	}
	records := make([]models.TradeRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec := row.record()
		if Validate(rec) != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// SeedIfEmpty loads the seed file at path when the trade table has no rows.
// It returns the number of inserted trades.
func SeedIfEmpty(ctx context.Context, db *sqlite.DB, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, nil
	}
	n, err := CountTrades(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	if n > 0 {
		slog.Info("trade store already populated; skipping seed", slog.Int("count", n))
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed %s: %w", path, err)
	}
	records, skipped, err := ParseSeed(raw)
	if err != nil {
		return 0, err
	}
	if err := InsertTrades(ctx, db, records); err != nil {
		return 0, err
	}
	slog.Info("trade store seeded", slog.String("path", path), slog.Int("inserted", len(records)), slog.Int("skipped", skipped))
	return len(records), nil
}
