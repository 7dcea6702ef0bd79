package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// TradeRecord is one day of trading data for one instrument.
//
// Prices and volume stay strings end to end: they are stored and sent as typed.
type TradeRecord struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Date      string `bun:"date,notnull" json:"date"`
	TradeCode string `bun:"trade_code,notnull" json:"trade_code"`
	High      string `bun:"high,notnull" json:"high"`
	Low       string `bun:"low,notnull" json:"low"`
	Open      string `bun:"open,notnull" json:"open"`
	Close     string `bun:"close,notnull" json:"close"`
	Volume    string `bun:"volume,notnull" json:"volume"`
}

// FieldValues returns the record's values in wire order, id first.
func (r TradeRecord) FieldValues() []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Date,
		r.TradeCode,
		r.High,
		r.Low,
		r.Open,
		r.Close,
		r.Volume,
	}
}

// SearchText is the lower-cased, space-joined concatenation of every field value.
func (r TradeRecord) SearchText() string {
	return strings.ToLower(strings.Join(r.FieldValues(), " "))
}

// Field returns the value of a non-id field by its wire name.
func (r TradeRecord) Field(name string) (string, bool) {
	switch name {
	case "date":
		return r.Date, true
	case "trade_code":
		return r.TradeCode, true
	case "high":
		return r.High, true
	case "low":
		return r.Low, true
	case "open":
		return r.Open, true
	case "close":
		return r.Close, true
	case "volume":
		return r.Volume, true
	}
	return "", false
}

// SetField assigns a non-id field by its wire name. Unknown names are reported as false.
func (r *TradeRecord) SetField(name, value string) bool {
	switch name {
	case "date":
		r.Date = value
	case "trade_code":
		r.TradeCode = value
	case "high":
		r.High = value
	case "low":
		r.Low = value
	case "open":
		r.Open = value
	case "close":
		r.Close = value
	case "volume":
		r.Volume = value
	default:
		return false
	}
	return true
}

// AuditLog captures immutable change history for trade mutations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	Action     string    `bun:"action,notnull" json:"action"`
	EntityType string    `bun:"entity_type,notnull" json:"entity_type"`
	EntityID   string    `bun:"entity_id,notnull" json:"entity_id"`
	BeforeJSON string    `bun:"before_json" json:"before,omitempty"`
	AfterJSON  string    `bun:"after_json" json:"after,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
