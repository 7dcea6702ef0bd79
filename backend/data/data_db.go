package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"tradeboard/infrastructure/audit"
	"tradeboard/infrastructure/sqlite"
	"tradeboard/models"
)

// ListTrades returns every stored trade in insertion order.
func ListTrades(ctx context.Context, db *sqlite.DB) ([]models.TradeRecord, error) {
	rows := make([]models.TradeRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&rows).Order("t.id ASC").Scan(ctx)
	})
	return rows, err
}

func GetTrade(ctx context.Context, db *sqlite.DB, id int64) (models.TradeRecord, error) {
	var rec models.TradeRecord
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rec, err = loadTrade(ctx, tx, id)
		return err
	})
	return rec, err
}

// TradeHistory returns the audit rows of one trade, oldest first. It still
// answers after the trade is deleted; an id that was never written is ErrNotFound.
func TradeHistory(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		rows, err = auditSvc.ListForEntity(ctx, tx, audit.EntityTrade, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list trade %d history: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

func CountTrades(ctx context.Context, db *sqlite.DB) (int, error) {
	var n int
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		n, err = tx.NewSelect().Model((*models.TradeRecord)(nil)).Count(ctx)
		return err
	})
	return n, err
}

// CreateTrade stores rec under a fresh id, ignoring any id the caller sent.
func CreateTrade(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, rec models.TradeRecord) (models.TradeRecord, error) {
	if err := Validate(rec); err != nil {
		return models.TradeRecord{}, err
	}
	rec.ID = 0
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().Model(&rec).Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
		if rec.ID == 0 {
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert trade id: %w", err)
			}
			rec.ID = id
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, audit.ActionTradeCreate, audit.EntityTrade, rec.ID, nil, rec)
		}
		return nil
	})
	if err != nil {
		return models.TradeRecord{}, err
	}
	return rec, nil
}

// UpdateTrade replaces every non-id field of trade id.
func UpdateTrade(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64, rec models.TradeRecord) (models.TradeRecord, error) {
	if err := Validate(rec); err != nil {
		return models.TradeRecord{}, err
	}
	rec.ID = id
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		before, err := loadTrade(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewUpdate().Model(&rec).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("update trade %d: %w", id, err)
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, audit.ActionTradeUpdate, audit.EntityTrade, id, before, rec)
		}
		return nil
	})
	if err != nil {
		return models.TradeRecord{}, err
	}
	return rec, nil
}

func DeleteTrade(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		before, err := loadTrade(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.TradeRecord)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete trade %d: %w", id, err)
		}
		if auditSvc != nil {
			return auditSvc.Write(ctx, tx, audit.ActionTradeDelete, audit.EntityTrade, id, before, nil)
		}
		return nil
	})
}

// InsertTrades bulk-loads records without audit rows; ids are assigned by the store.
func InsertTrades(ctx context.Context, db *sqlite.DB, records []models.TradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		records[i].ID = 0
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for i := range records {
			if _, err := tx.NewInsert().Model(&records[i]).Exec(ctx); err != nil {
				return fmt.Errorf("insert seed trade %d: %w", i, err)
			}
		}
		return nil
	})
}

func loadTrade(ctx context.Context, tx bun.Tx, id int64) (models.TradeRecord, error) {
	var rec models.TradeRecord
	err := tx.NewSelect().Model(&rec).Where("t.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TradeRecord{}, ErrNotFound
	}
	return rec, err
}
