package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"tradeboard/models"
)

const (
	ActionTradeCreate = "trade.create"
	ActionTradeUpdate = "trade.update"
	ActionTradeDelete = "trade.delete"

	EntityTrade = "trades"
)

// Service writes audit records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Write stores one change; before and after are JSON-encoded, nil becomes empty.
func (s *Service) Write(ctx context.Context, tx bun.Tx, action, entityType string, entityID int64, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return fmt.Errorf("encode audit before: %w", err)
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return fmt.Errorf("encode audit after: %w", err)
	}
	entry := &models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   fmt.Sprintf("%d", entityID),
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(entry).Exec(ctx)
	return err
}

// ListForEntity returns the history of one entity, oldest first.
func (s *Service) ListForEntity(ctx context.Context, tx bun.Tx, entityType string, entityID int64) ([]models.AuditLog, error) {
	rows := make([]models.AuditLog, 0)
	err := tx.NewSelect().
		Model(&rows).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", fmt.Sprintf("%d", entityID)).
		Order("id ASC").
		Scan(ctx)
	return rows, err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
