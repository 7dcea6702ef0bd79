package trades

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tradeboard/infrastructure/cache"
	"tradeboard/models"
)

// ErrNotConfirmed is returned by Remove when the user did not confirm.
var ErrNotConfirmed = errors.New("delete not confirmed")

// RecordStore is the remote trade collection.
type RecordStore interface {
	List(ctx context.Context) ([]models.TradeRecord, error)
	Create(ctx context.Context, draft models.TradeRecord) error
	Update(ctx context.Context, id int64, record models.TradeRecord) error
	Remove(ctx context.Context, id int64) error
}

// Controller owns the local copy of the collection and re-fetches it after
// every successful mutation. It never patches the copy in place.
type Controller struct {
	store       RecordStore
	records     *cache.RecordCache
	options     []int
	defaultRows int
	logger      *slog.Logger
}

// NewController wires a controller; options are the allowed rows-per-page values.
func NewController(store RecordStore, records *cache.RecordCache, options []int, defaultRows int) *Controller {
	if records == nil {
		records = cache.NewRecordCache()
	}
	return &Controller{
		store:       store,
		records:     records,
		options:     options,
		defaultRows: defaultRows,
		logger:      slog.Default().With(slog.String("component", "trades")),
	}
}

// Load fetches the full collection. On failure the previous copy is kept.
func (c *Controller) Load(ctx context.Context) error {
	records, err := c.store.List(ctx)
	if err != nil {
		c.logger.Error("fetch trades failed", slog.Any("err", err))
		return fmt.Errorf("load trades: %w", err)
	}
	c.records.Replace(records)
	c.logger.Debug("trades loaded", slog.Int("count", len(records)))
	return nil
}

// Records returns the current copy in fetch order.
func (c *Controller) Records() []models.TradeRecord {
	return c.records.Snapshot()
}

// Find looks up a record in the current copy.
func (c *Controller) Find(id int64) (models.TradeRecord, bool) {
	return c.records.FindByID(id)
}

// NewState returns the initial table state: no filter, page 0, default page size.
func (c *Controller) NewState() TableState {
	return NewTableState(c.options, c.defaultRows)
}

// View derives the visible slice for state from the current copy, stamped
// with the time that copy was fetched.
func (c *Controller) View(state TableState) View {
	v := Derive(c.records.Snapshot(), state)
	v.LoadedAt = c.records.LoadedAt()
	return v
}

// Create submits draft and refreshes the copy on success.
func (c *Controller) Create(ctx context.Context, draft models.TradeRecord) error {
	if err := c.store.Create(ctx, draft); err != nil {
		c.logger.Error("create trade failed", slog.String("trade_code", draft.TradeCode), slog.Any("err", err))
		return fmt.Errorf("create trade: %w", err)
	}
	c.refresh(ctx)
	return nil
}

// Update replaces record id and refreshes the copy on success.
func (c *Controller) Update(ctx context.Context, id int64, record models.TradeRecord) error {
	if err := c.store.Update(ctx, id, record); err != nil {
		c.logger.Error("update trade failed", slog.Int64("id", id), slog.Any("err", err))
		return fmt.Errorf("update trade %d: %w", id, err)
	}
	c.refresh(ctx)
	return nil
}

// Remove deletes record id once confirmed is true; otherwise nothing is sent.
func (c *Controller) Remove(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := c.store.Remove(ctx, id); err != nil {
		c.logger.Error("delete trade failed", slog.Int64("id", id), slog.Any("err", err))
		return fmt.Errorf("delete trade %d: %w", id, err)
	}
	c.refresh(ctx)
	return nil
}

// refresh reloads after a mutation. The mutation already succeeded, so a failed
// reload only leaves the previous copy in place.
func (c *Controller) refresh(ctx context.Context) {
	_ = c.Load(ctx)
}
