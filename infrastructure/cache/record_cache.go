package cache

import (
	"sync"
	"time"

	"tradeboard/models"
)

// RecordCache holds the last collection fetched from the trade API.
//
// The snapshot is only ever replaced wholesale; callers get copies.
type RecordCache struct {
	mu       sync.RWMutex
	records  []models.TradeRecord
	loadedAt time.Time
}

func NewRecordCache() *RecordCache {
	return &RecordCache{}
}

// Replace swaps in a new snapshot.
func (c *RecordCache) Replace(records []models.TradeRecord) {
	next := make([]models.TradeRecord, len(records))
	copy(next, records)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = next
	c.loadedAt = time.Now()
}

// Snapshot returns a copy of the current records in fetch order.
func (c *RecordCache) Snapshot() []models.TradeRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.TradeRecord, len(c.records))
	copy(out, c.records)
	return out
}

// FindByID looks a record up in the current snapshot.
func (c *RecordCache) FindByID(id int64) (models.TradeRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.TradeRecord{}, false
}

// LoadedAt is the time of the last successful Replace; zero before the first load.
func (c *RecordCache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
