package trades

import (
	"context"
	"errors"
	"sync"

	"tradeboard/models"
)

var errStoreDown = errors.New("store down")

type storeCall struct {
	Op     string
	ID     int64
	Record models.TradeRecord
}

// fakeStore is an in-memory RecordStore that records every call.
type fakeStore struct {
	mu      sync.Mutex
	records []models.TradeRecord
	nextID  int64
	calls   []storeCall
	failOps map[string]bool
	block   chan struct{}
}

func newFakeStore(records ...models.TradeRecord) *fakeStore {
	s := &fakeStore{failOps: map[string]bool{}, nextID: 1}
	for _, r := range records {
		s.records = append(s.records, r)
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	return s
}

func (s *fakeStore) record(op string, id int64, rec models.TradeRecord) error {
	s.mu.Lock()
	s.calls = append(s.calls, storeCall{Op: op, ID: id, Record: rec})
	fail := s.failOps[op]
	block := s.block
	s.mu.Unlock()
	if block != nil && op != "list" {
		<-block
	}
	if fail {
		return errStoreDown
	}
	return nil
}

func (s *fakeStore) List(_ context.Context) ([]models.TradeRecord, error) {
	if err := s.record("list", 0, models.TradeRecord{}); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TradeRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, draft models.TradeRecord) error {
	if err := s.record("create", 0, draft); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	draft.ID = s.nextID
	s.nextID++
	s.records = append(s.records, draft)
	return nil
}

func (s *fakeStore) Update(_ context.Context, id int64, rec models.TradeRecord) error {
	if err := s.record("update", id, rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			rec.ID = id
			s.records[i] = rec
		}
	}
	return nil
}

func (s *fakeStore) Remove(_ context.Context, id int64) error {
	if err := s.record("remove", id, models.TradeRecord{}); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

func (s *fakeStore) callsOf(op string) []storeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storeCall, 0)
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeStore) fail(op string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOps[op] = fail
}

var janata = models.TradeRecord{
	ID:        1,
	Date:      "2020-08-10",
	TradeCode: "1JANATAMF",
	High:      "4.3",
	Low:       "4.1",
	Open:      "4.2",
	Close:     "4.1",
	Volume:    "2,285,416",
}

func completeDraft() models.TradeRecord {
	return models.TradeRecord{Date: "2020-08-11", TradeCode: "AAMRATECH", High: "36.5", Low: "35.1", Open: "35.9", Close: "36.2", Volume: "1,048,120"}
}
