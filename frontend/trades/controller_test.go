package trades

import (
	"context"
	"errors"
	"testing"

	"tradeboard/infrastructure/cache"
)

func newTestController(store *fakeStore) *Controller {
	return NewController(store, cache.NewRecordCache(), []int{5, 10, 25, 50, 100}, 100)
}

func TestLoad_ReplacesCopyOnSuccess(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := ctrl.Records(); len(got) != 1 || got[0] != janata {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestLoad_FailureKeepsPriorCopy(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	loadedAt := ctrl.View(ctrl.NewState()).LoadedAt
	if loadedAt.IsZero() {
		t.Fatalf("expected view to carry the load time")
	}

	store.fail("list", true)
	err := ctrl.Load(context.Background())
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if got := ctrl.Records(); len(got) != 1 {
		t.Fatalf("expected prior copy kept, got %d records", len(got))
	}
	if got := ctrl.View(ctrl.NewState()).LoadedAt; !got.Equal(loadedAt) {
		t.Fatalf("expected load time %v kept after failed load, got %v", loadedAt, got)
	}
}

func TestCreate_RefetchesWholeCollection(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)

	if err := ctrl.Create(context.Background(), completeDraft()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if n := len(store.callsOf("list")); n != 1 {
		t.Fatalf("expected one re-fetch after create, got %d", n)
	}
	if got := ctrl.Records(); len(got) != 2 || got[1].ID != 2 {
		t.Fatalf("expected server-assigned record in copy, got %+v", got)
	}
}

func TestCreate_FailureLeavesCopyAndSkipsRefetch(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)
	store.fail("create", true)

	if err := ctrl.Create(context.Background(), completeDraft()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if n := len(store.callsOf("list")); n != 0 {
		t.Fatalf("expected no re-fetch after failed create, got %d", n)
	}
}

func TestUpdate_SendsIDAndRefetches(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)

	changed := janata
	changed.Close = "4.4"
	if err := ctrl.Update(context.Background(), janata.ID, changed); err != nil {
		t.Fatalf("update: %v", err)
	}
	calls := store.callsOf("update")
	if len(calls) != 1 || calls[0].ID != 1 || calls[0].Record.Close != "4.4" {
		t.Fatalf("unexpected update calls: %+v", calls)
	}
	if r, ok := ctrl.Find(1); !ok || r.Close != "4.4" {
		t.Fatalf("expected refreshed record, got %+v ok=%v", r, ok)
	}
}

func TestRemove_WithoutConfirmationSendsNothing(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)

	err := ctrl.Remove(context.Background(), janata.ID, false)
	if !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %+v", store.calls)
	}
}

func TestRemove_ConfirmedSendsExactlyOneDelete(t *testing.T) {
	store := newFakeStore(janata)
	ctrl := newTestController(store)

	if err := ctrl.Remove(context.Background(), janata.ID, true); err != nil {
		t.Fatalf("remove: %v", err)
	}
	calls := store.callsOf("remove")
	if len(calls) != 1 || calls[0].ID != janata.ID {
		t.Fatalf("expected one delete for id 1, got %+v", calls)
	}
	if len(ctrl.Records()) != 0 {
		t.Fatalf("expected empty copy after delete re-fetch")
	}
}

func TestView_UsesCurrentCopy(t *testing.T) {
	store := newFakeStore(sampleRecords(12)...)
	ctrl := newTestController(store)
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	state := ctrl.NewState()
	if err := state.SetRowsPerPage(5); err != nil {
		t.Fatalf("set rows: %v", err)
	}
	state.SetPage(2)
	view := ctrl.View(state)
	if view.Count != 12 || len(view.Rows) != 2 || view.Rows[0].ID != 11 {
		t.Fatalf("unexpected view: count=%d rows=%+v", view.Count, view.Rows)
	}
}
