package trades

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradeboard/models"
)

func fillDialog(t *testing.T, d *Dialog, r models.TradeRecord) {
	t.Helper()
	for _, f := range Schema {
		v, _ := r.Field(f.Name)
		if err := d.SetField(f.Name, v); err != nil {
			t.Fatalf("set %s: %v", f.Name, err)
		}
	}
}

func TestAddDialog_AnyMissingFieldBlocksNetwork(t *testing.T) {
	for _, missing := range Schema {
		store := newFakeStore()
		d := NewAddDialog(newTestController(store))
		d.Open(models.TradeRecord{})
		draft := completeDraft()
		draft.SetField(missing.Name, "")
		fillDialog(t, d, draft)

		err := d.Submit(context.Background())
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("missing %s: expected ValidationError, got %v", missing.Name, err)
		}
		if _, ok := verr.Fields[missing.Name]; !ok || len(verr.Fields) != 1 {
			t.Fatalf("missing %s: unexpected field errors %+v", missing.Name, verr.Fields)
		}
		if len(store.calls) != 0 {
			t.Fatalf("missing %s: expected no network call, got %+v", missing.Name, store.calls)
		}
		if d.State() != DialogOpen {
			t.Fatalf("missing %s: expected dialog open, got %v", missing.Name, d.State())
		}
		if _, ok := d.FieldErrors()[missing.Name]; !ok {
			t.Fatalf("missing %s: expected inline error", missing.Name)
		}
	}
}

func TestAddDialog_CompleteDraftCreatesOnceThenClears(t *testing.T) {
	store := newFakeStore()
	d := NewAddDialog(newTestController(store))
	d.Open(models.TradeRecord{})
	draft := completeDraft()
	fillDialog(t, d, draft)

	if err := d.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	calls := store.callsOf("create")
	if len(calls) != 1 {
		t.Fatalf("expected exactly one create call, got %d", len(calls))
	}
	if calls[0].Record != draft {
		t.Fatalf("expected exact draft values, got %+v", calls[0].Record)
	}
	if d.State() != DialogClosed {
		t.Fatalf("expected closed dialog, got %v", d.State())
	}
	if d.Draft() != (models.TradeRecord{}) {
		t.Fatalf("expected cleared draft, got %+v", d.Draft())
	}
	if d.SuccessMessage() != AddedMessage {
		t.Fatalf("unexpected success message %q", d.SuccessMessage())
	}
}

func TestAddDialog_NetworkFailureKeepsDraftAndAlerts(t *testing.T) {
	store := newFakeStore()
	store.fail("create", true)
	d := NewAddDialog(newTestController(store))
	d.Open(models.TradeRecord{})
	draft := completeDraft()
	fillDialog(t, d, draft)

	if err := d.Submit(context.Background()); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	if d.State() != DialogOpen {
		t.Fatalf("expected open dialog after failure, got %v", d.State())
	}
	if d.Alert() != AddFailedMessage {
		t.Fatalf("expected alert %q, got %q", AddFailedMessage, d.Alert())
	}
	if d.Draft() != draft {
		t.Fatalf("expected draft kept after failure")
	}
}

func TestUpdateDialog_SeededFromSelectionAndValidated(t *testing.T) {
	store := newFakeStore(janata)
	d := NewUpdateDialog(newTestController(store))
	d.Open(janata)
	if d.Draft() != janata {
		t.Fatalf("expected seeded draft, got %+v", d.Draft())
	}

	if err := d.SetField("close", ""); err != nil {
		t.Fatalf("set close: %v", err)
	}
	var verr *ValidationError
	if err := d.Submit(context.Background()); !errors.As(err, &verr) {
		t.Fatalf("expected validation error on update, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no network call, got %+v", store.calls)
	}

	if err := d.SetField("close", "4.5"); err != nil {
		t.Fatalf("set close: %v", err)
	}
	if err := d.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	calls := store.callsOf("update")
	if len(calls) != 1 || calls[0].ID != janata.ID || calls[0].Record.Close != "4.5" || calls[0].Record.Volume != janata.Volume {
		t.Fatalf("expected whole record sent for id 1, got %+v", calls)
	}
	if d.State() != DialogClosed {
		t.Fatalf("expected closed dialog, got %v", d.State())
	}
}

func TestDialog_SecondSubmitWhileInFlightIsRejected(t *testing.T) {
	store := newFakeStore()
	store.block = make(chan struct{})
	d := NewAddDialog(newTestController(store))
	d.Open(models.TradeRecord{})
	fillDialog(t, d, completeDraft())

	done := make(chan error, 1)
	go func() { done <- d.Submit(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for d.State() != DialogSubmitting {
		if time.Now().After(deadline) {
			t.Fatalf("first submit never reached submitting state")
		}
		time.Sleep(time.Millisecond)
	}
	if err := d.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(store.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if n := len(store.callsOf("create")); n != 1 {
		t.Fatalf("expected one create call, got %d", n)
	}
}

func TestDialog_ClosedRejectsEditsAndSubmit(t *testing.T) {
	d := NewAddDialog(newTestController(newFakeStore()))
	if err := d.SetField("date", "2020-01-01"); !errors.Is(err, ErrDialogClosed) {
		t.Fatalf("expected ErrDialogClosed on SetField, got %v", err)
	}
	if err := d.Submit(context.Background()); !errors.Is(err, ErrDialogClosed) {
		t.Fatalf("expected ErrDialogClosed on Submit, got %v", err)
	}
	d.Open(models.TradeRecord{})
	if err := d.SetField("id", "5"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestAddDialog_CloseKeepsDraftForReopen(t *testing.T) {
	d := NewAddDialog(newTestController(newFakeStore()))
	d.Open(models.TradeRecord{})
	if err := d.SetField("trade_code", "ACI"); err != nil {
		t.Fatalf("set: %v", err)
	}
	d.Close()
	d.Open(models.TradeRecord{})
	if d.Draft().TradeCode != "ACI" {
		t.Fatalf("expected draft kept across close/open, got %+v", d.Draft())
	}
}
