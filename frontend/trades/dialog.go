package trades

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tradeboard/models"
)

var (
	ErrDialogClosed       = errors.New("dialog is not open")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrUnknownField       = errors.New("unknown field")
)

// DialogState is the lifecycle of an edit dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	}
	return "closed"
}

// DialogKind tells the add dialog from the update dialog.
type DialogKind int

const (
	AddDialog DialogKind = iota
	UpdateDialog
)

const (
	AddedMessage   = "Trade added successfully!"
	UpdatedMessage = "Trade updated successfully!"
	DeletedMessage = "Trade deleted successfully!"

	AddFailedMessage    = "An error occurred while adding the trade."
	UpdateFailedMessage = "An error occurred while updating the trade."
	DeleteFailedMessage = "An error occurred while deleting the trade."
)

// ValidationError lists the required fields left empty, keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "missing required fields: " + strings.Join(names, ", ")
}

// Mutator is what a dialog submits to; the Controller implements it.
type Mutator interface {
	Create(ctx context.Context, draft models.TradeRecord) error
	Update(ctx context.Context, id int64, record models.TradeRecord) error
}

// Dialog holds a draft record and drives one add or update submission.
//
// Closed -> Open -> Submitting -> Closed on success, or back to Open with
// field errors or an alert.
type Dialog struct {
	mu     sync.Mutex
	kind   DialogKind
	target Mutator
	state  DialogState
	draft  models.TradeRecord
	errs   map[string]string
	alert  string
}

func NewAddDialog(target Mutator) *Dialog {
	return &Dialog{kind: AddDialog, target: target}
}

func NewUpdateDialog(target Mutator) *Dialog {
	return &Dialog{kind: UpdateDialog, target: target}
}

// Open shows the dialog. The add dialog keeps its current draft (blank at
// first); the update dialog is seeded from the selected record.
func (d *Dialog) Open(selected models.TradeRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.kind == UpdateDialog {
		d.draft = selected
	}
	d.state = DialogOpen
	d.errs = nil
	d.alert = ""
}

// Close hides the dialog without submitting. The draft is kept.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DialogOpen {
		d.state = DialogClosed
	}
}

// SetField edits the draft by field name.
func (d *Dialog) SetField(name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogOpen {
		return ErrDialogClosed
	}
	if _, ok := FieldByName(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	d.draft.SetField(name, value)
	delete(d.errs, name)
	return nil
}

// Submit validates the draft and sends it as a whole.
//
// Missing fields return a *ValidationError without any network call. A second
// Submit while one is outstanding returns ErrSubmissionInFlight.
func (d *Dialog) Submit(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case DialogClosed:
		d.mu.Unlock()
		return ErrDialogClosed
	case DialogSubmitting:
		d.mu.Unlock()
		return ErrSubmissionInFlight
	}
	if errs := ValidateRequired(d.draft); len(errs) > 0 {
		d.errs = errs
		d.mu.Unlock()
		return &ValidationError{Fields: errs}
	}
	d.state = DialogSubmitting
	d.errs = nil
	d.alert = ""
	draft := d.draft
	d.mu.Unlock()

	var err error
	if d.kind == AddDialog {
		err = d.target.Create(ctx, draft)
	} else {
		err = d.target.Update(ctx, draft.ID, draft)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = DialogOpen
		d.alert = d.failedMessage()
		return err
	}
	d.state = DialogClosed
	if d.kind == AddDialog {
		d.draft = models.TradeRecord{}
	}
	return nil
}

func (d *Dialog) failedMessage() string {
	if d.kind == AddDialog {
		return AddFailedMessage
	}
	return UpdateFailedMessage
}

// SuccessMessage is the alert shown after a successful submit.
func (d *Dialog) SuccessMessage() string {
	if d.kind == AddDialog {
		return AddedMessage
	}
	return UpdatedMessage
}

func (d *Dialog) Kind() DialogKind { return d.kind }

func (d *Dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dialog) Draft() models.TradeRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// FieldErrors returns a copy of the inline errors from the last Submit.
func (d *Dialog) FieldErrors() map[string]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]string, len(d.errs))
	for k, v := range d.errs {
		out[k] = v
	}
	return out
}

// Alert is the user-visible failure message of the last Submit, if any.
func (d *Dialog) Alert() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alert
}

// ValidateRequired reports every schema field whose value is blank.
func ValidateRequired(r models.TradeRecord) map[string]string {
	errs := make(map[string]string)
	for _, f := range Schema {
		v, _ := r.Field(f.Name)
		if strings.TrimSpace(v) == "" {
			errs[f.Name] = f.Label + " is required"
		}
	}
	return errs
}
