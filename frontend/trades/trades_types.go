package trades

import "tradeboard/models"

// PageData drives the trades page render.
type PageData struct {
	View        View
	Status      string
	Error       string
	LoadWarning string
	Dialog      *DialogData
	Confirm     *models.TradeRecord
}

// DialogData is an open add or update dialog.
type DialogData struct {
	Kind        DialogKind
	Action      string
	Title       string
	SubmitLabel string
	Draft       models.TradeRecord
	Errors      map[string]string
	Alert       string
	Token       string
}

func newDialogData(d *Dialog, action, token string) *DialogData {
	data := &DialogData{
		Kind:   d.Kind(),
		Action: action,
		Draft:  d.Draft(),
		Errors: d.FieldErrors(),
		Alert:  d.Alert(),
		Token:  token,
	}
	if d.Kind() == AddDialog {
		data.Title, data.SubmitLabel = "Add New Trade", "Add Trade"
	} else {
		data.Title, data.SubmitLabel = "Update Trade", "Update Trade"
	}
	return data
}
