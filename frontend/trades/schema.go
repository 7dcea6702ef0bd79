package trades

// InputKind selects the form control rendered for a field.
type InputKind string

const (
	InputDate InputKind = "date"
	InputText InputKind = "text"
)

// Field is one editable column of a trade record.
type Field struct {
	Name  string
	Label string
	Kind  InputKind
}

// Schema lists the editable fields in display order. Both dialogs, the table
// header and the terminal client render from it.
var Schema = []Field{
	{Name: "date", Label: "Date", Kind: InputDate},
	{Name: "trade_code", Label: "Trade Code", Kind: InputText},
	{Name: "high", Label: "High", Kind: InputText},
	{Name: "low", Label: "Low", Kind: InputText},
	{Name: "open", Label: "Open", Kind: InputText},
	{Name: "close", Label: "Close", Kind: InputText},
	{Name: "volume", Label: "Volume", Kind: InputText},
}

// FieldByName finds a schema entry.
func FieldByName(name string) (Field, bool) {
	for _, f := range Schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Headers returns the table column titles, actions last.
func Headers() []string {
	out := make([]string, 0, len(Schema)+1)
	for _, f := range Schema {
		out = append(out, f.Label)
	}
	return append(out, "Actions")
}
