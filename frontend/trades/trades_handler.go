package trades

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tradeboard/infrastructure/cache"
	"tradeboard/models"
)

const (
	loadWarning       = "Could not refresh trades; showing the last loaded data."
	alreadySubmitted  = "This form was already submitted."
	deleteCancelled   = "Delete cancelled."
	tradeNotFound     = "Trade not found."
	invalidTradeID    = "Invalid trade id."
	invalidSubmission = "Invalid form submission."
)

func TradesPageQueryHandler(ctrl *Controller, subs *cache.SubmissionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		state := parseTableState(ctrl, query)

		data := PageData{
			Status: query.Get("status"),
			Error:  query.Get("error"),
		}
		if err := ctrl.Load(r.Context()); err != nil {
			data.LoadWarning = loadWarning
		}

		switch query.Get("dialog") {
		case "add":
			d := NewAddDialog(ctrl)
			d.Open(models.TradeRecord{})
			data.Dialog = newDialogData(d, "/trades", subs.Issue())
		case "update":
			id, err := strconv.ParseInt(query.Get("id"), 10, 64)
			if err != nil || id <= 0 {
				data.Error = invalidTradeID
				break
			}
			rec, ok := ctrl.Find(id)
			if !ok {
				data.Error = tradeNotFound
				break
			}
			d := NewUpdateDialog(ctrl)
			d.Open(rec)
			data.Dialog = newDialogData(d, "/trades/"+strconv.FormatInt(id, 10), subs.Issue())
		}

		data.View = ctrl.View(state)
		renderTradesPage(w, r, http.StatusOK, data)
	}
}

func CreateTradeCommandHandler(ctrl *Controller, subs *cache.SubmissionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/trades?error="+url.QueryEscape(invalidSubmission), http.StatusSeeOther)
			return
		}
		state := parseTableState(ctrl, r.PostForm)
		d := NewAddDialog(ctrl)
		d.Open(models.TradeRecord{})
		submitDialog(w, r, ctrl, subs, d, state, "/trades")
	}
}

func UpdateTradeCommandHandler(ctrl *Controller, subs *cache.SubmissionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/trades?error="+url.QueryEscape(invalidTradeID), http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/trades?error="+url.QueryEscape(invalidSubmission), http.StatusSeeOther)
			return
		}
		state := parseTableState(ctrl, r.PostForm)
		selected, ok := ctrl.Find(id)
		if !ok {
			selected = models.TradeRecord{ID: id}
		}
		d := NewUpdateDialog(ctrl)
		d.Open(selected)
		submitDialog(w, r, ctrl, subs, d, state, "/trades/"+strconv.FormatInt(id, 10))
	}
}

// submitDialog copies the posted fields into d and submits it once per token.
func submitDialog(w http.ResponseWriter, r *http.Request, ctrl *Controller, subs *cache.SubmissionCache, d *Dialog, state TableState, action string) {
	token := r.PostFormValue("submission_token")
	if !subs.Claim(token) {
		http.Redirect(w, r, listURL(state, url.Values{"error": {alreadySubmitted}}), http.StatusSeeOther)
		return
	}
	for _, f := range Schema {
		_ = d.SetField(f.Name, r.PostFormValue(f.Name))
	}

	err := d.Submit(r.Context())
	if err == nil {
		subs.Complete(token)
		http.Redirect(w, r, listURL(state, url.Values{"status": {d.SuccessMessage()}}), http.StatusSeeOther)
		return
	}
	subs.Release(token)

	status := http.StatusBadGateway
	var verr *ValidationError
	if errors.As(err, &verr) {
		status = http.StatusUnprocessableEntity
	} else {
		slog.Warn("trade dialog submit failed", slog.String("action", action), slog.Any("err", err))
	}
	data := PageData{
		View:   ctrl.View(state),
		Dialog: newDialogData(d, action, token),
	}
	renderTradesPage(w, r, status, data)
}

func DeleteTradePageQueryHandler(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := parseTableState(ctrl, r.URL.Query())
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, listURL(state, url.Values{"error": {invalidTradeID}}), http.StatusSeeOther)
			return
		}
		rec, ok := ctrl.Find(id)
		if !ok {
			if err := ctrl.Load(r.Context()); err == nil {
				rec, ok = ctrl.Find(id)
			}
		}
		if !ok {
			http.Redirect(w, r, listURL(state, url.Values{"error": {tradeNotFound}}), http.StatusSeeOther)
			return
		}
		data := PageData{
			View:    ctrl.View(state),
			Confirm: &rec,
		}
		renderTradesPage(w, r, http.StatusOK, data)
	}
}

func DeleteTradeCommandHandler(ctrl *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/trades?error="+url.QueryEscape(invalidSubmission), http.StatusSeeOther)
			return
		}
		state := parseTableState(ctrl, r.PostForm)
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, listURL(state, url.Values{"error": {invalidTradeID}}), http.StatusSeeOther)
			return
		}

		err = ctrl.Remove(r.Context(), id, r.PostFormValue("confirm") == "yes")
		switch {
		case errors.Is(err, ErrNotConfirmed):
			http.Redirect(w, r, listURL(state, url.Values{"status": {deleteCancelled}}), http.StatusSeeOther)
		case err != nil:
			http.Redirect(w, r, listURL(state, url.Values{"error": {DeleteFailedMessage}}), http.StatusSeeOther)
		default:
			http.Redirect(w, r, listURL(state, url.Values{"status": {DeletedMessage}}), http.StatusSeeOther)
		}
	}
}

func renderTradesPage(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := TradesPage(data).Render(r.Context(), w); err != nil {
		slog.Error("render trades page failed", slog.Any("err", err))
	}
}

// parseTableState reads q, page and rows. A prev_rows value that differs from
// rows means the page size changed, which sends the table back to page 0.
func parseTableState(ctrl *Controller, values url.Values) TableState {
	state := ctrl.NewState()
	rows, rowsErr := strconv.Atoi(values.Get("rows"))
	prev, prevErr := strconv.Atoi(values.Get("prev_rows"))
	switch {
	case prevErr == nil && state.allowed(prev):
		state.RowsPerPage = prev
	case rowsErr == nil && state.allowed(rows):
		state.RowsPerPage = rows
	}

	state.SetSearch(values.Get("q"))
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		state.SetPage(page)
	}
	if rowsErr == nil && rows != state.RowsPerPage {
		_ = state.SetRowsPerPage(rows)
	}
	return state
}

// listURL points back at the table with state and extra query values.
func listURL(state TableState, extra url.Values) string {
	return withState("/trades", state, extra)
}

func withState(path string, state TableState, extra url.Values) string {
	q := url.Values{}
	if state.SearchText != "" {
		q.Set("q", state.SearchText)
	}
	if state.Page > 0 {
		q.Set("page", strconv.Itoa(state.Page))
	}
	if state.RowsPerPage > 0 {
		q.Set("rows", strconv.Itoa(state.RowsPerPage))
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
