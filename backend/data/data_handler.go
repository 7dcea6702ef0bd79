package data

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tradeboard/infrastructure/audit"
	"tradeboard/infrastructure/sqlite"
	"tradeboard/models"
)

const maxBodyBytes = 1 << 20

func ListTradesQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := ListTrades(r.Context(), db)
		if err != nil {
			slog.Error("list trades failed", slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, "failed to list trades")
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func GetTradeQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tradeID(w, r)
		if !ok {
			return
		}
		rec, err := GetTrade(r.Context(), db, id)
		if err != nil {
			writeStoreError(w, "get", id, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func TradeHistoryQueryHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tradeID(w, r)
		if !ok {
			return
		}
		rows, err := TradeHistory(r.Context(), db, auditSvc, id)
		if err != nil {
			writeStoreError(w, "load history for", id, err)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func CreateTradeCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, ok := decodeTrade(w, r)
		if !ok {
			return
		}
		stored, err := CreateTrade(r.Context(), db, auditSvc, rec)
		if err != nil {
			writeStoreError(w, "create", 0, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

func UpdateTradeCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tradeID(w, r)
		if !ok {
			return
		}
		rec, ok := decodeTrade(w, r)
		if !ok {
			return
		}
		stored, err := UpdateTrade(r.Context(), db, auditSvc, id, rec)
		if err != nil {
			writeStoreError(w, "update", id, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}

func DeleteTradeCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := tradeID(w, r)
		if !ok {
			return
		}
		if err := DeleteTrade(r.Context(), db, auditSvc, id); err != nil {
			writeStoreError(w, "delete", id, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func tradeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid trade id")
		return 0, false
	}
	return id, true
}

// decodeTrade reads a trade body; prices and volume may be strings or numbers.
// Any id in the body is ignored.
func decodeTrade(w http.ResponseWriter, r *http.Request) (models.TradeRecord, bool) {
	var body tradeBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return models.TradeRecord{}, false
	}
	return body.record(), true
}

func writeStoreError(w http.ResponseWriter, op string, id int64, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, ErrNotFound.Error())
	default:
		slog.Error("trade store failed", slog.String("op", op), slog.Int64("id", id), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to "+op+" trade")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
