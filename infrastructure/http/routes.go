package http

import (
	"tradeboard/backend/data"
	"tradeboard/frontend/reports"
	"tradeboard/frontend/trades"

	"github.com/go-chi/chi/v5"
)

// RegisterTradeRoutes registers the table page and its dialog commands.
func (s *Server) RegisterTradeRoutes(r chi.Router) {
	r.Get("/trades", trades.TradesPageQueryHandler(s.Trades, s.Submissions))
	r.Post("/trades", trades.CreateTradeCommandHandler(s.Trades, s.Submissions))
	r.Post("/trades/{id}", trades.UpdateTradeCommandHandler(s.Trades, s.Submissions))
	r.Get("/trades/{id}/delete", trades.DeleteTradePageQueryHandler(s.Trades))
	r.Post("/trades/{id}/delete", trades.DeleteTradeCommandHandler(s.Trades))
}

// RegisterReportRoutes registers the charts and their exports.
func (s *Server) RegisterReportRoutes(r chi.Router) {
	r.Get("/reports", reports.ReportsPageQueryHandler(s.Trades))
	r.Get("/reports/analytics", reports.AnalyticsPageQueryHandler(s.Trades))
	r.Get("/reports/export.pdf", reports.ExportPDFQueryHandler(s.Trades, s.PublicURL))
	r.Get("/reports/share.png", reports.ShareQRQueryHandler(s.PublicURL))
}

// RegisterDataRoutes registers the JSON trade collection.
func (s *APIServer) RegisterDataRoutes(r chi.Router) {
	r.Get("/data", data.ListTradesQueryHandler(s.DB))
	r.Post("/data", data.CreateTradeCommandHandler(s.DB, s.Audit))
	r.Get("/data/{id}", data.GetTradeQueryHandler(s.DB))
	r.Get("/data/{id}/audit", data.TradeHistoryQueryHandler(s.DB, s.Audit))
	r.Put("/data/{id}", data.UpdateTradeCommandHandler(s.DB, s.Audit))
	r.Delete("/data/{id}", data.DeleteTradeCommandHandler(s.DB, s.Audit))
}
