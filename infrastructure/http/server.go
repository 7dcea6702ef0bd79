package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"tradeboard/frontend/trades"
	"tradeboard/infrastructure/cache"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// Server is the dashboard: the trade table, its dialogs and the reports.
type Server struct {
	lifecycle
	router *chi.Mux

	Trades      *trades.Controller
	Submissions *cache.SubmissionCache
	PublicURL   string
}

// NewServer creates the dashboard http server.
func NewServer(addr string, ctrl *trades.Controller, subs *cache.SubmissionCache, publicURL string) *Server {
	s := &Server{
		lifecycle:   newLifecycle(addr),
		router:      chi.NewRouter(),
		Trades:      ctrl,
		Submissions: subs,
		PublicURL:   publicURL,
	}

	useCommonMiddleware(s.router)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/trades", http.StatusSeeOther)
	})
	s.router.Get("/health", healthHandler)

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.RegisterTradeRoutes(s.router)
	s.RegisterReportRoutes(s.router)

	s.server.Handler = s.router
	return s
}

// Handler exposes the router, e.g. for httptest servers.
func (s *Server) Handler() http.Handler { return s.router }

// useCommonMiddleware installs secure headers, access logs, panic recovery and request ids.
func useCommonMiddleware(r chi.Router) {
	// Secure headers first.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// lifecycle owns the listener and graceful shutdown shared by both servers.
type lifecycle struct {
	Addr   string
	ln     net.Listener
	server *http.Server
}

func newLifecycle(addr string) lifecycle {
	return lifecycle{
		Addr: addr,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the HTTP server.
func (l *lifecycle) Start() error {
	var err error
	if l.ln, err = net.Listen("tcp", l.Addr); err != nil {
		return err
	}
	go func() {
		if err := l.server.Serve(l.ln); err != nil && err != http.ErrServerClosed {
			slog.Error("http server stopped", slog.String("addr", l.Addr), slog.Any("err", err))
		}
	}()
	return nil
}

// ListenAddr is the bound address once started.
func (l *lifecycle) ListenAddr() string {
	if l.ln == nil {
		return l.Addr
	}
	return l.ln.Addr().String()
}

// Stop gracefully shuts down the server.
func (l *lifecycle) Stop() error {
	if l.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := l.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	l.ln = nil
	return nil
}
