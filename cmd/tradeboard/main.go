package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tradeboard/frontend/trades"
	"tradeboard/infrastructure/cache"
	"tradeboard/infrastructure/config"
	httpserver "tradeboard/infrastructure/http"
	"tradeboard/infrastructure/recordstore"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "tradeboard",
		Short:         "Trade records dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+" when present)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("tradeboard failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()

	store := recordstore.New(cfg.Dashboard.APIBaseURL, cfg.RequestTimeout())
	ctrl := trades.NewController(store, cache.NewRecordCache(), cfg.Dashboard.RowsPerPageOptions, cfg.Dashboard.DefaultRowsPerPage)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	if err := ctrl.Load(loadCtx); err != nil {
		logger.Warn("initial trade load failed; pages will retry", slog.Any("err", err))
	}
	cancel()

	server := httpserver.NewServer(cfg.Dashboard.Addr, ctrl, cache.NewSubmissionCache(time.Hour), cfg.Dashboard.PublicURL)
	if err := server.Start(); err != nil {
		return err
	}
	logger.Info("tradeboard listening", slog.String("addr", server.ListenAddr()), slog.String("api", cfg.Dashboard.APIBaseURL))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Error("graceful shutdown error", slog.Any("err", err))
	}
	return nil
}
