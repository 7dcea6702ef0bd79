package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tradeboard/backend/data"
	"tradeboard/infrastructure/audit"
	"tradeboard/infrastructure/config"
	httpserver "tradeboard/infrastructure/http"
	"tradeboard/infrastructure/sqlite"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "tradeapi",
		Short:         "JSON trade record store served over /data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+" when present)")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("tradeapi failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()

	db, err := sqlite.OpenDB(cfg.API.SQLitePath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := sqlite.ApplyEmbeddedMigrations(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if _, err := data.SeedIfEmpty(ctx, db, cfg.SeedFile()); err != nil {
		return fmt.Errorf("seed trades: %w", err)
	}

	server := httpserver.NewAPIServer(cfg.API.Addr, db, audit.NewService())
	if err := server.Start(); err != nil {
		return err
	}
	logger.Info("tradeapi listening", slog.String("addr", server.ListenAddr()), slog.String("db", cfg.API.SQLitePath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Error("graceful shutdown error", slog.Any("err", err))
	}
	return nil
}
