package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"shipment-savings-service/internal/adapters/rows"
	"shipment-savings-service/internal/app"
	"shipment-savings-service/internal/config"
	"shipment-savings-service/internal/platform/logger"
	"syscall"
	"unicode/utf8"

	"go.uber.org/zap"
)

// main runs one batch: read the input sheet, compute savings row by row and
// write the enriched sheet next to it.
func main() {
	envLoaded := config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if !envLoaded {
		log.Info("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error("saving run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	comma, _ := utf8.DecodeRuneInString(config.Get("CSV_DELIMITER", ","))

	table, err := rows.ReadFile(cfg.InputPath, cfg.InputSheet, comma)
	if err != nil {
		return err
	}
	zap.L().Info("input loaded", zap.String("path", cfg.InputPath), zap.Int("rows", len(table.Rows)))

	c, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	sink, err := rows.CreateFileSink(cfg.OutputPath, "saving", table.Header, comma)
	if err != nil {
		return err
	}

	summary, err := c.Pipeline.Run(ctx, table.Rows, sink)
	if err != nil {
		return err
	}

	if err := sink.Close(); err != nil {
		return err
	}

	zap.L().Info("saving run complete",
		zap.String("output", cfg.OutputPath),
		zap.Int("rows", summary.Rows),
		zap.Int("computed", summary.Computed),
		zap.Int("absent", summary.Absent),
		zap.Float64("total_saved", summary.TotalSaved),
		zap.Int("cache_entries", c.Resolver.CacheSize()),
	)
	return nil
}
