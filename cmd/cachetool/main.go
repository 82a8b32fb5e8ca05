package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"shipment-savings-service/internal/adapters/cache"
	"shipment-savings-service/internal/app"
	"shipment-savings-service/internal/config"
	"shipment-savings-service/internal/platform/logger"

	"go.uber.org/zap"
)

// cachetool prepares a database-backed coordinate cache: it creates the
// schema and, unless -schema-only is set, copies an existing JSON cache
// document into it.
func main() {
	config.LoadEnv()

	from := flag.String("from", config.Get("CACHE_PATH", "coord_cache.json"), "JSON cache document to import")
	schemaOnly := flag.Bool("schema-only", false, "create the schema and exit")
	flag.Parse()

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

	if cfg.CacheBackend == "file" {
		log.Fatal("CACHE_BACKEND must name a database backend (sqlite, postgres, redis)")
	}

	ctx := context.Background()

	log.Info("opening coordinate store", zap.String("backend", cfg.CacheBackend))
	dst, closer, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer closer()
	log.Info("schema ready")

	if *schemaOnly {
		return
	}

	n, err := cache.ImportEntries(ctx, cache.NewFileCoordinateStore(*from), dst)
	if err != nil {
		log.Fatal("import failed", zap.String("from", *from), zap.Int("imported", n), zap.Error(err))
	}
	log.Info("import complete", zap.String("from", *from), zap.Int("entries", n))
}
