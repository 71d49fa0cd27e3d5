package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopcart/internal/config"
	"shopcart/internal/importer"
	"shopcart/internal/logging"
	"shopcart/internal/repository/state"
	"shopcart/internal/service/catalog"
	"shopcart/internal/service/shop"
)

func main() {
	var (
		filePath string
		shopKey  string
	)
	flag.StringVar(&filePath, "file", "", "Path to product CSV (name,description,price,stock,discounts,recommended)")
	flag.StringVar(&shopKey, "shop", "", "Shop key to import into")
	flag.Parse()

	if filePath == "" || shopKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := logging.MustNewLogger(cfg.ServiceName, cfg.LogEnv).Named("importer")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	repo, closeRepo, err := state.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open state store", zap.Error(err))
	}
	defer closeRepo()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	limits := catalog.Limits{MaxPrice: cfg.MaxPrice, MaxStock: cfg.MaxStock}
	svc := shop.New(repo, shop.Options{Logger: logger, Limits: limits})
	imp := importer.NewCSVImporter(f, svc, shopKey, limits)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	for _, rowErr := range res.RowErrors {
		logger.Warn("row skipped", zap.Int("line", rowErr.Line), zap.String("reason", rowErr.Reason))
	}

	fmt.Printf("Imported %d products into shop %s in %s (%d skipped)\n",
		res.Imported, shopKey, time.Since(start).Truncate(time.Millisecond), res.Skipped)
}
