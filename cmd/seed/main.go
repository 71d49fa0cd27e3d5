package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopcart/internal/config"
	"shopcart/internal/logging"
	"shopcart/internal/repository/state"
	"shopcart/internal/seed"
)

func main() {
	var (
		shopKey   string
		overwrite bool
	)
	flag.StringVar(&shopKey, "shop", "", "Shop key to seed")
	flag.BoolVar(&overwrite, "overwrite", false, "Replace an existing catalog and coupon list")
	flag.Parse()

	if shopKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := logging.MustNewLogger(cfg.ServiceName, cfg.LogEnv).Named("seed")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	repo, closeRepo, err := state.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open state store", zap.Error(err))
	}
	defer closeRepo()

	if err := seed.Apply(ctx, repo, shopKey, overwrite, logger); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.String("shop_key", shopKey), zap.String("store", cfg.StoreBackend))
}
