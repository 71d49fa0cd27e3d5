package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopcart/internal/config"
	"shopcart/internal/httpserver"
	"shopcart/internal/logging"
	"shopcart/internal/messaging/kafka"
	"shopcart/internal/metrics"
	"shopcart/internal/repository/state"
	"shopcart/internal/service/catalog"
	"shopcart/internal/service/shop"
)

type publisher interface {
	shop.Publisher
	Close() error
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := logging.MustNewLogger(cfg.ServiceName, cfg.LogEnv).Named("api")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	repo, closeRepo, err := state.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open state store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeRepo()

	var pub publisher = kafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = kafka.NewPublisher(cfg.KafkaBrokers, cfg.OrderTopic, logger)
	}
	defer func() { _ = pub.Close() }()

	m := metrics.New()
	shopService := shop.New(repo, shop.Options{
		Logger:    logger,
		Metrics:   m,
		Publisher: pub,
		Limits:    catalog.Limits{MaxPrice: cfg.MaxPrice, MaxStock: cfg.MaxStock},
	})

	gin.SetMode(gin.ReleaseMode)
	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Shop:        shopService,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.StoreBackend),
			zap.Bool("kafka", len(cfg.KafkaBrokers) > 0),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
