package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"order-manager/internal/config"
	"order-manager/internal/connections/database"
	"order-manager/internal/connections/rabbitmq"
	"order-manager/internal/httpx"
	"order-manager/internal/metrics"
	"order-manager/internal/orders/consumer"
	"order-manager/internal/orders/handlers"
	"order-manager/internal/orders/repository"
	"order-manager/internal/orders/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DSN(), logger.With(zap.String("component", "database")))
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("postgres connected", zap.String("host", cfg.DB.Host), zap.String("database", cfg.DB.Name))

	rmq, err := rabbitmq.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("rabbitmq connect failed", zap.Error(err))
	}
	defer rmq.Close()
	if err := rmq.Ping(); err != nil {
		logger.Fatal("rabbitmq ping failed", zap.Error(err))
	}
	if err := rmq.DeclareQueue(cfg.KitchenQueue); err != nil {
		logger.Fatal("declare kitchen queue failed", zap.Error(err))
	}
	logger.Info("rabbitmq connected", zap.String("kitchen_queue", cfg.KitchenQueue))

	m := metrics.New()
	repo := repository.New(pool)
	svc := service.NewOrderService(repo, rmq, cfg.KitchenQueue, m,
		logger.With(zap.String("component", "orders")))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	handlers.New(svc, logger.With(zap.String("component", "http"))).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	cons := consumer.New(rmq, svc, cfg.ManagerQueue, cfg.PrefetchCount,
		logger.With(zap.String("component", "consumer")))

	consErr := make(chan error, 1)
	go func() { consErr <- cons.Run(ctx) }()

	logger.Info("manager service is listening", zap.String("port", cfg.HTTPPort))
	if err := httpx.New(":"+cfg.HTTPPort, r).Run(ctx); err != nil {
		logger.Error("http server failed", zap.Error(err))
		cancel()
	}

	if err := <-consErr; err != nil {
		logger.Error("consumer stopped with error", zap.Error(err))
	}
	logger.Info("manager service stopped")
}
