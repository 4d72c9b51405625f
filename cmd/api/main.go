package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/gachwala/storefront/internal/auth"
	"github.com/gachwala/storefront/internal/config"
	"github.com/gachwala/storefront/internal/handler"
	"github.com/gachwala/storefront/internal/repository"
	"github.com/gachwala/storefront/internal/server"
	"github.com/gachwala/storefront/internal/service"
	"github.com/gachwala/storefront/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Error("open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer backend.Close(context.Background())

	if err := backend.Migrate(ctx); err != nil {
		log.Error("migrate store", "driver", backend.Driver, "error", err)
		os.Exit(1)
	}
	log.Info("connected to store", "driver", backend.Driver)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ: one channel publishes from request handlers, one consumes.
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	consumeCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer consumeCh.Close()

	if err := worker.SetupRabbitMQ(consumeCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}

	publishCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer publishCh.Close()
	log.Info("connected to RabbitMQ")

	// Services
	store := backend.Store
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	svc := server.Services{
		Tokens:     tokens,
		Auth:       service.NewAuthService(store.Users, tokens),
		Users:      service.NewUserService(store.Users),
		Admins:     service.NewAdminService(store.Users),
		Categories: service.NewCategoryService(store.Categories, store.Products),
		Products:   service.NewProductService(store.Products, redisClient),
		Orders:     service.NewOrderService(store.Orders, worker.NewPublisher(publishCh), log),
		Health: handler.NewHealthHandler(
			handler.Check{Name: backend.Driver, Probe: backend.Ping},
			handler.Check{Name: "redis", Probe: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
			handler.Check{Name: "rabbitmq", Probe: func(context.Context) error {
				if amqpConn.IsClosed() {
					return amqp.ErrClosed
				}
				return nil
			}},
		),
	}

	// Worker
	timeline := worker.NewTimelineWorker(consumeCh, store.Orders, worker.NewRedisIdempotency(redisClient), log)
	if err := timeline.Start(ctx); err != nil {
		log.Error("start timeline worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.NewRouter(svc, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	timeline.Stop()
	cancel()
	log.Info("server stopped")
}
