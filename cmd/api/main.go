package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hussein221k/Ecommerce/handlers"
	"github.com/hussein221k/Ecommerce/internal/auth"
	"github.com/hussein221k/Ecommerce/internal/cart"
	"github.com/hussein221k/Ecommerce/internal/config"
	"github.com/hussein221k/Ecommerce/internal/consul"
	"github.com/hussein221k/Ecommerce/internal/content"
	"github.com/hussein221k/Ecommerce/internal/favorites"
	"github.com/hussein221k/Ecommerce/internal/orders"
	"github.com/hussein221k/Ecommerce/internal/payments"
	"github.com/hussein221k/Ecommerce/internal/products"
	"github.com/hussein221k/Ecommerce/internal/reviews"
	"github.com/hussein221k/Ecommerce/internal/stores/kafka"
	"github.com/hussein221k/Ecommerce/internal/stores/postgres"
	"github.com/hussein221k/Ecommerce/internal/uploader"
	"github.com/hussein221k/Ecommerce/internal/users"
	"github.com/hussein221k/Ecommerce/pkg/logkey"
)

func main() {
	setupSlog()

	if err := run(); err != nil {
		slog.Error("startup failed", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func setupSlog() {
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	})
	slog.SetDefault(slog.New(logHandler))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := postgres.OpenDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return err
	}
	slog.Info("database ready")

	keys, err := auth.NewKeys(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	productsConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cartConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	ordersConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}
	paymentsConf, err := payments.NewConf(db)
	if err != nil {
		return err
	}
	reviewsConf, err := reviews.NewConf(db)
	if err != nil {
		return err
	}
	favoritesConf, err := favorites.NewConf(db, productsConf)
	if err != nil {
		return err
	}
	usersConf, err := users.NewConf(db)
	if err != nil {
		return err
	}
	contentConf, err := content.NewConf(db)
	if err != nil {
		return err
	}

	// Kafka is optional: without brokers the order events are simply not
	// published.
	var kafkaConf *kafka.Conf
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConf, err = kafka.NewConf(cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer kafkaConf.Close()
		slog.Info("kafka producer ready", slog.Int("Brokers", len(cfg.Kafka.Brokers)))
	}

	var uploaderConf *uploader.Conf
	if cfg.Upload.Endpoint != "" {
		uploaderConf, err = uploader.NewConf(cfg.Upload.Endpoint, cfg.Upload.APIKey, cfg.Upload.Folder)
		if err != nil {
			return err
		}
	}

	if cfg.Consul.Address != "" {
		client, err := consul.NewClient(cfg.Consul.Address)
		if err != nil {
			return err
		}
		port, err := strconv.Atoi(cfg.Server.Port)
		if err != nil {
			return err
		}
		if err := consul.RegisterService(client, cfg.Consul.ServiceName, cfg.Consul.ServiceHost, port); err != nil {
			return err
		}
		slog.Info("registered with consul", slog.String("Service", cfg.Consul.ServiceName))
	}

	router := handlers.API(handlers.Deps{
		Products:  productsConf,
		Cart:      cartConf,
		Orders:    ordersConf,
		Payments:  paymentsConf,
		Reviews:   reviewsConf,
		Favorites: favoritesConf,
		Users:     usersConf,
		Content:   contentConf,
		Auth:      keys,
		Kafka:     kafkaConf,
		Uploader:  uploaderConf,
		Admin:     cfg.Admin,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("server starting", slog.String("Port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-shutdown:
		slog.Info("shutdown started", slog.String("Signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return err
		}
	}

	return nil
}
