package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/medkala/medstore/internal/cartstore"
	"github.com/medkala/medstore/internal/config"
	"github.com/medkala/medstore/internal/es"
	"github.com/medkala/medstore/internal/handlers"
	"github.com/medkala/medstore/internal/logging"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/repo"
	"github.com/medkala/medstore/internal/seed"
	"github.com/medkala/medstore/internal/service/discount"
	"github.com/medkala/medstore/internal/service/order"
	"github.com/medkala/medstore/internal/service/token"
	httpserver "github.com/medkala/medstore/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(cfg.REFRESH_SECRET, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	if err := seed.Run(ctx, db); err != nil {
		log.Fatalf("seed: %v", err)
	}

	prod := mykafka.NewProducer(cfg.KAFKA_BROKERS)

	var esClient *elasticsearch.Client
	if cfg.ES_URL != "" {
		esClient, err = es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
	} else {
		logger.Warn("ES_URL not set, search endpoints disabled")
	}

	gormRepo := repo.New(db)
	cart := cartstore.NewGorm(db)
	discounts := discount.New(db)
	orders := order.New(db, cart, discounts)
	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(logging.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		Tokens:          tokens,
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Repo: gormRepo, Producer: prod, ES: esClient, ESIndex: cfg.ES_INDEX},
		ContentHandler:  &handlers.ContentHandler{Repo: gormRepo},
		DiscountHandler: &handlers.DiscountHandler{DB: db, Repo: gormRepo, Cart: cart, Discounts: discounts},
		CartHandler:     &handlers.CartHandler{DB: db, Cart: cart, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{Repo: gormRepo, Orders: orders, Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: cfg.ES_INDEX},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
