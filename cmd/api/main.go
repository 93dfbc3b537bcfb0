// Package main boots the SMM reseller backend: configuration, logging,
// tracing, the ledger database, the provider gateway, the catalog cache, and
// finally the HTTP API server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/plugin/opentelemetry/tracing"

	_ "github.com/rezahp/go-smm-backend/docs" // swagger spec, registered on import
	"github.com/rezahp/go-smm-backend/internal/catalog"
	"github.com/rezahp/go-smm-backend/internal/config"
	httpapi "github.com/rezahp/go-smm-backend/internal/http"
	"github.com/rezahp/go-smm-backend/internal/observability"
	"github.com/rezahp/go-smm-backend/internal/provider"
	"github.com/rezahp/go-smm-backend/internal/repo"
	"github.com/rezahp/go-smm-backend/internal/sysutil"
)

// @title           Go SMM Backend API
// @version         1.0
// @description     Order placement backend for a social media marketing reseller panel: guided order sessions, balance ledger, catalog browsing, and provider order tracking.
//
// @contact.name    rezahp
// @contact.url     https://github.com/rezahp/go-smm-backend
//
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey AdminToken
// @in              header
// @name            X-Admin-Token
func main() {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	// Decide console output before config validation so that a broken
	// environment still produces readable startup errors.
	if sysutil.IsTruthy(os.Getenv("LOG_PRETTY")) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	cfg := config.MustLoad()
	sysutil.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	version := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), "dev")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DBDSN
	}
	db, err := repo.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		log.Fatal().Err(err).Msg("gorm tracing plugin failed")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	gw := &provider.Client{
		Name:        cfg.Provider.Name,
		APIURL:      cfg.Provider.APIURL,
		ProfileURL:  cfg.Provider.ProfileURL,
		APIKey:      cfg.Provider.APIKey,
		MaxAttempts: uint(cfg.Provider.MaxAttempts),
		HTTPClient:  &http.Client{Timeout: cfg.Provider.Timeout},
	}

	cat := &catalog.Cache{Provider: gw, TTL: cfg.CatalogTTL}
	// Warm the snapshot so the first user does not pay for the fetch. The
	// panel being down at boot is not fatal; the cache retries on demand.
	if _, err := cat.Fetch(ctx, false); err != nil {
		log.Warn().Err(err).Msg("catalog warm-up failed")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, cat, gw, cfg)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("version", version).
			Str("provider", cfg.Provider.Name).
			Str("db_driver", cfg.DBDriver).
			Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}

	log.Info().Msg("server stopped")
}
