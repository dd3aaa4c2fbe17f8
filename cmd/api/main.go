package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/http_server"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/observability"
	redisad "github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/redis"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/app"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/format"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/shared"
	mysqlrepo "github.com/kenshomedia-ltd/gds-optimised-sub001/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.Serve(cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// reads fall through to MySQL while redis is down
		log.Warn().Err(err).Msg("redis ping failed")
	}

	paths := format.NewPaths(cfg.BasePath, cfg.SiteURL)
	q := app.NewQueryService(mysqlrepo.New(db), cache, cfg.CacheTTL, app.QueryOptions{
		Paths:    paths,
		Currency: cfg.Currency,
		NewDays:  cfg.NewBadgeDays,
	})

	// http
	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{
		Q:             q,
		Paths:         paths,
		DefaultLocale: cfg.DefaultLocale,
		Locales:       cfg.Locales,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("base_path", paths.BasePath).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
