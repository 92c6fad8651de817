package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"listings_admin/internal/adapters/feed"
	server "listings_admin/internal/adapters/http_server"
	"listings_admin/internal/adapters/observability"
	redisad "listings_admin/internal/adapters/redis"
	"listings_admin/internal/app"
	"listings_admin/internal/domain"
	"listings_admin/internal/shared"
	"listings_admin/internal/storage/sqlstore"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	// db
	st, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	defer st.Close()
	log.Info().Str("driver", st.Driver()).Msg("database connection ok")

	// deps
	var cache domain.Cache = app.NopCache{}
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; reads fall through to the database")
		}
		cache = rc
	}
	svcs := app.NewServices(st.Stores(), cache, cfg.CacheTTL)

	fc, err := feed.New(cfg.FeedURL, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	importer := app.NewImportService(fc, svcs.Properties, cfg.Workers)
	importer.OnItem = observability.ObserveImportItem

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Services:       svcs,
		Importer:       importer,
		Ready:          st.Ping,
		RequestTimeout: cfg.RequestTimeout,
		ImportTimeout:  cfg.ImportTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}
