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

	"hotel_booking/internal/adapters/auth"
	server "hotel_booking/internal/adapters/http_server"
	"hotel_booking/internal/adapters/media"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/adapters/rabbitmq"
	redisad "hotel_booking/internal/adapters/redis"
	stripead "hotel_booking/internal/adapters/stripe"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	"hotel_booking/internal/storage/memory"
	mysqlrepo "hotel_booking/internal/storage/mysql"
)

type store interface {
	domain.HotelRepository
	domain.UserRepository
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// storage
	var repo store
	switch cfg.Store {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on restart")
		repo = memory.New()
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable; serving without cache hits")
	}

	// outbound
	payments, err := stripead.New(cfg.StripeKey, cfg.StripeURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Stripe client")
	}
	uploader, err := media.New(cfg.CloudinaryBase, cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret, cfg.MediaRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Cloudinary client")
	}
	var events domain.EventPublisher
	if cfg.RabbitURL != "" {
		pub := rabbitmq.NewPublisher(cfg.RabbitURL)
		defer pub.Close()
		events = pub
	} else {
		log.Warn().Msg("RABBITMQ_URL is empty; booking events are not published")
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, auth.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}

	// http
	srv := server.New(cfg.FrontendURL)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:             app.NewQueryService(repo, cache, cfg.CacheTTL),
		Bookings:      app.NewBookingService(repo, payments, events, cache),
		Hotels:        app.NewHotelService(repo, uploader, cache),
		Auth:          app.NewAuthService(repo, tokens, auth.NewBcrypt(cfg.BcryptCost)),
		SecureCookies: cfg.Production(),
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
