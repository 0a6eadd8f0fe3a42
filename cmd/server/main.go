package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecosort/kiosk-server-go/internal/config"
	"github.com/ecosort/kiosk-server-go/internal/database"
	"github.com/ecosort/kiosk-server-go/internal/handler"
	"github.com/ecosort/kiosk-server-go/internal/jobs"
	"github.com/ecosort/kiosk-server-go/internal/middleware"
	"github.com/ecosort/kiosk-server-go/internal/model"
	"github.com/ecosort/kiosk-server-go/internal/repository"
	"github.com/ecosort/kiosk-server-go/internal/service"
	"github.com/ecosort/kiosk-server-go/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	// The points catalog database is optional; without it the built-in
	// catalog serves all lookups.
	var catalogRepo repository.WasteTypeRepository
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to catalog database")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		if err := db.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ping catalog database")
		}
		cancel()

		catalogRepo = repository.NewWasteTypeRepository(db.DB)
		if err := catalogRepo.Seed(context.Background(), model.DefaultCatalog); err != nil {
			log.Warn().Err(err).Msg("failed to seed waste type catalog")
		}
		log.Info().Msg("catalog database connected")
	}

	var claimLimiter middleware.Limiter = middleware.NewMemoryRateLimiter()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse redis url")
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		claimLimiter = middleware.NewRedisRateLimiter(redisClient)
		log.Info().Msg("redis connected")
	}

	sessionStore := store.NewSessionStore(cfg.SessionTTL())
	tokenStore := store.NewTokenStore(cfg.TokenTTL())
	resetSignal := store.NewResetSignal(cfg.ResetWindow())

	sessionService := service.NewSessionService(sessionStore)
	redemptionService := service.NewRedemptionService(tokenStore, resetSignal)
	pointsService := service.NewPointsService(catalogRepo)
	classifierService := service.NewClassifierService(cfg.ClassifierURL, cfg.ClassifierEndpoint)

	sessionHandler := handler.NewSessionHandler(sessionService, redemptionService)
	redemptionHandler := handler.NewRedemptionHandler(redemptionService)
	classifyHandler := handler.NewClassifyHandler(classifierService, pointsService)

	claimRateLimit := middleware.NewIPRateLimitMiddleware(
		claimLimiter, cfg.ClaimRatePerMin, time.Minute, "claim",
	)
	bodyLimit := middleware.NewBodyLimitMiddleware(0)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	securityHeaders := middleware.NewSecurityHeadersMiddleware(isProduction)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimit.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/session", func(r chi.Router) {
		r.Mount("/", sessionHandler.Routes())
	})

	r.Route("/qr", func(r chi.Router) {
		r.With(claimRateLimit.Handler).Post("/claim", redemptionHandler.Claim)
	})

	r.Get("/kiosk/should-reset", redemptionHandler.ShouldReset)

	r.Post("/classify", classifyHandler.Classify)
	r.Get("/catalog/waste-types", classifyHandler.ListWasteTypes)

	r.Group(func(r chi.Router) {
		r.Use(securityHeaders.Handler)
		r.Handle("/*", handler.StaticFileServer(cfg.StaticDir))
	})

	janitor := jobs.NewJanitor(sessionStore, tokenStore, config.JanitorInterval)
	janitor.Start()
	defer janitor.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
