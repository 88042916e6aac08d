package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"smartroad-be/config"
	"smartroad-be/controllers"
	"smartroad-be/events"
	"smartroad-be/geocode"
	"smartroad-be/middlewares"
	"smartroad-be/observability"
	"smartroad-be/routes"
	"smartroad-be/routing"
	"smartroad-be/store"
	authUtils "smartroad-be/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	if cfg.SeedDemoData {
		if err := store.Seed(ctx, db, clock.Now(), logger); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	var rateCounter middlewares.RateCounter
	redisClient, err := config.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		rateCounter = redisClient
		logger.Info("redis connected, report rate limit enabled", "daily_limit", cfg.ReportDailyLimit)
	} else {
		logger.Warn("REDIS_ADDRESS not set, report rate limit disabled")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaReportsTopic, logger)
		logger.Info("publishing report events", "topic", cfg.KafkaReportsTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("close event publisher", "error", err)
		}
	}()

	geocoder := geocode.NewCachedGeocoder(
		geocode.NewClient(cfg.NominatimBaseURL, cfg.UserAgent, cfg.UpstreamTimeout, metrics, logger),
		cfg.GeocodeCacheSize, metrics,
	)
	router := routing.NewOSRMClient(cfg.OSRMBaseURL, cfg.UserAgent, cfg.UpstreamTimeout, metrics, logger)
	planner := routing.NewPlanner(router, geocoder, db, routing.NewScorer(cfg.HazardRadiusMeters), metrics, logger)

	if err := controllers.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := authUtils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clock.Now)
	engine := routes.NewRouter(routes.Deps{
		Auth: controllers.NewAuthController(db, tokens, controllers.CookieSettings{
			Domain:     cfg.Domain,
			Production: cfg.IsProduction(),
		}, clock, logger),
		Reports:     controllers.NewReportController(db, publisher, metrics, clock, cfg.EnforceServiceArea, logger),
		Admin:       controllers.NewAdminController(db, publisher, metrics, clock, logger),
		Navigate:    controllers.NewNavigateController(geocoder, planner, logger),
		Ready:       db,
		Tokens:      tokens,
		RateCounter: rateCounter,
		LimitQueue:  cfg.ReportLimitQueue,
		DailyLimit:  cfg.ReportDailyLimit,
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}

	client, db, err := config.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	logger.Info("MongoDB connection established successfully!", "database", cfg.MongoDatabase)

	s := store.NewMongoStore(client, db)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = s.Close(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}
