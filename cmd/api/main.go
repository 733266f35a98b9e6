package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/Caretransitiondesign/internal/adapters/cache"
	"github.com/zatekoja/Caretransitiondesign/internal/adapters/database"
	"github.com/zatekoja/Caretransitiondesign/internal/adapters/providers/geolocation"
	"github.com/zatekoja/Caretransitiondesign/internal/adapters/providers/referralhistory"
	"github.com/zatekoja/Caretransitiondesign/internal/api/handlers"
	"github.com/zatekoja/Caretransitiondesign/internal/api/routes"
	"github.com/zatekoja/Caretransitiondesign/internal/application/services"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/providers"
	"github.com/zatekoja/Caretransitiondesign/internal/domain/repositories"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/redis"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/clients/referralapi"
	"github.com/zatekoja/Caretransitiondesign/internal/infrastructure/observability"
	"github.com/zatekoja/Caretransitiondesign/pkg/config"
)

func main() {

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client
	// Continue without Redis - the application can work without caching
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	patientAdapter := database.NewPatientAdapter(pgClient)
	referralAdapter := database.NewReferralAdapter(pgClient)

	// Wrap with caching if Redis is available (for read performance optimization)
	baseProviderAdapter := database.NewProviderAdapter(pgClient)
	var providerAdapter repositories.ProviderRepository
	if cacheProvider != nil {
		providerAdapter = database.NewCachedProviderAdapter(baseProviderAdapter, cacheProvider, metrics)
		log.Info().Msg("Provider adapter wrapped with caching layer")
	} else {
		providerAdapter = baseProviderAdapter
		log.Warn().Msg("Provider adapter running without cache (Redis unavailable)")
	}

	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "static":
		geolocationProvider = geolocation.NewStaticProvider()
	default:
		log.Warn().Str("provider", cfg.Geolocation.Provider).Msg("Unknown geolocation provider; falling back to static")
		geolocationProvider = geolocation.NewStaticProvider()
	}

	// Referral history comes from the external coordination API when one is
	// configured, otherwise from this service's own referrals table.
	var historyProvider providers.ReferralHistoryProvider
	if cfg.ReferralAPI.BaseURL != "" {
		apiClient := referralapi.NewHTTPClient(
			cfg.ReferralAPI.BaseURL,
			time.Duration(cfg.ReferralAPI.TimeoutSeconds)*time.Second,
		)
		historyProvider = referralhistory.NewAPIProvider(apiClient)
		log.Info().Str("base_url", cfg.ReferralAPI.BaseURL).Msg("Referral history provider using external API")
	} else {
		historyProvider = referralAdapter
		log.Info().Msg("Referral history provider using local database")
	}

	// Initialize services

	riskEngine := services.NewRiskService()
	matchService := services.NewMatchService(geolocationProvider, cfg.Matching.DefaultLimit)
	patientService := services.NewPatientService(patientAdapter, historyProvider, riskEngine, metrics)

	// Initialize handlers

	patientHandler := handlers.NewPatientHandler(patientService)
	providerHandler := handlers.NewProviderHandler(providerAdapter)
	matchHandler := handlers.NewMatchHandler(matchService, patientAdapter, providerAdapter, metrics)
	referralHandler := handlers.NewReferralHandler(referralAdapter)

	// Set up router
	router := routes.NewRouter(
		patientHandler,
		providerHandler,
		matchHandler,
		referralHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
