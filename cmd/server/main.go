package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/domain/repository"
	"flightdata-service/internal/infrastructure/config"
	"flightdata-service/internal/infrastructure/oauth"
	"flightdata-service/internal/infrastructure/persistence"
	"flightdata-service/internal/infrastructure/seed"
	"flightdata-service/internal/interface/provider"
	flightRepo "flightdata-service/internal/interface/repository"
	"flightdata-service/internal/interface/rest"
	flightUsecase "flightdata-service/internal/usecase"
	"flightdata-service/pkg/logger"
	"flightdata-service/pkg/metrics"
	"flightdata-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flight Data Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("flightdata")

	// Load the embedded seed dataset
	dataset, err := seed.NewDataset()
	if err != nil {
		log.Fatal("Failed to load seed dataset", "error", err)
	}

	// Optional reference database for airline and timezone lookups
	var airlineRepository repository.AirlineRepository
	var timezoneRepository repository.TimezoneRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepository = flightRepo.NewGormAirlineRepository(gormDB)
		timezoneRepository = flightRepo.NewGormTimezoneRepository(gormDB)
		log.Info("Reference database connected")
	}

	// Airport resolution consults the timezone reference first, then the
	// embedded seed airports
	refLookup := func(ctx context.Context, code string) (entity.Airport, bool) {
		if timezoneRepository != nil {
			tz, err := timezoneRepository.GetByAirportCode(ctx, code)
			if err == nil && tz != nil {
				return entity.Airport{
					Code:      code,
					Name:      tz.AirportName,
					City:      tz.CityName,
					Country:   tz.CountryName,
					Timezone:  tz.TzName,
					Latitude:  tz.Latitude,
					Longitude: tz.Longitude,
				}, true
			}
		}
		return dataset.AirportByCode(code)
	}

	parser := utils.NewQueryParser(airlineRepository, log)

	// User flight store: MongoDB when configured, embedded bbolt otherwise
	var store repository.FlightStore
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		store = flightRepo.NewMongoFlightStore(db)
	} else {
		log.Info("Opening bbolt store", "path", cfg.BoltPath)
		boltDB, err := persistence.OpenBolt(cfg.BoltPath)
		if err != nil {
			log.Fatal("Failed to open bbolt store", "error", err)
		}
		defer boltDB.Close()
		store, err = flightRepo.NewBoltFlightStore(boltDB)
		if err != nil {
			log.Fatal("Failed to initialize bbolt store", "error", err)
		}
	}

	// Search providers, in priority order
	providers := []provider.Provider{
		provider.NewAviationStackProvider(cfg.AviationStackKey, parser, m, log),
		provider.NewAeroDataBoxProvider(cfg.RapidAPIKey, parser, m, log),
		provider.NewAviationAPIProvider(refLookup, m, log),
	}

	// OpenSky live positions, authenticated when credentials are set
	var openSkyClient *http.Client
	if cfg.OpenSkyClientID != "" && cfg.OpenSkyClientSecret != "" {
		openSkyOAuth := oauth.NewOpenSkyOAuth(cfg.OpenSkyClientID, cfg.OpenSkyClientSecret, log)
		openSkyClient = openSkyOAuth.HTTPClient(ctx)
	}
	liveSource := provider.NewOpenSkyProvider(openSkyClient, log)

	aggregator := flightUsecase.NewFlightAggregator(providers, store, dataset, parser, liveSource, m, log)
	if err := aggregator.Restore(ctx); err != nil {
		log.Error("Failed to restore user flights", "error", err)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	rest.NewHandler(aggregator, log).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flight Data Service stopped")
}
