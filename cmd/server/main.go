package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/andrew-widjaja/yelp-camp/internal/adapter/geocoder"
	httpAdapter "github.com/andrew-widjaja/yelp-camp/internal/adapter/http"
	natsAdapter "github.com/andrew-widjaja/yelp-camp/internal/adapter/messaging/nats"
	mongoRepo "github.com/andrew-widjaja/yelp-camp/internal/adapter/repository/mongodb"
	"github.com/andrew-widjaja/yelp-camp/internal/adapter/session"
	"github.com/andrew-widjaja/yelp-camp/internal/adapter/storage/s3"
	"github.com/andrew-widjaja/yelp-camp/internal/campground/usecase"
	"github.com/andrew-widjaja/yelp-camp/internal/config"
	"github.com/andrew-widjaja/yelp-camp/internal/mailer"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/logger"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/metrics"
	"github.com/andrew-widjaja/yelp-camp/internal/platform/tracer"
)

const serviceName = "yelp_camp"

func main() {
	// Load .env file (optional, for local development)
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Initialize Logger
	appLogger := logger.NewLogger()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	// 2. Load Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Configuration loaded successfully",
		zap.String("http_port", cfg.HTTPPort),
		zap.Bool("mongo_uri_set", cfg.MongoURI != ""),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)

	// 3. Initialize OpenTelemetry Tracer
	var tp *sdktrace.TracerProvider
	if cfg.OTExporterOTLPEndpoint != "" {
		tp = tracer.InitTracer(serviceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			appLogger.Info("Shutting down tracer provider...")
			ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := tp.Shutdown(ctxShutdown); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
		appLogger.Info("OpenTelemetry Tracer initialized.")
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	// 4. Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPingMongo, cancelPingMongo := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPingMongo()
	if err = mongoClient.Ping(ctxPingMongo, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	// 5. Initialize session store (Redis)
	sessionStore, err := session.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionSecret, cfg.SessionTTL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize session store", zap.Error(err))
	}
	appLogger.Info("Session store initialized.")

	// 6. Initialize blob storage (MinIO)
	blobStorage, err := s3.NewStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize blob storage", zap.Error(err))
	}
	appLogger.Info("Blob storage initialized.")

	// 7. Initialize NATS Publisher
	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.AppName)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()
	appLogger.Info("NATS Publisher initialized.")

	// 8. Initialize Repositories
	campgroundRepo, err := mongoRepo.NewCampgroundRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize CampgroundRepository", zap.Error(err))
	}
	reviewRepo, err := mongoRepo.NewReviewRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ReviewRepository", zap.Error(err))
	}
	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize UserRepository", zap.Error(err))
	}
	appLogger.Info("Repositories initialized.")

	// 9. Initialize external collaborators
	mapboxClient := geocoder.NewMapboxClient(cfg.MapboxToken, appLogger)
	var welcomeMailer usecase.WelcomeMailer
	if cfg.SMTPHost != "" {
		welcomeMailer = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
		appLogger.Info("SMTP mailer initialized.")
	} else {
		appLogger.Info("SMTP mailer not initialized (SMTP_HOST not set).")
	}

	// 10. Initialize Usecases
	campgroundUsecase := usecase.NewCampgroundUsecase(campgroundRepo, reviewRepo, userRepo, mapboxClient, blobStorage, natsPublisher, appLogger)
	reviewUsecase := usecase.NewReviewUsecase(reviewRepo, natsPublisher, appLogger)
	userUsecase := usecase.NewUserUsecase(userRepo, welcomeMailer, natsPublisher, appLogger)
	appLogger.Info("Usecases initialized.")

	// 11. Initialize HTTP layer
	metricsManager := metrics.NewManager(serviceName)
	renderer, err := httpAdapter.NewRenderer(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize renderer", zap.Error(err))
	}
	sessionManager := httpAdapter.NewSessionManager(sessionStore, userRepo, cfg.SecureCookies, appLogger)

	homeHandler := httpAdapter.NewHomeHandler(sessionManager, renderer, cfg.MapboxToken, appLogger)
	campgroundHandler := httpAdapter.NewCampgroundHandler(campgroundUsecase, sessionManager, renderer, metricsManager, cfg.MapboxToken, appLogger)
	reviewHandler := httpAdapter.NewReviewHandler(reviewUsecase, sessionManager, renderer, metricsManager, cfg.MapboxToken, appLogger)
	userHandler := httpAdapter.NewUserHandler(userUsecase, sessionManager, renderer, metricsManager, cfg.MapboxToken, appLogger)

	router := httpAdapter.NewRouter(sessionManager, metricsManager, homeHandler, campgroundHandler, reviewHandler, userHandler)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// 12. Start Prometheus Metrics Server
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 13. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("HTTP server stopped.")

	appLogger.Info("Application shutting down...")
}
