package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/bib/services/propensity-service/internal/application/usecase"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/port"
	"github.com/bibbank/bib/services/propensity-service/internal/domain/service"
	"github.com/bibbank/bib/services/propensity-service/internal/infrastructure/config"
	"github.com/bibbank/bib/services/propensity-service/internal/infrastructure/messaging"
	"github.com/bibbank/bib/services/propensity-service/internal/infrastructure/ml"
	"github.com/bibbank/bib/services/propensity-service/internal/infrastructure/postgres"
	"github.com/bibbank/bib/services/propensity-service/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/bib/services/propensity-service/internal/presentation/grpc"
	"github.com/bibbank/bib/services/propensity-service/internal/presentation/rest"
	"github.com/bibbank/bib/services/propensity-service/pkg/auth"
	pkgkafka "github.com/bibbank/bib/services/propensity-service/pkg/kafka"
	"github.com/bibbank/bib/services/propensity-service/pkg/observability"
	pgpkg "github.com/bibbank/bib/services/propensity-service/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.Telemetry.ServiceName,
	})

	logger.Info("starting propensity-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"model_path", cfg.ModelPath,
	)

	// The model must load before any listener opens.
	classifier, err := ml.LoadClassifier(cfg.ModelPath)
	if err != nil {
		logger.Error("failed to load model", "path", cfg.ModelPath, "error", err)
		os.Exit(1)
	}
	predictor, err := service.NewPredictor(classifier)
	if err != nil {
		logger.Error("model is incompatible with the feature encoder", "error", err)
		os.Exit(1)
	}
	logger.Info("model loaded",
		"version", predictor.ModelVersion(),
		"features", len(predictor.FeatureNames()),
	)

	if err := run(ctx, cfg, logger, predictor); err != nil {
		logger.Error("propensity-service failed", "error", err)
		os.Exit(1)
	}
	logger.Info("propensity-service stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, predictor *service.Predictor) error {
	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("tracer shutdown error", "error", err)
		}
	}()

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	metrics, err := telemetry.NewPredictionMetrics(meterProvider.Meter("propensity-service"))
	if err != nil {
		return fmt.Errorf("init prediction metrics: %w", err)
	}

	checks := map[string]rest.ReadinessCheck{}

	// Optional audit store.
	var (
		repo   port.PredictionRepository
		finder port.PredictionFinder
	)
	if cfg.DB.URL != "" {
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err := pgpkg.NewPool(dbCtx, pgpkg.Config{
			URL:      cfg.DB.URL,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		dbCancel()
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if err := pgpkg.RunMigrations(cfg.DB.URL, cfg.DB.MigrationsDir); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("connected to database, prediction audit enabled")

		audit := postgres.NewPredictionRepository(pool)
		repo, finder = audit, audit
		checks["database"] = func(ctx context.Context) error { return pgpkg.HealthCheck(ctx, pool) }
	} else {
		logger.Info("DATABASE_URL not set, prediction audit disabled")
	}

	// Event publishing.
	var publisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close error", "error", err)
			}
		}()
		publisher = messaging.NewKafkaPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("publishing prediction events", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	} else {
		publisher = messaging.NewLogPublisher(logger)
	}

	// Optional authentication.
	var jwtService *auth.JWTService
	if cfg.Auth.Enabled() {
		jwtCfg := auth.JWTConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer}
		if cfg.Auth.PublicKeyFile != "" {
			key, err := auth.LoadKeyFromFile(cfg.Auth.PublicKeyFile)
			if err != nil {
				return fmt.Errorf("load jwt public key: %w", err)
			}
			jwtCfg.PublicKeyPEM = key
		}
		jwtService, err = auth.NewJWTService(jwtCfg)
		if err != nil {
			return fmt.Errorf("init jwt: %w", err)
		}
		logger.Info("bearer token authentication enabled")
	}

	// Wire use cases.
	predictUC := usecase.NewPredict(service.NewEncoder(), predictor, repo, publisher, metrics, logger, cfg.SinkTimeout)
	listFeaturesUC := usecase.NewListFeatures(predictor)

	// gRPC server.
	grpcHandler := grpcpresentation.NewPropensityServiceHandler(predictUC, listFeaturesUC, logger)
	grpcOpts := grpcpresentation.ServerOptions{
		JWT:        jwtService,
		Reflection: cfg.Reflection,
	}
	if cfg.TLS.Enabled() {
		grpcOpts.TLSCertFile = cfg.TLS.CertFile
		grpcOpts.TLSKeyFile = cfg.TLS.KeyFile
	} else if cfg.TLS.CertFile != "" || cfg.TLS.KeyFile != "" {
		return errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger, grpcOpts)
	if err != nil {
		return fmt.Errorf("create grpc server: %w", err)
	}

	// HTTP server.
	routerCfg := rest.RouterConfig{
		Health:      rest.NewHealthHandler(logger, checks),
		Predictions: rest.NewPredictionHandler(predictUC, listFeaturesUC, logger),
		Metrics:     metricsHandler,
		JWT:         jwtService,
		Logger:      logger,
	}
	if finder != nil {
		routerCfg.Audit = rest.NewAuditHandler(usecase.NewGetPrediction(finder), logger)
	}
	router := rest.NewRouter(routerCfg)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Start(); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down propensity-service")

		grpcServer.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	logger.Info("propensity-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	err = g.Wait()

	// Let pending audit and event deliveries finish before their sinks close.
	predictUC.Wait()

	return err
}
