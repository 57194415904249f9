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

	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/application/usecase"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/model"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/port"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/domain/service"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/infrastructure/config"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/infrastructure/kafka"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/infrastructure/messaging"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/infrastructure/storage"
	grpcpresentation "github.com/sairam-cyber/customer-churn-prediction-platform/internal/presentation/grpc"
	"github.com/sairam-cyber/customer-churn-prediction-platform/internal/presentation/rest"
	pkgkafka "github.com/sairam-cyber/customer-churn-prediction-platform/pkg/kafka"
	"github.com/sairam-cyber/customer-churn-prediction-platform/pkg/observability"
)

const serviceName = "churnd"

func main() {
	if err := run(); err != nil {
		slog.Error("churnd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting churnd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"models_dir", cfg.ModelsDir,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	switch {
	case errors.Is(err, observability.ErrTracingDisabled):
		logger.Info("tracing disabled")
	case err != nil:
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	default:
		defer shutdownTracer(context.Background()) //nolint:errcheck
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer meterProvider.Shutdown(context.Background()) //nolint:errcheck

	// Wire infrastructure adapters.
	repo, err := storage.NewArtifactRepository(cfg.ModelsDir)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newEventPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Wire domain services.
	trainer := service.NewTrainer(service.TrainerConfig{
		Schema: model.DefaultFeatureSchema(),
		Forest: service.ForestConfig{
			Trees:    cfg.ForestTrees,
			MaxDepth: cfg.ForestMaxDepth,
		},
		Seed:         cfg.RandomSeed,
		TestFraction: cfg.TestFraction,
	})
	explainer := service.NewExplainer(cfg.BackgroundRows)

	// Wire use cases.
	useCases := rest.UseCases{
		Train:        usecase.NewTrainModel(repo, publisher, trainer, logger),
		Retrain:      usecase.NewRetrainModel(repo, publisher, trainer, logger),
		Predict:      usecase.NewPredictChurn(repo, explainer, trainer.Schema()),
		Dashboard:    usecase.NewGetDashboardStats(repo),
		Performance:  usecase.NewGetPerformanceStats(repo, trainer),
		ChurnFactors: usecase.NewGetChurnFactors(repo),
		Segmentation: usecase.NewGetSegmentation(repo),
	}

	// gRPC server (health).
	grpcServer, err := grpcpresentation.NewServer(grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return err
	}

	// HTTP server.
	api := rest.NewChurnHandler(useCases, cfg.MaxUploadBytes(), logger)
	health := rest.NewHealthHandler(serviceName, map[string]rest.ReadinessChecker{"models_dir": repo}, logger)
	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(api, health, rest.RouterConfig{
			Metrics:        metricsHandler,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			TrainRateLimit: cfg.TrainRateLimit,
		}, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("churnd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down churnd")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("churnd stopped")
	return serveErr
}

// newEventPublisher returns a Kafka publisher when brokers are configured and
// a log-only publisher otherwise.
func newEventPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if !cfg.KafkaEnabled() {
		logger.Info("no Kafka brokers configured, logging domain events")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.KafkaBrokers,
		TLS:           cfg.KafkaTLS,
		CAFile:        cfg.KafkaCAFile,
		SASLEnabled:   cfg.KafkaSASLMechanism != "",
		SASLMechanism: cfg.KafkaSASLMechanism,
		SASLUsername:  cfg.KafkaSASLUsername,
		SASLPassword:  cfg.KafkaSASLPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info("publishing domain events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)

	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}
	return kafka.NewPublisher(producer, cfg.KafkaTopic, logger), closeFn, nil
}
