package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey-studio/backend/internal"
	"survey-studio/backend/internal/analytics"
	"survey-studio/backend/internal/cache"
	"survey-studio/backend/internal/config"
	"survey-studio/backend/internal/cors"
	"survey-studio/backend/internal/export"
	"survey-studio/backend/internal/instance"
	"survey-studio/backend/internal/metrics"
	"survey-studio/backend/internal/optionset"
	"survey-studio/backend/internal/publish"
	"survey-studio/backend/internal/response"
	"survey-studio/backend/internal/surveyconfig"
	"survey-studio/backend/internal/trace"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	_ "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "survey-studio-backend"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrDatabaseURLRequired) {
			title := "Database URL is required"
			message := "Please set the DATABASE_URL environment variable or provide a config file with the database_url key."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.Dev {
		logger.Warn("Running in development mode, make sure to disable it in production")
	}

	logger.Info("Starting application...")

	logger.Info("Starting database migration...")

	err = databaseutil.MigrationUp(cfg.MigrationSource, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to run database migration", zap.Error(err))
	}

	dbPool, err := initDatabasePool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient, err = cache.NewClient(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize redis client", zap.Error(err))
		}
		defer func() {
			if err := cacheClient.Close(); err != nil {
				logger.Error("Failed to close redis client", zap.Error(err))
			}
		}()
	} else {
		logger.Info("No redis address configured, public slug lookups go straight to the database")
	}

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()

	// ============================================
	// Service
	// ============================================

	surveyConfigService := surveyconfig.NewService(logger, dbPool)
	optionSetService := optionset.NewService(logger, dbPool)
	instanceService := instance.NewService(logger, dbPool, cacheClient)
	responseService := response.NewService(logger, dbPool, instanceService, surveyConfigService, optionSetService)
	instanceService.SetResponseStore(responseService)
	publishService := publish.NewService(logger, surveyConfigService, instanceService)
	analyticsService := analytics.NewService(logger, responseService, instanceService, surveyConfigService)
	exportService := export.NewService(logger, cfg.BaseURL, surveyConfigService, optionSetService, instanceService, responseService)

	// ============================================
	// Handler
	// ============================================

	surveyConfigHandler := surveyconfig.NewHandler(logger, validator, problemWriter, surveyConfigService)
	optionSetHandler := optionset.NewHandler(logger, validator, problemWriter, optionSetService)
	instanceHandler := instance.NewHandler(logger, validator, problemWriter, instanceService)
	responseHandler := response.NewHandler(logger, validator, problemWriter, responseService)
	publishHandler := publish.NewHandler(logger, validator, problemWriter, publishService, cfg.BaseURL)
	analyticsHandler := analytics.NewHandler(logger, problemWriter, analyticsService)
	exportHandler := export.NewHandler(logger, problemWriter, exportService)

	// ============================================
	// Middleware
	// ============================================

	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)

	// Basic Middleware (Tracing, Recovery and Metrics)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)
	basicMiddleware = basicMiddleware.Append(metrics.Middleware)

	// HTTP Server
	mux := http.NewServeMux()

	// Health check route
	mux.Handle("GET /api/healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", metrics.Handler())

	// ============================================
	// Survey configuration routes
	// ============================================

	// Config Management
	// ----------------------
	mux.Handle("POST /api/surveys", basicMiddleware.HandlerFunc(surveyConfigHandler.CreateHandler))
	mux.Handle("GET /api/surveys", basicMiddleware.HandlerFunc(surveyConfigHandler.ListHandler))
	mux.Handle("GET /api/surveys/{surveyId}", basicMiddleware.HandlerFunc(surveyConfigHandler.GetHandler))
	mux.Handle("PATCH /api/surveys/{surveyId}", basicMiddleware.HandlerFunc(surveyConfigHandler.UpdateMetaHandler))
	mux.Handle("PUT /api/surveys/{surveyId}", basicMiddleware.HandlerFunc(surveyConfigHandler.SaveHandler))
	mux.Handle("PATCH /api/surveys/{surveyId}/active", basicMiddleware.HandlerFunc(surveyConfigHandler.SetActiveHandler))
	mux.Handle("DELETE /api/surveys/{surveyId}", basicMiddleware.HandlerFunc(surveyConfigHandler.DeleteHandler))

	// -- Config Operations
	mux.Handle("POST /api/surveys/{surveyId}/commands", basicMiddleware.HandlerFunc(surveyConfigHandler.CommandsHandler))
	mux.Handle("POST /api/surveys/{surveyId}/analyze", basicMiddleware.HandlerFunc(surveyConfigHandler.AnalyzeFieldsHandler))
	mux.Handle("POST /api/surveys/{surveyId}/bulk", basicMiddleware.HandlerFunc(surveyConfigHandler.BulkUpdateHandler))
	mux.Handle("POST /api/surveys/{surveyId}/publish", basicMiddleware.HandlerFunc(publishHandler.PublishSurvey))
	mux.Handle("GET /api/surveys/{surveyId}/export", basicMiddleware.HandlerFunc(exportHandler.ExportConfigHandler))

	// ============================================
	// Option set routes
	// ============================================

	mux.Handle("POST /api/option-sets/{kind}", basicMiddleware.HandlerFunc(optionSetHandler.CreateHandler))
	mux.Handle("GET /api/option-sets/{kind}", basicMiddleware.HandlerFunc(optionSetHandler.ListHandler))
	mux.Handle("GET /api/option-sets/{kind}/{setId}", basicMiddleware.HandlerFunc(optionSetHandler.GetHandler))
	mux.Handle("PUT /api/option-sets/{kind}/{setId}", basicMiddleware.HandlerFunc(optionSetHandler.UpdateHandler))
	mux.Handle("PATCH /api/option-sets/{kind}/{setId}/active", basicMiddleware.HandlerFunc(optionSetHandler.SetActiveHandler))
	mux.Handle("DELETE /api/option-sets/{kind}/{setId}", basicMiddleware.HandlerFunc(optionSetHandler.DeleteHandler))

	mux.Handle("GET /api/option-sets/{kind}/{setId}/export", basicMiddleware.HandlerFunc(exportHandler.ExportOptionSetHandler))

	// ============================================
	// Instance routes
	// ============================================

	// Instance Management
	// ----------------------
	mux.Handle("POST /api/instances", basicMiddleware.HandlerFunc(instanceHandler.CreateHandler))
	mux.Handle("GET /api/instances", basicMiddleware.HandlerFunc(instanceHandler.ListHandler))
	mux.Handle("GET /api/instances/{instanceId}", basicMiddleware.HandlerFunc(instanceHandler.GetHandler))
	mux.Handle("PUT /api/instances/{instanceId}", basicMiddleware.HandlerFunc(instanceHandler.UpdateHandler))
	mux.Handle("PATCH /api/instances/{instanceId}/active", basicMiddleware.HandlerFunc(instanceHandler.SetActiveHandler))
	mux.Handle("DELETE /api/instances/{instanceId}", basicMiddleware.HandlerFunc(instanceHandler.DeleteHandler))

	// -- Instance Relations
	mux.Handle("GET /api/instances/{instanceId}/responses", basicMiddleware.HandlerFunc(responseHandler.ListHandler))
	mux.Handle("GET /api/instances/{instanceId}/sessions", basicMiddleware.HandlerFunc(responseHandler.ListSessionsHandler))
	mux.Handle("GET /api/instances/{instanceId}/analytics", basicMiddleware.HandlerFunc(analyticsHandler.ReportHandler))
	mux.Handle("GET /api/instances/{instanceId}/export/json", basicMiddleware.HandlerFunc(exportHandler.ExportInstanceHandler))
	mux.Handle("GET /api/instances/{instanceId}/export/xlsx", basicMiddleware.HandlerFunc(exportHandler.ExportResponsesHandler))

	// ============================================
	// Public respondent routes
	// ============================================

	mux.Handle("GET /api/s/{slug}", basicMiddleware.HandlerFunc(instanceHandler.GetBySlugHandler))
	mux.Handle("POST /api/s/{slug}/sessions", basicMiddleware.HandlerFunc(responseHandler.StartSessionHandler))
	mux.Handle("POST /api/s/{slug}/responses", basicMiddleware.HandlerFunc(responseHandler.SubmitHandler))
	mux.Handle("PATCH /api/sessions/{sessionId}", basicMiddleware.HandlerFunc(responseHandler.UpdateSessionHandler))

	// Response Management
	// ----------------------
	mux.Handle("GET /api/responses/{responseId}", basicMiddleware.HandlerFunc(responseHandler.GetHandler))
	mux.Handle("DELETE /api/responses/{responseId}", basicMiddleware.HandlerFunc(responseHandler.DeleteHandler))

	// ============================================
	// Import routes
	// ============================================

	mux.Handle("POST /api/import", basicMiddleware.HandlerFunc(exportHandler.ImportHandler))

	// End of API routes
	// ============================================
	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: entrypoint,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initDatabasePool(databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	return dbPool, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("survey-studio")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
