package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/ai"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/catalog"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/panorama"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/usecase"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/tracer"
)

func main() {
	cfg := config.MustLoad()

	appLogger := logger.NewLogger(&logger.LoggerConfig{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Starting virtucasa-service", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.InitTracer(ctx, cfg.Tracing.OTLPEndpoint, cfg.Tracing.ServiceName, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			appLogger.Error("Tracer shutdown failed", "error", err)
		}
	}()

	metricsManager := metrics.NewMetricsManager("virtucasa")

	var (
		catalogSource domain.CatalogSource     = catalog.FixtureSource{}
		directory     domain.IdentityDirectory = catalog.FixtureDirectory{}
	)
	if cfg.Catalog.Source == "mongo" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
		if err != nil {
			appLogger.Error("Failed to connect to MongoDB", "uri", cfg.MongoDB.URI, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				appLogger.Error("MongoDB disconnect failed", "error", err)
			}
		}()
		db := mongoClient.Database(cfg.MongoDB.Database)

		catalogRepo := mongodb.NewCatalogRepository(db, appLogger)
		identityRepo := mongodb.NewIdentityRepository(db, appLogger)
		seeded, err := catalogRepo.SeedIfEmpty(ctx, catalog.Properties())
		if err != nil {
			appLogger.Error("Failed to seed catalog", "error", err)
			os.Exit(1)
		}
		if seeded {
			if err := identityRepo.Upsert(ctx, catalog.DemoIdentity(), catalog.DemoConversations()); err != nil {
				appLogger.Error("Failed to seed demo identity", "error", err)
				os.Exit(1)
			}
		}
		catalogSource, directory = catalogRepo, identityRepo
	}

	cat, err := usecase.LoadCatalog(ctx, catalogSource)
	if err != nil {
		appLogger.Error("Failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	appLogger.Info("Catalog loaded", "source", cfg.Catalog.Source, "properties", cat.Len())

	deps := usecase.Dependencies{
		Catalog:            cat,
		Directory:          directory,
		Scheduler:          usecase.TimerScheduler{},
		Panorama:           panorama.NewHost(appLogger),
		Metrics:            metricsManager,
		Logger:             appLogger,
		ReplyDelay:         cfg.Session.ReplyDelay,
		DescriptionTimeout: cfg.Session.DescriptionTimeout,
	}

	if cfg.OpenAI.APIKey == "" {
		appLogger.Warn("OPENAI_API_KEY not set, description generation is disabled")
		deps.Generator = usecase.UnconfiguredGenerator{}
	} else {
		deps.Generator = ai.NewDescriptionGenerator(ai.Config{
			APIKey:    cfg.OpenAI.APIKey,
			Model:     cfg.OpenAI.Model,
			BaseURL:   cfg.OpenAI.BaseURL,
			MaxTokens: cfg.OpenAI.MaxTokens,
		}, appLogger)
	}

	if cfg.NATS.URL != "" {
		natsPublisher, err := nats.NewPublisher(cfg.NATS.URL, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize NATS", "error", err)
			os.Exit(1)
		}
		defer natsPublisher.Close()
		deps.Publisher = natsPublisher
	}

	if cfg.MinIO.Endpoint != "" {
		storage, err := s3.NewS3Storage(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
			cfg.MinIO.Bucket, cfg.MinIO.UseSSL, cfg.MinIO.PresignTTL, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
		deps.Media = storage
	}

	if cfg.SMTP.Host != "" && cfg.SMTP.AgentInbox != "" {
		deps.Notifier = mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.From, cfg.SMTP.AgentInbox, appLogger)
	}

	registry := rest.NewSessionRegistry(deps, cfg.Session.IdleTTL, appLogger)
	registry.Start()
	defer registry.Stop()

	router, err := rest.NewRouter(rest.NewHandler(registry, cat, appLogger), metricsManager, appLogger)
	if err != nil {
		appLogger.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		appLogger.Info("HTTP server listening", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}
	appLogger.Info("Server stopped")
}
