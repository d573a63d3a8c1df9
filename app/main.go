package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/skillsfunding/contracts-feed-processor/app/api"
	"github.com/skillsfunding/contracts-feed-processor/app/archive"
	"github.com/skillsfunding/contracts-feed-processor/app/audit"
	"github.com/skillsfunding/contracts-feed-processor/app/cfg"
	"github.com/skillsfunding/contracts-feed-processor/app/configstore"
	"github.com/skillsfunding/contracts-feed-processor/app/deserializer"
	"github.com/skillsfunding/contracts-feed-processor/app/engine"
	"github.com/skillsfunding/contracts-feed-processor/app/feed"
	"github.com/skillsfunding/contracts-feed-processor/app/processor"
	"github.com/skillsfunding/contracts-feed-processor/app/queue"
	"github.com/skillsfunding/contracts-feed-processor/app/schema"
	"github.com/skillsfunding/contracts-feed-processor/app/tasks"
	"github.com/skillsfunding/contracts-feed-processor/app/validation"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Contracts Feed Processor", "version", appCfg.Version)

	ctx := context.Background()

	// Durable run state
	store, err := configstore.Open(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open config store: %v", err)
	}
	defer store.Close()
	settings := configstore.NewSettings(store, appCfg.DefaultPageBudget)
	slog.Info("Config store opened", "path", appCfg.DBPath)

	httpClient := &http.Client{}

	// Downstream queue
	nc, err := nats.Connect(appCfg.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer func() {
		nc.Drain()
		nc.Close()
	}()

	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatalf("Failed to create JetStream context: %v", err)
	}

	publisher, err := queue.NewJetStreamPublisher(ctx, js, appCfg.StreamName, appCfg.SubjectPrefix)
	if err != nil {
		log.Fatalf("Failed to set up contract events stream: %v", err)
	}
	slog.Info("Connected to NATS", "url", appCfg.NatsURL, "stream", appCfg.StreamName)

	// Raw payload archive
	uploader, err := newUploader(ctx, appCfg)
	if err != nil {
		log.Fatalf("Failed to set up payload archive: %v", err)
	}

	// Deserialization pipeline
	schemaValidator := schema.New(appCfg.SchemaVersion, appCfg.SchemaManifest, appCfg.SchemaStrict)
	statusValidator := validation.New(settings)
	auditor := audit.NewClient(appCfg.AuditEndpoint, httpClient)

	registry := deserializer.NewRegistry(schemaValidator, statusValidator, auditor)
	d, err := registry.For(appCfg.SchemaVersion)
	if err != nil {
		log.Fatalf("Unsupported schema version %q, supported: %v", appCfg.SchemaVersion, registry.Versions())
	}

	entryProcessor := processor.NewEntryProcessor(d, uploader)

	// Feed engine
	reader := feed.NewHTTPReader(appCfg.FeedEndpoint, httpClient, appCfg.UserAgent,
		time.Duration(appCfg.HTTPTimeout)*time.Second, uint64(appCfg.HTTPRetries))
	populator := engine.NewQueuePopulator(entryProcessor, publisher, settings)
	feedEngine := engine.NewEngine(reader, populator, settings)

	// Background scheduler
	scheduler := tasks.NewScheduler(feedEngine)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	apiHandler := api.NewHandler(feedEngine, scheduler, settings)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler and connections are stopped via defer
	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func newUploader(ctx context.Context, appCfg *cfg.Cfg) (archive.Uploader, error) {
	if appCfg.ArchiveBucket == "" {
		slog.Warn("No archive bucket configured, raw payloads will not be archived")
		return archive.NopUploader{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	slog.Info("Payload archive enabled", "bucket", appCfg.ArchiveBucket, "region", appCfg.AWSRegion)
	return archive.NewS3Uploader(s3.NewFromConfig(awsCfg), appCfg.ArchiveBucket), nil
}
