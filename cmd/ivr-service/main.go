// main package for the ivr-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/ivr-service/internal/callerstore"
	"github.com/book-expert/ivr-service/internal/config"
	"github.com/book-expert/ivr-service/internal/handler"
	"github.com/book-expert/ivr-service/internal/objectstore"
	"github.com/book-expert/ivr-service/internal/synthesis"
	"github.com/book-expert/ivr-service/internal/worker"
)

const healthCheckTimeout = 10 * time.Second

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "ivr-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration using the central configurator.
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration.
	log, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	return serve(cfg, log)
}

// serve wires the collaborators together and runs the worker until the
// process receives a termination signal.
func serve(cfg *config.Config, log *logger.Logger) error {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	objects, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	callers, err := callerstore.New(jetstreamContext, cfg.NATS.CallerRecordBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize caller store: %w", err)
	}

	synthesizer := synthesis.NewHTTPClient(
		cfg.Synthesis.ServiceURL,
		time.Duration(cfg.Synthesis.TimeoutSeconds)*time.Second,
	)

	probeSynthesisService(synthesizer, log)

	location, err := time.LoadLocation(cfg.Greeting.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone '%s': %w", cfg.Greeting.Timezone, err)
	}

	sessionHandler := handler.New(callers, objects, synthesizer, handler.Config{
		AudioBucket:  cfg.NATS.AudioObjectStoreBucket,
		Voice:        cfg.Synthesis.Voice,
		Language:     cfg.Synthesis.Language,
		SampleRateHz: cfg.Synthesis.SampleRateHz,
		Location:     location,
	}, log)

	natsWorker, err := worker.NewNatsWorker(
		natsConnection, cfg.NATS.SessionEventSubject, sessionHandler, log,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	log.System(
		"IVR service initialized. Listening for session events on subject: %s",
		cfg.NATS.SessionEventSubject,
	)

	err = natsWorker.Run(ctx)
	if err != nil {
		return fmt.Errorf("worker stopped with error: %w", err)
	}

	return nil
}

// probeSynthesisService checks the synthesis service once at startup. An
// unreachable service is logged but not fatal: call handling degrades to the
// same best-effort path as a mid-call synthesis failure.
func probeSynthesisService(synthesizer *synthesis.HTTPClient, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	err := synthesizer.HealthCheck(ctx)
	if err != nil {
		log.Warn("Synthesis service health check failed: %v", err)

		return
	}

	log.Info("Synthesis service is healthy")
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
