package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"serenity-chat/ai"
	"serenity-chat/infrastructure/server"
	"serenity-chat/internal"
	"serenity-chat/observability"
	"serenity-chat/runtime/workers"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes the endpoint stand-in, manages the server lifecycle,
// and centralizes error reporting.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.ServerConfig
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	if !strings.EqualFold(config.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Upstream client & HTTP server
	stats := observability.NewStats()
	inference := ai.NewInferenceClient(config.UpstreamURL, config.UpstreamToken,
		config.UpstreamTimeout, logger)
	chatServer := server.NewChatServer(logger, inference, stats)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: chatServer.Router(),
	}

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Supervised telemetry
	sup := workers.NewSupervisor(logger)
	sup.Add(workers.NewTelemetryWorker(logger, stats, config.TelemetryInterval))
	go sup.Run(ctx)

	// 5. Serve
	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting reply endpoint", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Forced shutdown", "error", err)
	}
	sup.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
