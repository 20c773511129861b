package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// GracefulShutdown stops the HTTP server on SIGINT/SIGTERM, then runs
// any extra cleanup funcs (observability providers, metric servers).
func GracefulShutdown(srv *http.Server, logger *zap.Logger, done chan bool, cleanup ...func(context.Context) error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutting down gracefully, press Ctrl+C again to force")

	stop() // Allow Ctrl+C to force shutdown

	// In-flight requests get 5 seconds to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	for _, fn := range cleanup {
		if err := fn(shutdownCtx); err != nil {
			logger.Error("Cleanup failed during shutdown", zap.Error(err))
		}
	}

	logger.Info("Server exiting")

	done <- true
}
