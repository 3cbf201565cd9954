package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ThrowBot_Go/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server   *server.Server
	Pipeline *Pipeline
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting API calls and overlay connections)
// 2. Event source, scheduler and engine loop (no new events)
// 3. Dispatcher (wait for in-flight rule executions, including their delays)
// 4. Execution history writers (flush queued records)
// 5. SSE hub (close remaining overlay streams)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if p := components.Pipeline; p != nil {
		slog.Info(LogMsgShuttingDownPipeline)
		p.stopIngestion(ctx)

		if err := p.Dispatcher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgDispatcherShutdownFailed, "error", err)
		}
		if err := p.Workers.Stop(ctx); err != nil {
			slog.Error(LogMsgWorkersShutdownFailed, "error", err)
		}
		p.Hub.Stop()
	}

	slog.Info(LogMsgServerStopped)
}
