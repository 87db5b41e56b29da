package framework

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fitglue/coursemap/pkg/bootstrap"
	"github.com/fitglue/coursemap/pkg/infrastructure/sentry"
)

// FrameworkContext contains dependencies injected by the framework
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
}

// HandlerFunc is the signature of a command body. The returned outputs are logged on
// completion.
type HandlerFunc func(ctx context.Context, fwCtx *FrameworkContext) (map[string]interface{}, error)

// Run executes handler with an execution id, start/finish logging and error capture.
func Run(ctx context.Context, name string, svc *bootstrap.Service, handler HandlerFunc) error {
	logger := slog.Default()
	if svc != nil && svc.Logger != nil {
		logger = svc.Logger
	}

	execID := uuid.NewString()
	logger = logger.With("execution_id", execID, "command", name)
	logger.Info("Execution started")
	start := time.Now()

	fwCtx := &FrameworkContext{
		Service:     svc,
		Logger:      logger,
		ExecutionID: execID,
	}

	outputs, err := handler(ctx, fwCtx)
	duration := time.Since(start)
	if err != nil {
		logger.Error("Execution failed", "error", err, "duration_ms", duration.Milliseconds())
		extra := map[string]interface{}{"command": name, "execution_id": execID}
		for k, v := range outputs {
			extra[k] = v
		}
		sentry.CaptureException(err, extra, logger)
		sentry.Flush(2 * time.Second)
		return err
	}

	attrs := []any{"duration_ms", duration.Milliseconds()}
	for k, v := range outputs {
		attrs = append(attrs, k, v)
	}
	logger.Info("Execution completed successfully", attrs...)
	return nil
}
