package catalog

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/storefront/internal/config"
	"github.com/Additional-Code/storefront/internal/event"
	"github.com/Additional-Code/storefront/internal/messaging"
	"github.com/Additional-Code/storefront/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/storefront/worker/catalog")

// Module registers the catalog change worker handler.
var Module = fx.Module("worker_catalog",
	fx.Provide(
		fx.Annotate(
			NewChangeHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewChangeHandler sets up a worker handler that records entity changes.
func NewChangeHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.catalog.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var change event.Change
		if err := json.Unmarshal(msg.Value, &change); err != nil {
			logger.Error("failed to decode change event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		logger.Info("entity change processed",
			zap.String("entity", change.Entity),
			zap.String("action", change.Action),
			zap.Int64("id", change.ID),
		)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
