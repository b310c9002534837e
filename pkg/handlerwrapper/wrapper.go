// Package handlerwrapper adapts typed event handlers to watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ahalia-sports/tournament-admin/pkg/eventbus"
	"github.com/ahalia-sports/tournament-admin/pkg/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is an event a handler wants published after it succeeds.
type Result struct {
	Topic   string
	Payload any
	// TournamentID, when set, also publishes to the tournament-scoped topic.
	TournamentID string
}

// HandlerFunc is a typed event handler.
type HandlerFunc[T any] func(ctx context.Context, payload *T) ([]Result, error)

// WrapTransformingTyped decodes the JSON payload into T, runs handler inside a span and
// publishes the returned results. Undecodable payloads are logged and acknowledged.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler HandlerFunc[T],
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := msg.Context()
		if id := msg.Metadata.Get(eventbus.CorrelationIDKey); id != "" {
			ctx = observability.WithCorrelationID(ctx, id)
		}

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.id", msg.UUID),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.WarnContext(ctx, "Dropping undecodable message",
				observability.CorrelationAttr(ctx),
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			span.SetStatus(codes.Error, "undecodable payload")
			return nil
		}

		out, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				observability.CorrelationAttr(ctx),
				slog.String("handler", handlerName),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		for _, res := range out {
			if err := publishResult(ctx, publisher, res); err != nil {
				span.RecordError(err)
				return fmt.Errorf("%s: %w", handlerName, err)
			}
		}
		return nil
	}
}

func publishResult(ctx context.Context, publisher message.Publisher, res Result) error {
	outMsg, err := eventbus.NewJSONMessage(ctx, res.Payload)
	if err != nil {
		return err
	}
	if res.TournamentID != "" {
		return eventbus.PublishWithTournamentScope(publisher, res.Topic, res.TournamentID, outMsg)
	}
	return publisher.Publish(res.Topic, outMsg)
}
