package services

import (
	"context"

	"github.com/priyabank/core-ledger/internal/logger"
)

// EventPublisher fans domain events out to interested consumers. Publishing
// is best effort; a failed publish never fails the operation that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

func publishEvent(ctx context.Context, publisher EventPublisher, stream, eventType string, data any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, stream, eventType, data); err != nil {
		logger.Warn("event publish failed", logger.Fields{
			"stream":    stream,
			"eventType": eventType,
			"error":     err.Error(),
		})
	}
}
