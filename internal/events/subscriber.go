package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/priyabank/core-ledger/internal/logger"
	"github.com/redis/go-redis/v9"
)

type Handler func(ctx context.Context, event Event) error

// Subscriber reads a stream through a consumer group and dispatches each
// event to a handler. Read errors back off and re-attach, so a dropped
// connection does not end the subscription.
type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
}

type SubscriberConfig struct {
	Group         string
	Consumer      string
	Stream        string
	Handler       Handler
	BatchSize     int64
	BlockDuration time.Duration
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
	}
}

func (s *Subscriber) Start(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}

	logger.Info("event subscriber started", logger.Fields{
		"stream":   s.stream,
		"group":    s.group,
		"consumer": s.consumer,
	})

	for {
		select {
		case <-ctx.Done():
			logger.Info("event subscriber stopping", logger.Fields{"stream": s.stream})
			return ctx.Err()
		default:
			if err := s.readMessages(ctx); err != nil && ctx.Err() == nil {
				logger.Error("event subscriber read failed", err, logger.Fields{
					"stream": s.stream,
				})
				time.Sleep(time.Second)
			}
		}
	}
}

func (s *Subscriber) readMessages(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()

	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.processMessage(ctx, message); err != nil {
				logger.Error("event subscriber handler failed", err, logger.Fields{
					"stream":    s.stream,
					"messageId": message.ID,
				})
				// Unacked messages are redelivered on the next read.
				continue
			}

			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				logger.Error("event subscriber ack failed", err, logger.Fields{
					"messageId": message.ID,
				})
			}
		}
	}

	return nil
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	return s.handler(ctx, event)
}

// ChannelHandler adapts a channel into a Handler, dropping events when the
// receiver lags rather than stalling the stream reader.
func ChannelHandler(ch chan<- Event) Handler {
	return func(ctx context.Context, event Event) error {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			logger.Warn("event channel full, dropping event", logger.Fields{
				"eventId":   event.ID,
				"eventType": event.Type,
			})
		}
		return nil
	}
}
