package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelEventPublisher publishes events to an in-process pub/sub.
// Used when no Kafka brokers are configured, so single-node deployments
// keep the same event flow without external infrastructure.
type GoChannelEventPublisher struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewGoChannelEventPublisher(logger *slog.Logger) *GoChannelEventPublisher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewSlogLogger(logger),
	)
	return &GoChannelEventPublisher{
		pubSub: pubSub,
		logger: logger,
	}
}

func (p *GoChannelEventPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.Type)

	if err := p.pubSub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	return nil
}

// Subscribe exposes the underlying stream, mainly for local consumers
// and tests.
func (p *GoChannelEventPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, Topic)
}

func (p *GoChannelEventPublisher) Close() error {
	return p.pubSub.Close()
}
