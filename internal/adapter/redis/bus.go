package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aerotrack/partledger/internal/broadcast"
	"github.com/aerotrack/partledger/internal/domain"
)

// Bus publishes scan events to a Redis channel and relays the channel into
// a local broadcaster. With a bus in place devices publish to Redis only,
// and every instance, the publishing one included, receives the event
// through its relay.
type Bus struct {
	client  *goredis.Client
	channel string
	log     *slog.Logger
}

// NewBus creates a bus on channel.
func NewBus(log *slog.Logger, client *goredis.Client, channel string) *Bus {
	return &Bus{
		client:  client,
		channel: channel,
		log:     log.With("component", "redis_bus", "channel", channel),
	}
}

var _ broadcast.Publisher = (*Bus)(nil)

// Publish sends event to the channel.
func (b *Bus) Publish(ctx context.Context, event domain.ScanEvent) error {
	payload, err := broadcast.EncodeEvent(event)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish scan event: %w", err)
	}
	return nil
}

// Relay subscribes to the channel and republishes every event into local
// until ctx is done or local is closed. Malformed messages are logged and
// skipped.
func (b *Bus) Relay(ctx context.Context, local broadcast.Publisher) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	// Wait for the subscription confirmation so no event published after
	// Relay starts is missed.
	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.log.InfoContext(ctx, "relay started")

	msgs := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.log.InfoContext(ctx, "relay stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			event, err := broadcast.DecodeEvent([]byte(msg.Payload))
			if err != nil {
				b.log.WarnContext(ctx, "dropping malformed scan event", slog.String("error", err.Error()))
				continue
			}
			if err := local.Publish(ctx, event); err != nil {
				if errors.Is(err, broadcast.ErrClosed) {
					return nil
				}
				b.log.WarnContext(ctx, "relay publish failed", slog.String("error", err.Error()))
			}
		}
	}
}
