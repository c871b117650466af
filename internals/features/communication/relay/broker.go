package relay

import (
	"context"
	"log"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "relay:room:"

func Channel(room string) string { return channelPrefix + room }

// Broker fans a room frame out to every relay instance.
type Broker interface {
	Publish(ctx context.Context, room string, origin uuid.UUID, payload []byte) error
}

// LocalBroker delivers straight to this process's hub.
type LocalBroker struct {
	Hub *Hub
}

func (b LocalBroker) Publish(_ context.Context, room string, origin uuid.UUID, payload []byte) error {
	b.Hub.Deliver(room, origin, payload)
	return nil
}

type envelope struct {
	Origin  uuid.UUID `json:"origin"`
	Payload []byte    `json:"payload"`
}

// RedisBroker publishes on relay:room:{id}; Run feeds every instance's hub,
// including the publisher's own.
type RedisBroker struct {
	Client *redis.Client
	Hub    *Hub
}

func (b *RedisBroker) Publish(ctx context.Context, room string, origin uuid.UUID, payload []byte) error {
	raw, err := sonic.Marshal(envelope{Origin: origin, Payload: payload})
	if err != nil {
		return err
	}
	return b.Client.Publish(ctx, Channel(room), raw).Err()
}

// Run blocks until ctx is done.
func (b *RedisBroker) Run(ctx context.Context) error {
	sub := b.Client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	log.Println("[RELAY] subscribed to", channelPrefix+"*")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := sonic.UnmarshalString(msg.Payload, &env); err != nil {
				log.Printf("[RELAY] bad envelope on %s: %v", msg.Channel, err)
				continue
			}
			b.Hub.Deliver(strings.TrimPrefix(msg.Channel, channelPrefix), env.Origin, env.Payload)
		}
	}
}
