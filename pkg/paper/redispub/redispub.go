package redispub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/paper"
)

var (
	// ErrPublishFailed is returned by Publish when the event cannot be encoded
	// or Redis rejects the PUBLISH. The paper write has already committed.
	ErrPublishFailed = errors.New("redispub.publish_failed")
	// ErrDecodeFailed is returned by Decode for payloads that are not a JSON
	// paper.Event. Subscribe logs and skips such messages.
	ErrDecodeFailed = errors.New("redispub.decode_failed")
)

// Config selects the channel paper events travel on.
type Config struct {
	Channel string `env:"PAPER_EVENTS_CHANNEL" envDefault:"idrole:papers"`
}

// DefaultChannel is used when Config.Channel is empty.
const DefaultChannel = "idrole:papers"

// client is the part of redis.UniversalClient the publisher needs.
type client interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher implements paper.Publisher on Redis pub/sub.
type Publisher struct {
	client  client
	channel string
	logger  *slog.Logger
}

var _ paper.Publisher = (*Publisher)(nil)

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets the logger used to report deliveries.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Publisher. Any redis.UniversalClient works.
func New(c client, cfg Config, opts ...Option) *Publisher {
	p := &Publisher{
		client:  c,
		channel: cfg.Channel,
		logger:  slog.Default(),
	}
	if p.channel == "" {
		p.channel = DefaultChannel
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("redispub"))
	return p
}

// Channel returns the channel events are published on.
func (p *Publisher) Channel() string { return p.channel }

// Publish encodes the event as JSON and publishes it.
func (p *Publisher) Publish(ctx context.Context, event paper.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, data).Result()
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	p.logger.DebugContext(ctx, "paper event published",
		logger.Event(string(event.Type)),
		logger.IdentityID(event.IdentityID),
		slog.Int64("receivers", receivers),
	)
	return nil
}

// Decode parses a message payload produced by Publish.
func Decode(payload string) (paper.Event, error) {
	var event paper.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return paper.Event{}, errors.Join(ErrDecodeFailed, err)
	}
	return event, nil
}

// Subscribe delivers decoded events from the channel to fn until ctx is done.
// Messages that fail to decode are logged and skipped. The error is nil when
// ctx ends the subscription.
func Subscribe(ctx context.Context, c redis.UniversalClient, cfg Config, log *slog.Logger, fn func(paper.Event)) error {
	if log == nil {
		log = slog.Default()
	}
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	sub := c.Subscribe(ctx, channel)
	defer func() { _ = sub.Close() }()

	// wait for the subscription confirmation so no event published after
	// Subscribe returns its first message is missed
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			event, err := Decode(msg.Payload)
			if err != nil {
				log.WarnContext(ctx, "skipping malformed paper event", logger.Error(err))
				continue
			}
			fn(event)
		}
	}
}
