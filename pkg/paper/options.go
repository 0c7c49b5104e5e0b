package paper

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// serviceConfig holds Service configuration.
type serviceConfig struct {
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// ServiceOption configures the Service.
type ServiceOption func(*serviceConfig)

// WithPublisher sets the publisher that receives paper lifecycle events.
func WithPublisher(p Publisher) ServiceOption {
	return func(c *serviceConfig) {
		if p != nil {
			c.publisher = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(c *serviceConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for CreatedAt stamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(c *serviceConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides the generator used for new record ids.
func WithIDGenerator(newID func() uuid.UUID) ServiceOption {
	return func(c *serviceConfig) {
		if newID != nil {
			c.newID = newID
		}
	}
}

func defaultServiceConfig() *serviceConfig {
	return &serviceConfig{
		publisher: NewNoopPublisher(),
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.New,
	}
}
