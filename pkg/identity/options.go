package identity

import "log/slog"

type builderConfig struct {
	logger *slog.Logger
}

// Option configures the Builder.
type Option func(*builderConfig)

// WithLogger sets a custom logger for the builder.
func WithLogger(l *slog.Logger) Option {
	return func(c *builderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
