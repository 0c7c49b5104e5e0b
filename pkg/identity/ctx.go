package identity

import (
	"context"
	"log/slog"

	"github.com/smartplace/idrole/pkg/logger"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithContext stores an identity context in ctx.
func WithContext(ctx context.Context, ic *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ic)
}

// FromContext retrieves the identity context from ctx.
// Returns nil, false if none is stored.
func FromContext(ctx context.Context) (*Context, bool) {
	ic, ok := ctx.Value(contextKey{}).(*Context)
	return ic, ok && ic != nil
}

// MustFromContext retrieves the identity context from ctx.
// Panics if none is stored.
func MustFromContext(ctx context.Context) *Context {
	ic, ok := FromContext(ctx)
	if !ok {
		panic("identity: no identity context in context")
	}
	return ic
}

// LoggerExtractor returns a logger.ContextExtractor adding the identity id of
// the stored context to log records.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ic, ok := FromContext(ctx); ok {
			return logger.IdentityID(ic.Identity.ID), true
		}
		return slog.Attr{}, false
	}
}
