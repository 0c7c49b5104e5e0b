package paper

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a paper lifecycle event.
type EventType string

const (
	EventIdentityRegistered  EventType = "identity.registered"
	EventIdentityDeactivated EventType = "identity.deactivated"
	EventPaperCreated        EventType = "paper.created"
	EventPaperDeactivated    EventType = "paper.deactivated"
	EventBusinessRegistered  EventType = "business.registered"
)

// Event tells subscribers that the papers of an identity changed and any
// context built for it is stale. It carries ids only, never payloads.
type Event struct {
	Type       EventType `json:"type"`
	IdentityID uuid.UUID `json:"identity_id"`
	PaperID    uuid.UUID `json:"paper_id,omitzero"`
	PaperType  Type      `json:"paper_type,omitempty"`
	BusinessID uuid.UUID `json:"business_id,omitzero"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers paper events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc is an adapter to allow the use of ordinary functions as Publishers.
type PublisherFunc func(ctx context.Context, event Event) error

// Publish calls the function.
func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }
