package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition     EventType = "transition"
	EventProviderCall   EventType = "provider_call"
	EventProviderReturn EventType = "provider_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TransitionEvent is emitted once per processed turn.
type TransitionEvent struct {
	EventBase
	From  Step   `json:"from"`
	To    Step   `json:"to"`
	Reply string `json:"reply"` // "text" or "show_offers"
}

// ProviderEvent is emitted around every provider call.
type ProviderEvent struct {
	EventBase
	Op          string        `json:"op"`
	Destination string        `json:"destination"`
	Duration    time.Duration `json:"duration,omitempty"` // Set on return only
	Err         error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnTransition     func(context.Context, *TransitionEvent)
	OnProviderCall   func(context.Context, *ProviderEvent)
	OnProviderReturn func(context.Context, *ProviderEvent)
}

// ChainHooks returns hooks that invoke every given set in order.
func ChainHooks(sets ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range sets {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnProviderCall: func(ctx context.Context, e *ProviderEvent) {
			for _, h := range sets {
				if h.OnProviderCall != nil {
					h.OnProviderCall(ctx, e)
				}
			}
		},
		OnProviderReturn: func(ctx context.Context, e *ProviderEvent) {
			for _, h := range sets {
				if h.OnProviderReturn != nil {
					h.OnProviderReturn(ctx, e)
				}
			}
		},
	}
}
