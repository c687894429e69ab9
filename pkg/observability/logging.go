package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/concierge/pkg/domain"
)

// LoggingHooks logs every transition and provider call at debug level,
// and failed provider calls at warn level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition",
				"session_id", e.SessionID,
				"from", e.From,
				"to", e.To,
				"reply", e.Reply,
			)
		},
		OnProviderCall: func(ctx context.Context, e *domain.ProviderEvent) {
			logger.DebugContext(ctx, "provider_call",
				"session_id", e.SessionID,
				"op", e.Op,
				"destination", e.Destination,
			)
		},
		OnProviderReturn: func(ctx context.Context, e *domain.ProviderEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "provider_return",
					"session_id", e.SessionID,
					"op", e.Op,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "provider_return",
				"session_id", e.SessionID,
				"op", e.Op,
				"duration", e.Duration,
			)
		},
	}
}
