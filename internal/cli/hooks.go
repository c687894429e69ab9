package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/runner"
)

const msgSearching = "Searching global databases for best flights and hotels..."

func msgBooking(destination string) string {
	return fmt.Sprintf("Authorizing payment and booking your flight to %s...", destination)
}

// BusyHooks turns provider calls into busy/idle signals for the handler.
// The flight and hotel searches of one turn share a single busy period.
func BusyHooks(handler runner.IOHandler) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnProviderCall: func(ctx context.Context, e *domain.ProviderEvent) {
			var msg string
			switch e.Op {
			case domain.OpSearchFlights:
				msg = msgSearching
			case domain.OpBookFlight:
				msg = msgBooking(e.Destination)
			default:
				return
			}
			_ = handler.Signal(ctx, runner.SignalBusy, map[string]any{"message": msg, "op": e.Op})
		},
		OnProviderReturn: func(ctx context.Context, e *domain.ProviderEvent) {
			if e.Op == domain.OpSearchFlights && e.Err == nil {
				return
			}
			_ = handler.Signal(ctx, runner.SignalIdle, map[string]any{"op": e.Op})
		},
	}
}
