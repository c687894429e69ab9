package runner

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// Signals understood by the handlers.
const (
	// SignalBusy starts the busy indicator. Args: "message".
	SignalBusy = "busy"
	// SignalIdle stops it.
	SignalIdle = "idle"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the actions to the user.
	Output(ctx context.Context, actions []domain.ActionRequest) error

	// Input reads the next message from the user.
	// It returns io.EOF when the user is gone.
	Input(ctx context.Context) (string, error)

	// Signal notifies the handler of an event (e.g. "busy", "idle").
	// This is used for visual feedback without blocking input.
	Signal(ctx context.Context, name string, args map[string]any) error

	// SystemOutput presents a meta-message (errors, status) distinct from the chat.
	SystemOutput(ctx context.Context, msg string) error
}
