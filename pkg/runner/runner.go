package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/domain"
)

// Conversation is the turn API the runner drives. *concierge.Concierge implements it.
type Conversation interface {
	Start(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Send(ctx context.Context, sessionID, input string) (*concierge.Turn, error)
	Render(ctx context.Context, sessionID string) ([]domain.ActionRequest, error)
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// DefaultSessionID is used when the runner is given no session.
const DefaultSessionID = "local"

// Runner handles the chat loop of one session using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Headless suppresses the greeting on a fresh session.
	Headless bool

	// SessionID names the conversation in the store.
	SessionID string

	conversation Conversation
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionID: DefaultSessionID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the chat loop until the input ends, the user types "exit" or
// "quit", or ctx is cancelled. A resumed session is redrawn first.
func (r *Runner) Run(ctx context.Context) error {
	if r.conversation == nil {
		return errors.New("runner has no conversation")
	}
	handler := r.resolveHandler()
	if c, ok := handler.(io.Closer); ok {
		defer c.Close()
	}

	if _, err := r.conversation.Start(ctx, r.SessionID); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	view, err := r.conversation.Render(ctx, r.SessionID)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	if len(view) == 0 && !r.Headless {
		view = []domain.ActionRequest{{
			Type:    domain.ActionRenderMessage,
			Payload: domain.TranscriptEntry{Role: domain.RoleAssistant, Content: concierge.Intro()},
		}}
	}
	if err := handler.Output(ctx, view); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		input, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				r.Logger.Debug("Runner input closed", "session_id", r.SessionID, "err", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		if cmd := strings.ToLower(input); cmd == "exit" || cmd == "quit" {
			return nil
		}

		turn, err := r.conversation.Send(ctx, r.SessionID, input)
		if err != nil {
			if errors.Is(err, concierge.ErrInvalidInput) {
				_ = handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("turn error: %w", err)
		}

		if err := handler.Output(ctx, turn.Actions); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
