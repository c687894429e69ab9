package concierge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/concierge/internal/runtime"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/adapters/mock"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
	"github.com/aretw0/concierge/pkg/session"
)

// ErrInvalidInput is returned by Send when a message is rejected before it reaches
// the state machine (too large, not UTF-8). The session is left untouched.
var ErrInvalidInput = errors.New("invalid input")

// Concierge is the high-level entry point of the trip planner.
// It wraps the state machine and the session manager behind a turn-based API.
type Concierge struct {
	engine   *runtime.Engine
	sessions *session.Manager

	provider ports.TravelProvider
	store    ports.StateStore
	locker   ports.DistributedLocker
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	maxInput int
}

// Turn is the outcome of one user message.
type Turn struct {
	// State is the session after the turn.
	State *domain.SessionState
	// Reply is what the state machine answered.
	Reply domain.Reply
	// Actions is what the host shows for this turn.
	Actions []domain.ActionRequest
}

// Option defines a functional option for configuring the Concierge.
type Option func(*Concierge)

// WithProvider replaces the default mock travel provider.
func WithProvider(p ports.TravelProvider) Option {
	return func(c *Concierge) {
		c.provider = p
	}
}

// WithStore replaces the default in-memory session store.
func WithStore(s ports.StateStore) Option {
	return func(c *Concierge) {
		c.store = s
	}
}

// WithLocker enables distributed locking, for replicas sharing a store.
func WithLocker(l ports.DistributedLocker) Option {
	return func(c *Concierge) {
		c.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Concierge) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Concierge) {
		c.logger = logger
	}
}

// WithMaxInputSize caps the size of a message in bytes.
func WithMaxInputSize(n int) Option {
	return func(c *Concierge) {
		c.maxInput = n
	}
}

// New initializes a Concierge. Without options it books against the mock
// provider and keeps sessions in memory.
func New(opts ...Option) *Concierge {
	c := &Concierge{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.provider == nil {
		c.provider = mock.NewProvider()
	}
	if c.store == nil {
		c.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(c.logger)}
	if c.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(c.locker))
	}
	c.sessions = session.NewManager(c.store, sessionOpts...)

	c.engine = runtime.NewEngine(c.provider,
		runtime.WithLifecycleHooks(c.hooks),
		runtime.WithLogger(c.logger),
	)
	return c
}

// Start loads a session, creating it when it does not exist yet.
func (c *Concierge) Start(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return c.sessions.LoadOrStart(ctx, sessionID)
}

// Send processes one user message: the input is sanitized, recorded, fed to
// the state machine, and the textual reply is recorded. The whole turn runs
// under the session lock; if it fails nothing is saved.
func (c *Concierge) Send(ctx context.Context, sessionID, input string) (*Turn, error) {
	return c.send(ctx, sessionID, input, c.sessions.Update)
}

// Continue is Send for a session that must already exist. It fails with
// domain.ErrSessionNotFound, checked under the session lock, instead of
// starting a new session.
func (c *Concierge) Continue(ctx context.Context, sessionID, input string) (*Turn, error) {
	return c.send(ctx, sessionID, input, c.sessions.UpdateExisting)
}

type updateFunc func(context.Context, string, func(context.Context, *domain.SessionState) error) (*domain.SessionState, error)

func (c *Concierge) send(ctx context.Context, sessionID, input string, update updateFunc) (*Turn, error) {
	clean, err := runtime.SanitizeInput(input, c.maxInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	turn := &Turn{}
	state, err := update(ctx, sessionID, func(ctx context.Context, s *domain.SessionState) error {
		s.Transcript.Append(domain.RoleUser, clean)

		next, reply, err := c.engine.Advance(ctx, *s, clean)
		if err != nil {
			return err
		}
		if text, ok := reply.(domain.TextReply); ok {
			next.Transcript.Append(domain.RoleAssistant, text.Text)
		}

		*s = next
		turn.Reply = reply
		turn.Actions = runtime.TurnActions(next, reply)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("turn failed for session %s: %w", sessionID, err)
	}

	turn.State = state.Snapshot()
	c.logger.Info("Turn completed", "session_id", sessionID, "step", state.Step)
	return turn, nil
}

// Render redraws a session: its transcript and, while selecting, the flights table.
func (c *Concierge) Render(ctx context.Context, sessionID string) ([]domain.ActionRequest, error) {
	state, err := c.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return runtime.Redraw(*state), nil
}

// Inspect returns the stored state of a session.
func (c *Concierge) Inspect(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return c.sessions.Load(ctx, sessionID)
}

// Reset starts an existing session over, dropping its transcript and preferences.
// A missing session yields domain.ErrSessionNotFound.
func (c *Concierge) Reset(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return c.sessions.UpdateExisting(ctx, sessionID, func(_ context.Context, s *domain.SessionState) error {
		*s = *domain.NewSession(sessionID)
		return nil
	})
}

// Delete removes a session.
func (c *Concierge) Delete(ctx context.Context, sessionID string) error {
	return c.sessions.Delete(ctx, sessionID)
}

// List returns the IDs of the known sessions.
func (c *Concierge) List(ctx context.Context) ([]string, error) {
	return c.sessions.List(ctx)
}

// Transitions returns the transition table of the planning flow.
func (c *Concierge) Transitions() []domain.Transition {
	return runtime.Transitions()
}

// Intro is the greeting hosts show before the first message.
func Intro() string {
	return runtime.MsgAskDestination
}
