package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Engine is the trip planning state machine.
// It holds no session data: every call works on the state it is given.
type Engine struct {
	provider ports.TravelProvider
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine backed by the given travel provider.
func NewEngine(provider ports.TravelProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Advance processes one user turn.
//
// It returns the next state and the reply for the host. The given state is
// never mutated. The only error returned is the context error when ctx ends
// during a provider call; in that case the original state is returned
// unchanged. Provider failures are answered with an apology and leave the
// step and preferences as they were.
func (e *Engine) Advance(ctx context.Context, state domain.SessionState, input string) (domain.SessionState, domain.Reply, error) {
	next := *state.Snapshot()

	reply, err := e.advance(ctx, &next, input)
	if err != nil {
		return state, nil, err
	}

	next.UpdatedAt = e.now().UTC()
	e.emitTransition(ctx, state.ID, state.Step, next.Step, reply)
	return next, reply, nil
}

func (e *Engine) advance(ctx context.Context, s *domain.SessionState, input string) (domain.Reply, error) {
	switch s.Step {
	case domain.StepAwaitingDestination:
		return e.takeDestination(s, input), nil
	case domain.StepAwaitingDate:
		return e.takeDate(ctx, s, input)
	case domain.StepPresenting:
		return e.present(s, input), nil
	case domain.StepSelecting:
		return e.book(ctx, s)
	case domain.StepBooked:
		return e.wrapUp(s, input), nil
	default:
		e.logger.Warn("Unknown step, restarting conversation", "session_id", s.ID, "step", s.Step)
		s.Preferences.Reset()
		s.Step = domain.StepAwaitingDestination
		return domain.TextReply{Text: MsgStartOver}, nil
	}
}

func (e *Engine) takeDestination(s *domain.SessionState, input string) domain.Reply {
	if input == "" {
		return domain.TextReply{Text: MsgBlankDest}
	}
	s.Preferences.Destination = input
	s.Step = domain.StepAwaitingDate
	return domain.TextReply{Text: msgAskDate(input)}
}

func (e *Engine) takeDate(ctx context.Context, s *domain.SessionState, input string) (domain.Reply, error) {
	date, err := ParseTravelDate(input)
	if err != nil {
		e.logger.Debug("Rejected travel date", "session_id", s.ID, "err", err)
		return domain.TextReply{Text: MsgDateFormat}, nil
	}

	dest := s.Preferences.Destination

	var flights []domain.FlightOffer
	err = e.call(ctx, s.ID, domain.OpSearchFlights, dest, func(ctx context.Context) error {
		var err error
		flights, err = e.provider.SearchFlights(ctx, dest, date)
		return err
	})
	if err != nil {
		return e.providerFailure(ctx, s, err, MsgSearchFailed)
	}

	var hotels []domain.HotelOffer
	err = e.call(ctx, s.ID, domain.OpSearchHotels, dest, func(ctx context.Context) error {
		var err error
		hotels, err = e.provider.SearchHotels(ctx, dest)
		return err
	})
	if err != nil {
		return e.providerFailure(ctx, s, err, MsgSearchFailed)
	}

	// Commit only once both searches succeeded.
	s.Preferences.Date = date
	s.Preferences.Flights = flights
	s.Preferences.Hotels = hotels
	s.Step = domain.StepPresenting
	return domain.TextReply{Text: MsgFoundOptions}, nil
}

func (e *Engine) present(s *domain.SessionState, input string) domain.Reply {
	kind, ok := ClassifyOffers(input)
	if !ok {
		return domain.TextReply{Text: MsgFlightsOrHotels}
	}
	s.Step = domain.StepSelecting
	return domain.ShowOffers{Kind: kind}
}

// book ignores the wording of the selection and books the first flight.
func (e *Engine) book(ctx context.Context, s *domain.SessionState) (domain.Reply, error) {
	const selection = 0

	var code string
	err := e.call(ctx, s.ID, domain.OpBookFlight, s.Preferences.Destination, func(ctx context.Context) error {
		var err error
		code, err = e.provider.BookFlight(ctx, selection, s.Preferences.Flights)
		return err
	})
	if err != nil {
		return e.providerFailure(ctx, s, err, MsgBookingFailed)
	}

	s.Preferences.Confirmation = code
	s.Step = domain.StepBooked
	return domain.TextReply{Text: msgBooked(code)}, nil
}

func (e *Engine) wrapUp(s *domain.SessionState, input string) domain.Reply {
	if !WantsAnotherTrip(input) {
		return domain.TextReply{Text: MsgFarewell}
	}
	s.Preferences.Reset()
	s.Step = domain.StepAwaitingDestination
	return domain.TextReply{Text: MsgNextTrip}
}

// providerFailure turns a provider error into an apology, unless the caller's
// context ended, which is reported as an error instead.
func (e *Engine) providerFailure(ctx context.Context, s *domain.SessionState, err error, apology string) (domain.Reply, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		e.logger.Error("Provider call failed", "session_id", s.ID, "op", perr.Op, "booking", perr.IsBooking(), "err", perr.Err)
	}
	return domain.TextReply{Text: apology}, nil
}

// call runs a provider operation, emitting lifecycle events around it and
// wrapping failures in a ProviderError.
func (e *Engine) call(ctx context.Context, sessionID, op, destination string, fn func(context.Context) error) error {
	event := &domain.ProviderEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventProviderCall,
			SessionID: sessionID,
		},
		Op:          op,
		Destination: destination,
	}
	if e.hooks.OnProviderCall != nil {
		e.hooks.OnProviderCall(ctx, event)
	}

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		err = &domain.ProviderError{Op: op, Err: err}
	}

	if e.hooks.OnProviderReturn != nil {
		done := *event
		done.Timestamp = e.now()
		done.Type = domain.EventProviderReturn
		done.Duration = time.Since(start)
		done.Err = err
		e.hooks.OnProviderReturn(ctx, &done)
	}
	return err
}

func (e *Engine) emitTransition(ctx context.Context, sessionID string, from, to domain.Step, reply domain.Reply) {
	e.logger.Debug("Turn processed", "session_id", sessionID, "from", from, "to", to)
	if e.hooks.OnTransition == nil {
		return
	}
	kind := "text"
	if _, ok := reply.(domain.ShowOffers); ok {
		kind = "show_offers"
	}
	e.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{
			Timestamp: e.now(),
			Type:      domain.EventTransition,
			SessionID: sessionID,
		},
		From:  from,
		To:    to,
		Reply: kind,
	})
}
