package runtime_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/concierge/pkg/adapters/mock"
	"github.com/aretw0/concierge/pkg/domain"
)

var errUpstream = errors.New("upstream unavailable")

// stubProvider returns canned offers and counts calls.
type stubProvider struct {
	mu         sync.Mutex
	flightsErr error
	hotelsErr  error
	bookErr    error
	calls      []string
	selections []int
}

func (p *stubProvider) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, op)
}

func (p *stubProvider) SearchFlights(ctx context.Context, destination, date string) ([]domain.FlightOffer, error) {
	p.record(domain.OpSearchFlights)
	if p.flightsErr != nil {
		return nil, p.flightsErr
	}
	return []domain.FlightOffer{
		{Airline: "Air France", Price: 500, Duration: "7h 20m", Stops: domain.StopsDirect},
		{Airline: "Delta", Price: 600, Duration: "8h 10m", Stops: domain.StopsOneStop},
	}, nil
}

func (p *stubProvider) SearchHotels(ctx context.Context, destination string) ([]domain.HotelOffer, error) {
	p.record(domain.OpSearchHotels)
	if p.hotelsErr != nil {
		return nil, p.hotelsErr
	}
	return []domain.HotelOffer{
		{Name: destination + " Inn", PricePerNight: 90, Rating: 4.2, Location: "Airport Rd"},
	}, nil
}

func (p *stubProvider) BookFlight(ctx context.Context, selection int, offers []domain.FlightOffer) (string, error) {
	p.record(domain.OpBookFlight)
	p.mu.Lock()
	p.selections = append(p.selections, selection)
	p.mu.Unlock()
	if p.bookErr != nil {
		return "", p.bookErr
	}
	return "CONF-12345", nil
}

// blockingProvider waits for ctx on every call.
type blockingProvider struct{}

func (blockingProvider) SearchFlights(ctx context.Context, _, _ string) ([]domain.FlightOffer, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) SearchHotels(ctx context.Context, _ string) ([]domain.HotelOffer, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) BookFlight(ctx context.Context, _ int, _ []domain.FlightOffer) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func instantMock() *mock.Provider {
	return mock.NewProvider(mock.WithSearchDelay(0), mock.WithBookingDelay(0), mock.WithSeed(7))
}

// stateAt builds a session sitting at the given step with offers loaded.
func stateAt(step domain.Step) domain.SessionState {
	s := *domain.NewSession("s1")
	s.Step = step
	if step == domain.StepAwaitingDestination {
		return s
	}
	s.Preferences.Destination = "Paris"
	if step == domain.StepAwaitingDate {
		return s
	}
	s.Preferences.Date = "2024-06-15"
	s.Preferences.Flights = []domain.FlightOffer{
		{Airline: "Air France", Price: 500, Duration: "7h 20m", Stops: domain.StopsDirect},
	}
	s.Preferences.Hotels = []domain.HotelOffer{
		{Name: "Paris Inn", PricePerNight: 90, Rating: 4.2, Location: "Airport Rd"},
	}
	if step == domain.StepBooked {
		s.Preferences.Confirmation = "CONF-54321"
	}
	return s
}
