// Package mock provides a TravelProvider that fabricates offers and bookings
// after a simulated network delay.
package mock

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
)

const (
	// DefaultSearchDelay simulates a search round-trip.
	DefaultSearchDelay = 1 * time.Second
	// DefaultBookingDelay simulates payment authorization and booking.
	DefaultBookingDelay = 1500 * time.Millisecond

	// ConfirmationPrefix starts every confirmation code.
	ConfirmationPrefix = "CONF-"
	confirmationMin    = 10000
	confirmationMax    = 99999
)

// PriceRange is an inclusive price bound.
type PriceRange struct {
	Min, Max int
}

type flightTemplate struct {
	airline  string
	price    PriceRange
	duration string
	stops    domain.Stops
}

type hotelTemplate struct {
	name     string // "%s" is replaced by the destination
	price    PriceRange
	rating   float64
	location string
}

var flightCatalog = []flightTemplate{
	{"Air France", PriceRange{400, 800}, "7h 20m", domain.StopsDirect},
	{"Delta", PriceRange{450, 900}, "8h 10m", domain.StopsOneStop},
	{"British Airways", PriceRange{500, 1000}, "6h 45m", domain.StopsDirect},
	{"Emirates", PriceRange{600, 1200}, "10h 30m", domain.StopsTwoStops},
}

var hotelCatalog = []hotelTemplate{
	{"%s Grand Hotel", PriceRange{150, 300}, 4.8, "City Center"},
	{"%s Inn", PriceRange{80, 150}, 4.2, "Airport Rd"},
	{"%s Suites", PriceRange{200, 400}, 4.5, "Old Town"},
	{"Airbnb Private Villa", PriceRange{100, 250}, 4.9, "Suburbs"},
}

// FlightPriceRanges returns the price bounds of each flight offer, in offer order.
func FlightPriceRanges() []PriceRange {
	out := make([]PriceRange, len(flightCatalog))
	for i, f := range flightCatalog {
		out[i] = f.price
	}
	return out
}

// HotelPriceRanges returns the nightly price bounds of each hotel offer, in offer order.
func HotelPriceRanges() []PriceRange {
	out := make([]PriceRange, len(hotelCatalog))
	for i, h := range hotelCatalog {
		out[i] = h.price
	}
	return out
}

// Provider implements ports.TravelProvider with random data.
// Safe for concurrent use.
type Provider struct {
	searchDelay  time.Duration
	bookingDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures the Provider.
type Option func(*Provider)

// WithSearchDelay overrides the simulated search latency.
func WithSearchDelay(d time.Duration) Option {
	return func(p *Provider) {
		p.searchDelay = d
	}
}

// WithBookingDelay overrides the simulated booking latency.
func WithBookingDelay(d time.Duration) Option {
	return func(p *Provider) {
		p.bookingDelay = d
	}
}

// WithSeed makes prices and confirmation codes reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Provider) {
		p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewProvider creates a mock provider with the default delays and a random seed.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		searchDelay:  DefaultSearchDelay,
		bookingDelay: DefaultBookingDelay,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SearchFlights returns the four catalog flights with fresh prices.
func (p *Provider) SearchFlights(ctx context.Context, destination, date string) ([]domain.FlightOffer, error) {
	if err := sleep(ctx, p.searchDelay); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	offers := make([]domain.FlightOffer, len(flightCatalog))
	for i, f := range flightCatalog {
		offers[i] = domain.FlightOffer{
			Airline:  f.airline,
			Price:    p.between(f.price),
			Duration: f.duration,
			Stops:    f.stops,
		}
	}
	return offers, nil
}

// SearchHotels returns the four catalog hotels, named after the destination.
func (p *Provider) SearchHotels(ctx context.Context, destination string) ([]domain.HotelOffer, error) {
	if err := sleep(ctx, p.searchDelay); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	offers := make([]domain.HotelOffer, len(hotelCatalog))
	for i, h := range hotelCatalog {
		name := h.name
		if strings.Contains(name, "%s") {
			name = fmt.Sprintf(name, destination)
		}
		offers[i] = domain.HotelOffer{
			Name:          name,
			PricePerNight: p.between(h.price),
			Rating:        h.rating,
			Location:      h.location,
		}
	}
	return offers, nil
}

// BookFlight pretends to book and returns a CONF-NNNNN code.
// The selection is accepted but the mock always books the first offer.
func (p *Provider) BookFlight(ctx context.Context, selection int, offers []domain.FlightOffer) (string, error) {
	if err := sleep(ctx, p.bookingDelay); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return fmt.Sprintf("%s%d", ConfirmationPrefix, p.between(PriceRange{confirmationMin, confirmationMax})), nil
}

// between draws from [r.Min, r.Max]. Callers hold p.mu.
func (p *Provider) between(r PriceRange) int {
	return r.Min + p.rng.IntN(r.Max-r.Min+1)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
