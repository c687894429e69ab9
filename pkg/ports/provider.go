package ports

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// TravelProvider is the boundary between trip planning and whatever supplies
// flight/hotel data and executes bookings.
//
// Implementations should return errors for network, auth or parsing failures;
// the engine maps them to an apology without committing partial results.
type TravelProvider interface {
	// SearchFlights returns the flight offers for a destination and a YYYY-MM-DD date.
	SearchFlights(ctx context.Context, destination, date string) ([]domain.FlightOffer, error)

	// SearchHotels returns the hotel offers for a destination.
	SearchHotels(ctx context.Context, destination string) ([]domain.HotelOffer, error)

	// BookFlight books offers[selection] and returns a confirmation code.
	BookFlight(ctx context.Context, selection int, offers []domain.FlightOffer) (string, error)
}
