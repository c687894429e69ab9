package runtime

import (
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// The intent heuristics below are plain case-insensitive substring checks.
// "flight" is tested before "hotel", so "flight and hotel" asks for flights.

// ClassifyOffers returns which offers the user asked to see.
func ClassifyOffers(input string) (domain.OfferKind, bool) {
	lower := strings.ToLower(input)
	switch {
	case strings.Contains(lower, "flight"):
		return domain.OfferFlights, true
	case strings.Contains(lower, "hotel"):
		return domain.OfferHotels, true
	}
	return "", false
}

// WantsAnotherTrip reports whether the user wants to plan a new trip after booking.
func WantsAnotherTrip(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(lower, "yes") || strings.Contains(lower, "another")
}
