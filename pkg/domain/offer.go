package domain

// Stops describes how many layovers a flight has.
type Stops string

const (
	StopsDirect   Stops = "Direct"
	StopsOneStop  Stops = "1 Stop"
	StopsTwoStops Stops = "2 Stops"
)

// FlightOffer is a single priced flight returned by a search.
type FlightOffer struct {
	Airline  string `json:"airline"`
	Price    int    `json:"price"`
	Duration string `json:"duration"` // e.g. "7h 20m"
	Stops    Stops  `json:"stops"`
}

// HotelOffer is a single priced hotel returned by a search.
type HotelOffer struct {
	Name          string  `json:"name"`
	PricePerNight int     `json:"price_per_night"`
	Rating        float64 `json:"rating"` // 0 to 5
	Location      string  `json:"location"`
}

// OfferKind selects which offer list a directive refers to.
type OfferKind string

const (
	OfferFlights OfferKind = "flights"
	OfferHotels  OfferKind = "hotels"
)
