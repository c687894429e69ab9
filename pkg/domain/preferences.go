package domain

// DateLayout is the only accepted travel date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Preferences holds what the user asked for and what the provider returned.
// It is owned by the state machine; hosts should treat it as read-only.
type Preferences struct {
	Destination string `json:"destination,omitempty"`

	// Date is set only after it passed calendar validation (DateLayout).
	Date string `json:"date,omitempty"`

	Flights []FlightOffer `json:"flights,omitempty"`
	Hotels  []HotelOffer  `json:"hotels,omitempty"`

	// Confirmation is the code of the last booking, kept until the next trip.
	Confirmation string `json:"confirmation,omitempty"`
}

// Reset clears every preference, as when the user plans another trip.
func (p *Preferences) Reset() {
	*p = Preferences{}
}

// Empty reports whether nothing has been collected yet.
func (p Preferences) Empty() bool {
	return p.Destination == "" && p.Date == "" && len(p.Flights) == 0 &&
		len(p.Hotels) == 0 && p.Confirmation == ""
}

// Clone returns a deep copy so offer slices are never shared between snapshots.
func (p Preferences) Clone() Preferences {
	c := p
	if p.Flights != nil {
		c.Flights = append([]FlightOffer(nil), p.Flights...)
	}
	if p.Hotels != nil {
		c.Hotels = append([]HotelOffer(nil), p.Hotels...)
	}
	return c
}
