package runtime

import (
	"fmt"
	"strconv"

	"github.com/aretw0/concierge/pkg/domain"
)

// Redraw produces the full view of a session: every transcript entry in
// order and, while the user is selecting, the flights table with a hint.
// The table is derived from Preferences on every call, so redrawing twice
// yields the same actions.
func Redraw(state domain.SessionState) []domain.ActionRequest {
	actions := make([]domain.ActionRequest, 0, len(state.Transcript)+2)
	for _, entry := range state.Transcript.Entries() {
		actions = append(actions, domain.ActionRequest{
			Type:    domain.ActionRenderMessage,
			Payload: entry,
		})
	}

	if state.Step == domain.StepSelecting {
		table := FlightTable(TitleAvailFlight, state.Preferences.Flights)
		actions = append(actions,
			domain.ActionRequest{Type: domain.ActionRenderOffers, Payload: table},
			domain.ActionRequest{Type: domain.ActionRenderHint, Payload: MsgConfirmHint},
		)
	}
	return actions
}

// TurnActions maps a reply to what the host shows for this turn.
// A TextReply becomes a message; ShowOffers becomes a table plus a prompt.
func TurnActions(state domain.SessionState, reply domain.Reply) []domain.ActionRequest {
	switch r := reply.(type) {
	case domain.TextReply:
		return []domain.ActionRequest{{
			Type:    domain.ActionRenderMessage,
			Payload: domain.TranscriptEntry{Role: domain.RoleAssistant, Content: r.Text},
		}}
	case domain.ShowOffers:
		var table domain.OfferTable
		if r.Kind == domain.OfferHotels {
			table = HotelTable(titleHotels(state.Preferences.Destination), state.Preferences.Hotels)
		} else {
			table = FlightTable(titleFlights(state.Preferences.Destination), state.Preferences.Flights)
		}
		return []domain.ActionRequest{
			{Type: domain.ActionRenderOffers, Payload: table},
			{Type: domain.ActionRenderHint, Payload: MsgWhichOne},
		}
	}
	return nil
}

// FlightTable lays out flight offers for display.
func FlightTable(title string, flights []domain.FlightOffer) domain.OfferTable {
	rows := make([][]string, len(flights))
	for i, f := range flights {
		rows[i] = []string{f.Airline, strconv.Itoa(f.Price), f.Duration, string(f.Stops)}
	}
	return domain.OfferTable{
		Kind:    domain.OfferFlights,
		Title:   title,
		Columns: []string{"Airline", "Price", "Duration", "Type"},
		Rows:    rows,
	}
}

// HotelTable lays out hotel offers for display.
func HotelTable(title string, hotels []domain.HotelOffer) domain.OfferTable {
	rows := make([][]string, len(hotels))
	for i, h := range hotels {
		rows[i] = []string{h.Name, strconv.Itoa(h.PricePerNight), fmt.Sprintf("%.1f", h.Rating), h.Location}
	}
	return domain.OfferTable{
		Kind:    domain.OfferHotels,
		Title:   title,
		Columns: []string{"Hotel Name", "Price/Night", "Rating", "Location"},
		Rows:    rows,
	}
}
