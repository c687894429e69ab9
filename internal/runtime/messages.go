package runtime

import "fmt"

// Assistant replies. Kept together so hosts and tests share one wording.
const (
	MsgAskDestination  = "Tell me where you want to go, and I will search and book it for you autonomously."
	MsgBlankDest       = "I didn't catch a destination. Where do you want to go?"
	MsgDateFormat      = "Please use the format YYYY-MM-DD (e.g., 2024-06-15)."
	MsgFoundOptions    = "I found some options. Do you want to see Flights or Hotels first?"
	MsgFlightsOrHotels = "Just say 'Flights' or 'Hotels' to see options."
	MsgNextTrip        = "Where would you like to go next?"
	MsgFarewell        = "Have a great trip!"
	MsgStartOver       = "I'm not sure how to handle that. Let's start over. Where do you want to go?"
	MsgSearchFailed    = "Sorry, I couldn't reach the travel search service. Please send the date again to retry."
	MsgBookingFailed   = "Sorry, the booking could not be completed and nothing was charged. Reply again to retry."

	MsgWhichOne      = "Which one would you like to book?"
	MsgConfirmHint   = "Say 'Book the first one' or similar to confirm."
	TitleAvailFlight = "Available Flights"
)

func msgAskDate(destination string) string {
	return fmt.Sprintf("Great choice! When do you want to fly to %s? (Format: YYYY-MM-DD)", destination)
}

func msgBooked(code string) string {
	return fmt.Sprintf("✅ **Booking Confirmed!** \n\nYour flight is booked. Confirmation Code: **%s**.\n\nAnything else I can help you with?", code)
}

func titleFlights(destination string) string {
	return fmt.Sprintf("✈️ Flights to %s", destination)
}

func titleHotels(destination string) string {
	return fmt.Sprintf("🏨 Hotels in %s", destination)
}
