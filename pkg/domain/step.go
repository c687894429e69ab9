package domain

// Step identifies where a session is in the planning flow.
type Step string

const (
	StepAwaitingDestination Step = "awaiting_destination" // Initial step
	StepAwaitingDate        Step = "awaiting_date"
	StepPresenting          Step = "presenting" // Searches done, asking flights or hotels
	StepSelecting           Step = "selecting"  // Offers on screen, next input books
	StepBooked              Step = "booked"
)

// Steps lists every step in flow order.
var Steps = []Step{
	StepAwaitingDestination,
	StepAwaitingDate,
	StepPresenting,
	StepSelecting,
	StepBooked,
}

// Valid reports whether s is one of the known steps.
func (s Step) Valid() bool {
	for _, known := range Steps {
		if s == known {
			return true
		}
	}
	return false
}

// HasOffers reports whether search results may be attached to the session at this step.
func (s Step) HasOffers() bool {
	return s == StepPresenting || s == StepSelecting || s == StepBooked
}
