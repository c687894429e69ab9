package runtime

import "github.com/aretw0/concierge/pkg/domain"

var transitions = []domain.Transition{
	{From: domain.StepAwaitingDestination, To: domain.StepAwaitingDate, Trigger: "any non-empty text"},
	{From: domain.StepAwaitingDestination, To: domain.StepAwaitingDestination, Trigger: "empty text"},
	{From: domain.StepAwaitingDate, To: domain.StepPresenting, Trigger: "valid YYYY-MM-DD"},
	{From: domain.StepAwaitingDate, To: domain.StepAwaitingDate, Trigger: "invalid date or search failure"},
	{From: domain.StepPresenting, To: domain.StepSelecting, Trigger: `text contains "flight" or "hotel"`},
	{From: domain.StepPresenting, To: domain.StepPresenting, Trigger: "neither"},
	{From: domain.StepSelecting, To: domain.StepBooked, Trigger: "any text"},
	{From: domain.StepSelecting, To: domain.StepSelecting, Trigger: "booking failure"},
	{From: domain.StepBooked, To: domain.StepAwaitingDestination, Trigger: `text contains "yes" or "another"`},
	{From: domain.StepBooked, To: domain.StepBooked, Trigger: "anything else"},
}

// Transitions returns the static transition table of the planning flow.
func Transitions() []domain.Transition {
	return append([]domain.Transition(nil), transitions...)
}

// IsTransition reports whether from→to is an edge of the flow.
func IsTransition(from, to domain.Step) bool {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
