package domain

// Transition documents an edge of the planning flow.
type Transition struct {
	From Step `json:"from"`
	To   Step `json:"to"`

	// Trigger describes the input that takes this edge, e.g. `text contains "flight"`.
	Trigger string `json:"trigger"`
}
