package domain

// ActionRequest represents something the engine asks the host to render.
type ActionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Standard Action Types
const (
	// ActionRenderMessage requests the host to display a transcript message.
	// Payload: TranscriptEntry
	ActionRenderMessage = "RENDER_MESSAGE"

	// ActionRenderOffers requests the host to display offers as a table.
	// Payload: OfferTable
	ActionRenderOffers = "RENDER_OFFERS"

	// ActionRenderHint requests the host to display a one-line assistant prompt
	// that is not part of the transcript.
	// Payload: string
	ActionRenderHint = "RENDER_HINT"
)

// OfferTable is a display-ready table of offers.
type OfferTable struct {
	Kind    OfferKind  `json:"kind"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
