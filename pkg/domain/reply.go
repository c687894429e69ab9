package domain

// Reply is the output of one state machine turn.
// It is either a TextReply or a ShowOffers directive; hosts branch with a type switch.
type Reply interface {
	isReply()
}

// TextReply is a plain assistant message. It is recorded in the transcript.
type TextReply struct {
	Text string
}

// ShowOffers asks the host to render the current offers of the given kind as a table.
// It is not recorded in the transcript.
type ShowOffers struct {
	Kind OfferKind
}

func (TextReply) isReply()  {}
func (ShowOffers) isReply() {}
