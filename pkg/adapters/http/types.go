package http

import "github.com/aretw0/concierge/pkg/domain"

// Request and response bodies, as documented in openapi.yaml.

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type SessionList struct {
	Sessions []string `json:"sessions"`
}

type SessionResponse struct {
	Session *domain.SessionState   `json:"session"`
	Actions []domain.ActionRequest `json:"actions"`
}

type ViewResponse struct {
	Actions []domain.ActionRequest `json:"actions"`
}

type TurnResponse struct {
	Session *domain.SessionState   `json:"session"`
	Reply   Reply                  `json:"reply"`
	Actions []domain.ActionRequest `json:"actions"`
}

// Reply flattens domain.Reply for the wire.
type Reply struct {
	Type string           `json:"type"`
	Text string           `json:"text,omitempty"`
	Kind domain.OfferKind `json:"kind,omitempty"`
}

type Flow struct {
	Steps       []domain.Step       `json:"steps"`
	Transitions []domain.Transition `json:"transitions"`
}

const (
	ReplyText       = "text"
	ReplyShowOffers = "show_offers"
)

func replyFromDomain(r domain.Reply) Reply {
	switch r := r.(type) {
	case domain.TextReply:
		return Reply{Type: ReplyText, Text: r.Text}
	case domain.ShowOffers:
		return Reply{Type: ReplyShowOffers, Kind: r.Kind}
	default:
		return Reply{}
	}
}
