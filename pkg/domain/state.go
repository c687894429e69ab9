package domain

import "time"

// SessionState represents the current snapshot of one conversation.
type SessionState struct {
	// ID identifies the session in stores and logs.
	ID string `json:"id"`

	// Step is where the conversation is in the planning flow.
	Step Step `json:"step"`

	Preferences Preferences `json:"preferences"`
	Transcript  Transcript  `json:"transcript"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted state when the session is stored through an
	// encrypting store. Preferences and Transcript are empty then.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a clean session waiting for a destination.
func NewSession(id string) *SessionState {
	now := time.Now().UTC()
	return &SessionState{
		ID:         id,
		Step:       StepAwaitingDestination,
		Transcript: Transcript{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Snapshot returns a deep copy of the state.
func (s *SessionState) Snapshot() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	c.Preferences = s.Preferences.Clone()
	c.Transcript = append(Transcript{}, s.Transcript...)
	return &c
}
