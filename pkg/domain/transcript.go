package domain

// Role tags who authored a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is one message of the conversation.
type TranscriptEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the append-only conversation log, in arrival order.
// Offer tables are never stored here; they are derived from Preferences on render.
type Transcript []TranscriptEntry

// Append adds an entry at the end.
func (t *Transcript) Append(role Role, content string) {
	*t = append(*t, TranscriptEntry{Role: role, Content: content})
}

// Entries returns a copy of the entries in insertion order.
func (t Transcript) Entries() []TranscriptEntry {
	if len(t) == 0 {
		return nil
	}
	return append([]TranscriptEntry(nil), t...)
}
