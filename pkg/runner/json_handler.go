package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// ActionSignal and ActionSystem are emitted by the JSONHandler only.
const (
	ActionSignal = "SIGNAL"
	ActionSystem = "SYSTEM_MESSAGE"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Every Output call writes one JSON array; every input line is a JSON string or raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	if len(actions) == 0 {
		return nil
	}
	return h.Encoder.Encode(actions)
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}

	text = strings.TrimSpace(text)

	// Try to unquote if it's a JSON string
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}

	// Fallback: return raw text (e.g. if they just sent plain text)
	return text, nil
}

func (h *JSONHandler) Signal(ctx context.Context, name string, args map[string]any) error {
	payload := map[string]any{"name": name}
	for k, v := range args {
		payload[k] = v
	}
	return h.Encoder.Encode([]domain.ActionRequest{{Type: ActionSignal, Payload: payload}})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode([]domain.ActionRequest{{Type: ActionSystem, Payload: msg}})
}
