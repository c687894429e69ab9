package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBusy struct {
	started []string
	stops   int
}

func (b *recordingBusy) Start(msg string) { b.started = append(b.started, msg) }
func (b *recordingBusy) Stop()            { b.stops++ }

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	handler.Renderer = func(s string) (string, error) {
		return "Rendered: " + s, nil
	}

	actions := []domain.ActionRequest{
		{Type: domain.ActionRenderMessage, Payload: domain.TranscriptEntry{Role: domain.RoleUser, Content: "Paris"}},
		{Type: domain.ActionRenderMessage, Payload: domain.TranscriptEntry{Role: domain.RoleAssistant, Content: "**Great** choice"}},
		{Type: domain.ActionRenderOffers, Payload: domain.OfferTable{Title: "Flights", Columns: []string{"Airline"}, Rows: [][]string{{"Delta"}}}},
		{Type: domain.ActionRenderHint, Payload: "Which one?"},
	}
	require.NoError(t, handler.Output(context.Background(), actions))

	output := outBuf.String()
	assert.Contains(t, output, "You: Paris")
	assert.NotContains(t, output, "Rendered: Paris", "user text is printed verbatim")
	assert.Contains(t, output, "Rendered: **Great** choice")
	assert.Contains(t, output, "Rendered: ### Flights")
	assert.Contains(t, output, "| Delta |")
	assert.Contains(t, output, "Which one?")
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  my user input \nlast"), outBuf)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my user input", val)
	assert.Equal(t, "> ", outBuf.String())

	val, err = handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last", val, "a final line without newline is still read")

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextHandler_CloseStopsReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := handler.Input(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, handler.Close())
	require.NoError(t, handler.Close())

	// A line arriving after the caller left must not park the reader goroutine.
	_, err = pw.Write([]byte("Lisbon\n"))
	require.NoError(t, err)

	select {
	case res, ok := <-handler.inputChan:
		assert.False(t, ok, "line delivered after close: %q", res.text)
	case <-time.After(time.Second):
		t.Fatal("reader goroutine did not exit")
	}

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_Signal(t *testing.T) {
	busy := &recordingBusy{}
	handler := NewTextHandler(strings.NewReader(""), io.Discard, WithTextHandlerBusyIndicator(busy))
	ctx := context.Background()

	require.NoError(t, handler.Signal(ctx, SignalBusy, map[string]any{"message": "Searching..."}))
	require.NoError(t, handler.Signal(ctx, SignalIdle, nil))
	require.NoError(t, handler.Signal(ctx, "unknown", nil))

	assert.Equal(t, []string{"Searching..."}, busy.started)
	assert.Equal(t, 1, busy.stops)
}

func TestTextHandler_SystemOutput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)
	require.NoError(t, handler.SystemOutput(context.Background(), "input too large"))
	assert.Contains(t, outBuf.String(), "[System] input too large")
}
