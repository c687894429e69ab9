package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/adapters/mock"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConcierge() *concierge.Concierge {
	provider := mock.NewProvider(mock.WithSearchDelay(0), mock.WithBookingDelay(0), mock.WithSeed(1))
	return concierge.New(concierge.WithProvider(provider))
}

// decodeLines parses NDJSON output into action types per line.
func decodeLines(t *testing.T, out string) [][]string {
	t.Helper()
	var lines [][]string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var actions []struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &actions), sc.Text())
		types := make([]string, len(actions))
		for i, a := range actions {
			types[i] = a.Type
		}
		lines = append(lines, types)
	}
	return lines
}

func TestRunner_JSONConversation(t *testing.T) {
	in := strings.NewReader("Tokyo\n\"2024-09-01\"\nflights\nbook it\nno\n")
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithConversation(newConcierge()),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
		runner.WithSessionID("json"),
	)
	require.NoError(t, r.Run(context.Background()))

	lines := decodeLines(t, out.String())
	require.Len(t, lines, 6)
	assert.Equal(t, []string{domain.ActionRenderMessage}, lines[0], "intro")
	assert.Equal(t, []string{domain.ActionRenderMessage}, lines[1])
	assert.Equal(t, []string{domain.ActionRenderOffers, domain.ActionRenderHint}, lines[3])
	assert.Contains(t, out.String(), "CONF-")
	assert.Contains(t, out.String(), "Have a great trip!")
}

func TestRunner_HeadlessSkipsIntro(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithConversation(newConcierge()),
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(""), &out)),
		runner.WithHeadless(true),
	)
	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, out.String())
}

func TestRunner_ResumeRedraws(t *testing.T) {
	c := newConcierge()
	ctx := context.Background()
	for _, msg := range []string{"Cairo", "2024-10-10", "hotels"} {
		_, err := c.Send(ctx, "resume", msg)
		require.NoError(t, err)
	}

	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithConversation(c),
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("exit\n"), &out)),
		runner.WithSessionID("resume"),
	)
	require.NoError(t, r.Run(ctx))

	lines := decodeLines(t, out.String())
	require.Len(t, lines, 1)
	redraw := lines[0]
	assert.Equal(t, domain.ActionRenderOffers, redraw[len(redraw)-2])
	assert.Equal(t, domain.ActionRenderHint, redraw[len(redraw)-1])
}

func TestRunner_RejectedInputContinues(t *testing.T) {
	t.Setenv("CONCIERGE_MAX_INPUT_SIZE", "8")
	in := strings.NewReader("a very long destination name\nRome\n")
	var out bytes.Buffer

	c := newConcierge()
	r := runner.NewRunner(
		runner.WithConversation(c),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
		runner.WithSessionID("limits"),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), runner.ActionSystem)
	state, err := c.Inspect(context.Background(), "limits")
	require.NoError(t, err)
	assert.Equal(t, "Rome", state.Preferences.Destination)
}

func TestRunner_TextConversation(t *testing.T) {
	in := strings.NewReader("Lima\n2024-12-24\nflights\nquit\n")
	var out bytes.Buffer

	r := runner.NewRunner(
		runner.WithConversation(newConcierge()),
		runner.WithInputHandler(runner.NewTextHandler(in, &out)),
	)
	require.NoError(t, r.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, concierge.Intro())
	assert.Contains(t, text, "When do you want to fly to Lima?")
	assert.Contains(t, text, "| Airline | Price | Duration | Type |")
	assert.Contains(t, text, "Which one would you like to book?")
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(
		runner.WithConversation(newConcierge()),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{})),
	)
	assert.NoError(t, r.Run(ctx))
}

func TestRunner_NoConversation(t *testing.T) {
	assert.Error(t, runner.NewRunner().Run(context.Background()))
}
