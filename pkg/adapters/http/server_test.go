package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/adapters/mock"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(opts ...Option) *Server {
	provider := mock.NewProvider(mock.WithSearchDelay(0), mock.WithBookingDelay(0), mock.WithSeed(7))
	c := concierge.New(concierge.WithProvider(provider), concierge.WithMaxInputSize(64))
	opts = append([]Option{
		WithIDGenerator(func() string { return "generated" }),
		WithMetricsHandler(promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})),
	}, opts...)
	return NewServer(c, opts...)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestSpec_Valid(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Info.Version)
}

func TestRoutes_AreDocumented(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)

	router := newTestServer().Router()
	walked := 0
	err = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		walked++
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		item := doc.Paths.Value(route)
		if assert.NotNil(t, item, "route %s is not documented", route) {
			assert.NotNil(t, item.GetOperation(method), "%s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, walked, 10)
}

func TestCreateSession_AssignsIDAndGreets(t *testing.T) {
	h := newTestServer().Router()

	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[SessionResponse](t, w)
	assert.Equal(t, "generated", resp.Session.ID)
	assert.Equal(t, domain.StepAwaitingDestination, resp.Session.Step)
	require.Len(t, resp.Actions, 1)
	assert.Equal(t, domain.ActionRenderMessage, resp.Actions[0].Type)
	payload, ok := resp.Actions[0].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, concierge.Intro(), payload["content"])

	w = do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "mine", decode[SessionResponse](t, w).Session.ID)

	w = do(t, h, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{"generated", "mine"}, decode[SessionList](t, w).Sessions)
}

func TestSendMessage_BookingFlow(t *testing.T) {
	h := newTestServer().Router()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)

	turn := func(text string) TurnResponse {
		w := do(t, h, http.MethodPost, "/sessions/s1/messages", MessageRequest{Text: text})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[TurnResponse](t, w)
	}

	resp := turn("Paris")
	assert.Equal(t, ReplyText, resp.Reply.Type)
	assert.Equal(t, domain.StepAwaitingDate, resp.Session.Step)

	resp = turn("2030-06-01")
	assert.Equal(t, domain.StepPresenting, resp.Session.Step)

	resp = turn("show me flights")
	assert.Equal(t, ReplyShowOffers, resp.Reply.Type)
	assert.Equal(t, domain.OfferFlights, resp.Reply.Kind)
	assert.Equal(t, domain.StepSelecting, resp.Session.Step)
	require.Len(t, resp.Actions, 2)
	assert.Equal(t, domain.ActionRenderOffers, resp.Actions[0].Type)

	w := do(t, h, http.MethodGet, "/sessions/s1/view", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ViewResponse](t, w)
	assert.Equal(t, domain.ActionRenderHint, view.Actions[len(view.Actions)-1].Type)

	resp = turn("Book the first one")
	assert.Equal(t, domain.StepBooked, resp.Session.Step)
	assert.True(t, strings.HasPrefix(resp.Session.Preferences.Confirmation, "CONF-"))
	assert.Contains(t, resp.Reply.Text, resp.Session.Preferences.Confirmation)
}

func TestSendMessage_Errors(t *testing.T) {
	h := newTestServer().Router()

	w := do(t, h, http.MethodPost, "/sessions/ghost/messages", MessageRequest{Text: "Paris"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)

	req := httptest.NewRequest(http.MethodPost, "/sessions/s1/messages", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = do(t, h, http.MethodPost, "/sessions/s1/messages", MessageRequest{Text: strings.Repeat("x", 65)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "invalid input")

	w = do(t, h, http.MethodGet, "/sessions/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[domain.SessionState](t, w).Transcript, "rejected input is not recorded")
}

func TestResetAndDelete(t *testing.T) {
	h := newTestServer().Router()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/sessions/s1/messages", MessageRequest{Text: "Rome"}).Code)

	w := do(t, h, http.MethodPost, "/sessions/s1/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[domain.SessionState](t, w)
	assert.Equal(t, domain.StepAwaitingDestination, state.Step)
	assert.Empty(t, state.Preferences.Destination)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/sessions/ghost/reset", nil).Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/sessions/s1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/sessions/s1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/sessions/s1/view", nil).Code)
}

func TestSendMessage_DeletedSessionStaysDeleted(t *testing.T) {
	h := newTestServer().Router()
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/sessions/s1", nil).Code)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/sessions/s1/messages", MessageRequest{Text: "Rome"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/sessions/s1/reset", nil).Code)

	w := do(t, h, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[SessionList](t, w).Sessions)
}

func TestGetFlow(t *testing.T) {
	h := newTestServer().Router()

	w := do(t, h, http.MethodGet, "/flow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	flow := decode[Flow](t, w)
	assert.Equal(t, domain.Steps, flow.Steps)
	assert.NotEmpty(t, flow.Transitions)

	w = do(t, h, http.MethodGet, "/flow?format=mermaid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))
	assert.NotContains(t, w.Body.String(), "classDef current")

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)
	w = do(t, h, http.MethodGet, "/flow?format=mermaid&session=s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "classDef current")

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/flow?format=mermaid&session=ghost", nil).Code)
}

func TestHealthInfoAndDocs(t *testing.T) {
	h := newTestServer(WithAllowedOrigin("https://example.test")).Router()

	w := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.test", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, h, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]string](t, w)
	assert.Equal(t, "concierge-http", info["app"])
	assert.Equal(t, strings.TrimSpace(concierge.Version), info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodOptions, "/sessions", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", nil).Code)
}

func TestSubscribeEvents_ReceivesTurns(t *testing.T) {
	s := newTestServer()
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(`{"session_id":"s1"}`))
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/s1/events", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	lines := bufio.NewScanner(stream.Body)
	readUntil := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q", prefix)
		return ""
	}
	assert.Equal(t, "data: connected", readUntil("data:"))
	assert.Equal(t, 1, s.Streams().Subscribers("s1"))

	resp, err = http.Post(ts.URL+"/sessions/s1/messages", "application/json", strings.NewReader(`{"text":"Lisbon"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	readUntil("event: turn")
	var turn TurnResponse
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(readUntil("data:"), "data: ")), &turn))
	assert.Equal(t, "Lisbon", turn.Session.Preferences.Destination)
	assert.Equal(t, domain.StepAwaitingDate, turn.Session.Step)
}

func TestStreamManager_UnsubscribeIsIdempotent(t *testing.T) {
	sm := NewStreamManager(newTestServer().logger)
	ch, cancel := sm.Subscribe("s")
	sm.Broadcast("s", "hello")
	assert.Equal(t, "hello", <-ch)

	cancel()
	cancel()
	assert.Equal(t, 0, sm.Subscribers("s"))
	_, open := <-ch
	assert.False(t, open)

	sm.Broadcast("s", "nobody listening")
}
