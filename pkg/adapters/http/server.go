package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/presentation/graph"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Conversation is the turn API served over HTTP. *concierge.Concierge implements it.
type Conversation interface {
	Start(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Continue(ctx context.Context, sessionID, input string) (*concierge.Turn, error)
	Render(ctx context.Context, sessionID string) ([]domain.ActionRequest, error)
	Inspect(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Reset(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
	Transitions() []domain.Transition
}

// Server holds the HTTP handlers of the chat API.
type Server struct {
	conv    Conversation
	streams *StreamManager
	logger  *slog.Logger
	metrics http.Handler
	origin  string
	newID   func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithAllowedOrigin sets the Access-Control-Allow-Origin header. Defaults to "*".
func WithAllowedOrigin(origin string) Option {
	return func(s *Server) {
		s.origin = origin
	}
}

// WithIDGenerator replaces the UUID generator used by POST /sessions.
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewServer builds the handler set around a conversation.
func NewServer(conv Conversation, opts ...Option) *Server {
	s := &Server{
		conv:   conv,
		origin: "*",
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler of the chat API.
func NewHandler(conv Conversation, opts ...Option) http.Handler {
	return NewServer(conv, opts...).Router()
}

// Router registers every route on a chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.enableCORS)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Get("/view", s.ViewSession)
			r.Post("/messages", s.SendMessage)
			r.Post("/reset", s.ResetSession)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	r.Get("/flow", s.GetFlow)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Streams exposes the SSE fan-out, mostly for tests.
func (s *Server) Streams() *StreamManager {
	return s.streams
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Concierge API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// CreateSession handles POST /sessions. An explicit session_id resumes that
// session; otherwise a UUID is assigned.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	id := strings.TrimSpace(body.SessionID)
	if id == "" {
		id = s.newID()
	}

	state, err := s.conv.Start(r.Context(), id)
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	actions, err := s.conv.Render(r.Context(), id)
	if err != nil {
		s.fail(w, "CreateSession", err)
		return
	}
	if len(actions) == 0 {
		actions = []domain.ActionRequest{{
			Type:    domain.ActionRenderMessage,
			Payload: domain.TranscriptEntry{Role: domain.RoleAssistant, Content: concierge.Intro()},
		}}
	}
	writeJSON(w, http.StatusCreated, SessionResponse{Session: state, Actions: actions})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.conv.List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.conv.Inspect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// ViewSession handles GET /sessions/{id}/view.
func (s *Server) ViewSession(w http.ResponseWriter, r *http.Request) {
	actions, err := s.conv.Render(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "ViewSession", err)
		return
	}
	writeJSON(w, http.StatusOK, ViewResponse{Actions: actions})
}

// SendMessage handles POST /sessions/{id}/messages. The session must exist.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	turn, err := s.conv.Continue(r.Context(), id, body.Text)
	if err != nil {
		s.fail(w, "SendMessage", err)
		return
	}

	resp := TurnResponse{
		Session: turn.State,
		Reply:   replyFromDomain(turn.Reply),
		Actions: turn.Actions,
	}
	if payload, err := json.Marshal(resp); err == nil {
		s.streams.Broadcast(id, string(payload))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResetSession handles POST /sessions/{id}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.conv.Reset(r.Context(), id)
	if err != nil {
		s.fail(w, "ResetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{id}. Deleting a missing session is not an error.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.conv.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFlow handles GET /flow. With format=mermaid it returns the flowchart,
// highlighted with the progress of ?session= when given.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	transitions := s.conv.Transitions()
	if r.URL.Query().Get("format") != "mermaid" {
		writeJSON(w, http.StatusOK, Flow{Steps: domain.Steps, Transitions: transitions})
		return
	}

	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("session"); id != "" {
		state, err := s.conv.Inspect(r.Context(), id)
		if err != nil {
			s.fail(w, "GetFlow", err)
			return
		}
		overlay = &graph.GraphOverlay{
			VisitedSteps: graph.VisitedSteps(state.Step),
			CurrentStep:  state.Step,
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(domain.Steps, transitions, overlay))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := LoadSpec(r.Context()); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "concierge-http",
		"version":     strings.TrimSpace(concierge.Version),
		"api_version": apiVersion,
	})
}

// fail maps an error to a status code and writes it.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, concierge.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn("Request abandoned", "op", op, "err", err)
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Error("Request failed", "op", op, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
