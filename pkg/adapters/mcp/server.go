package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FlowURI is the resource exposing the transition table.
const FlowURI = "concierge://flow"

// Conversation is the turn API exposed as MCP tools. *concierge.Concierge implements it.
type Conversation interface {
	Start(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Send(ctx context.Context, sessionID, input string) (*concierge.Turn, error)
	Render(ctx context.Context, sessionID string) ([]domain.ActionRequest, error)
	Inspect(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Transitions() []domain.Transition
}

// SessionArgs identifies a session. An empty ID on start_session assigns a new one.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// MessageArgs carries one user message.
type MessageArgs struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// TurnResult aligns with the HTTP TurnResponse so agents see the same shape on both adapters.
type TurnResult struct {
	SessionID string                 `json:"session_id" jsonschema_description:"The session the turn belongs to"`
	Step      domain.Step            `json:"step" jsonschema_description:"Where the session is in the planning flow"`
	Reply     string                 `json:"reply,omitempty" jsonschema_description:"Text of the assistant reply, empty when offers are shown"`
	Actions   []domain.ActionRequest `json:"actions" jsonschema_description:"What to display for this turn"`
}

// Server exposes a Conversation as an MCP server.
type Server struct {
	conv      Conversation
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. MCP over stdio owns stdout, so logs must go elsewhere.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(conv Conversation, opts ...Option) *Server {
	s := &Server{
		conv:      conv,
		mcpServer: server.NewMCPServer("concierge-mcp", strings.TrimSpace(concierge.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start (or resume) a trip planning conversation. Returns the greeting or the transcript so far."),
		mcp.WithString("session_id", mcp.Description("Session to resume; a new ID is assigned when omitted")),
		mcp.WithOutputSchema[TurnResult](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send the traveller's next message: a destination, a YYYY-MM-DD date, 'flights' or 'hotels', or a booking confirmation."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithString("message", mcp.Required(), mcp.Description("User message")),
		mcp.WithOutputSchema[TurnResult](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSend))

	renderTool := mcp.NewTool("render_session",
		mcp.WithDescription("Redraw a session: its transcript and, while choosing, the flights on offer."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[TurnResult](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (TurnResult, error) {
	id := strings.TrimSpace(args.SessionID)
	if id == "" {
		id = uuid.NewString()
	}

	state, err := s.conv.Start(ctx, id)
	if err != nil {
		return TurnResult{}, fmt.Errorf("start failed: %w", err)
	}
	actions, err := s.conv.Render(ctx, id)
	if err != nil {
		return TurnResult{}, fmt.Errorf("render failed: %w", err)
	}

	result := TurnResult{SessionID: id, Step: state.Step, Actions: actions}
	if len(actions) == 0 {
		result.Reply = concierge.Intro()
		result.Actions = []domain.ActionRequest{{
			Type:    domain.ActionRenderMessage,
			Payload: domain.TranscriptEntry{Role: domain.RoleAssistant, Content: result.Reply},
		}}
	}
	return result, nil
}

func (s *Server) handleSend(ctx context.Context, _ mcp.CallToolRequest, args MessageArgs) (TurnResult, error) {
	if args.SessionID == "" {
		return TurnResult{}, errors.New("session_id is required")
	}

	turn, err := s.conv.Send(ctx, args.SessionID, args.Message)
	if err != nil {
		s.logger.Warn("MCP turn rejected", "session_id", args.SessionID, "err", err, "size", len(args.Message))
		return TurnResult{}, err
	}

	result := TurnResult{SessionID: args.SessionID, Step: turn.State.Step, Actions: turn.Actions}
	if text, ok := turn.Reply.(domain.TextReply); ok {
		result.Reply = text.Text
	}
	return result, nil
}

func (s *Server) handleRender(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (TurnResult, error) {
	state, err := s.conv.Inspect(ctx, args.SessionID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("render failed: %w", err)
	}
	actions, err := s.conv.Render(ctx, args.SessionID)
	if err != nil {
		return TurnResult{}, fmt.Errorf("render failed: %w", err)
	}
	return TurnResult{SessionID: args.SessionID, Step: state.Step, Actions: actions}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowURI, "Trip planning flow",
		mcp.WithResourceDescription("Steps and transitions of the planning conversation"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		payload, err := json.Marshal(map[string]any{
			"steps":       domain.Steps,
			"transitions": s.conv.Transitions(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode flow: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FlowURI,
				MIMEType: "application/json",
				Text:     string(payload),
			},
		}, nil
	})
}
