package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunMCP serves the concierge as MCP tools. Over stdio, stdout carries the
// JSON-RPC stream, so logs must go to logOut.
func RunMCP(ctx context.Context, cfg config.Config, logOut io.Writer, transport string, port int) error {
	app, err := NewApp(cfg, logOut)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := mcp.NewServer(app.Concierge, mcp.WithLogger(app.Logger))

	switch transport {
	case TransportStdio:
		app.Logger.Info("Starting Concierge MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		app.Logger.Info("Starting Concierge MCP server (SSE)", "port", port)
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport %q: supported are %s and %s", transport, TransportStdio, TransportSSE)
	}
}
