package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/internal/presentation/tui"
	"github.com/aretw0/concierge/pkg/runner"
	"golang.org/x/term"
)

// ChatOptions configures the chat command.
type ChatOptions struct {
	SessionID string
	JSON      bool
	Headless  bool

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func (o *ChatOptions) defaults() {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.SessionID == "" {
		o.SessionID = runner.DefaultSessionID
	}
}

// RunChat runs the terminal conversation until the input ends or ctx is cancelled.
func RunChat(ctx context.Context, cfg config.Config, opts ChatOptions) error {
	opts.defaults()
	interactive := !opts.JSON && !opts.Headless

	handler := newHandler(opts, interactive && IsTerminal(opts.Out))

	app, err := NewApp(cfg, opts.Err, BusyHooks(handler))
	if err != nil {
		return err
	}
	defer app.Close()

	if interactive {
		tui.PrintBanner(opts.Out, fmt.Sprintf("v%s · type 'exit' to quit", strings.TrimSpace(concierge.Version)))
	}

	r := runner.NewRunner(
		runner.WithConversation(app.Concierge),
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
		runner.WithHeadless(opts.Headless),
		runner.WithSessionID(opts.SessionID),
	)

	app.Logger.Info("Chat started", "session_id", opts.SessionID, "json", opts.JSON, "headless", opts.Headless)
	if err := r.Run(ctx); err != nil {
		return err
	}
	app.Logger.Info("Chat ended", "session_id", opts.SessionID)
	return nil
}

// newHandler picks the IO strategy. Rich rendering and the spinner are only
// used on a real terminal.
func newHandler(opts ChatOptions, rich bool) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(opts.In, opts.Out)
	}
	var handlerOpts []runner.TextHandlerOption
	if rich {
		handlerOpts = append(handlerOpts,
			runner.WithTextHandlerRenderer(tui.NewRenderer()),
			runner.WithTextHandlerBusyIndicator(tui.NewSpinner(opts.Out)),
		)
	}
	return runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
