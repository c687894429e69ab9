package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/muesli/termenv"
)

// BusyIndicator shows that a turn is blocked on the travel provider.
type BusyIndicator interface {
	Start(message string)
	Stop()
}

// TextHandler implements the interactive terminal chat.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Busy     BusyIndicator

	out *termenv.Output

	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerBusyIndicator configures what is shown while a provider call blocks.
func WithTextHandlerBusyIndicator(b BusyIndicator) TextHandlerOption {
	return func(h *TextHandler) {
		h.Busy = b
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		out:    termenv.NewOutput(w),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx.
// It exits once the handler is closed, even if a line is pending.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" && !h.deliver(inputResult{text: text}) {
			return
		}

		if err != nil {
			if err != io.EOF {
				h.deliver(inputResult{err: err})
			}
			return
		}
	}
}

func (h *TextHandler) deliver(res inputResult) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.inputChan <- res:
		return true
	case <-h.done:
		return false
	}
}

// Close stops the background reader. A read already blocked on the
// underlying reader returns when that reader does.
func (h *TextHandler) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) error {
	for _, act := range actions {
		switch act.Type {
		case domain.ActionRenderMessage:
			if entry, ok := act.Payload.(domain.TranscriptEntry); ok {
				h.printMessage(entry)
			}
		case domain.ActionRenderOffers:
			if table, ok := act.Payload.(domain.OfferTable); ok {
				fmt.Fprintln(h.Writer, h.render(MarkdownTable(table)))
			}
		case domain.ActionRenderHint:
			if hint, ok := act.Payload.(string); ok {
				fmt.Fprintln(h.Writer, h.out.String(hint).Italic().Faint())
			}
		}
	}
	return nil
}

func (h *TextHandler) printMessage(entry domain.TranscriptEntry) {
	if entry.Role == domain.RoleUser {
		label := h.out.String("You").Bold().Foreground(h.out.Color("#94a3b8"))
		fmt.Fprintf(h.Writer, "%s: %s\n", label, entry.Content)
		return
	}
	label := h.out.String("Concierge").Bold().Foreground(h.out.Color("#38bdf8"))
	fmt.Fprintf(h.Writer, "%s:\n%s\n", label, h.render(entry.Content))
}

func (h *TextHandler) render(markdown string) string {
	if h.Renderer == nil {
		return strings.TrimSpace(markdown)
	}
	rendered, err := h.Renderer(markdown)
	if err != nil {
		return strings.TrimSpace(markdown)
	}
	return strings.TrimRight(rendered, "\n")
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	// Ensure the pump is running
	h.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		fmt.Fprint(h.Writer, "> ")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-h.done:
		return "", io.EOF
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) Signal(ctx context.Context, name string, args map[string]any) error {
	if h.Busy == nil {
		return nil
	}
	switch name {
	case SignalBusy:
		msg, _ := args["message"].(string)
		h.Busy.Start(msg)
	case SignalIdle:
		h.Busy.Stop()
	}
	return nil
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}
