package tui

import (
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is an indeterminate busy indicator drawn on a single line.
// Start and Stop may be called from any goroutine.
type Spinner struct {
	out      *termenv.Output
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner drawing on w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		out:      termenv.NewOutput(w),
		interval: 80 * time.Millisecond,
	}
}

// Start shows the spinner with message, replacing any running one.
func (s *Spinner) Start(message string) {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.spin(message, s.stop, s.done)
}

// Stop clears the spinner line. It is a no-op when nothing spins.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (s *Spinner) spin(message string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.out.HideCursor()
	defer s.out.ShowCursor()

	for i := 0; ; i++ {
		frame := s.out.String(spinnerFrames[i%len(spinnerFrames)]).Foreground(s.out.Color("#38bdf8"))
		s.out.ClearLine()
		_, _ = io.WriteString(s.out, "\r"+frame.String()+" "+message)

		select {
		case <-stop:
			s.out.ClearLine()
			_, _ = io.WriteString(s.out, "\r")
			return
		case <-ticker.C:
		}
	}
}
