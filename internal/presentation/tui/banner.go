package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the app title and the tagline to w.
func PrintBanner(w io.Writer, tagline string) {
	out := termenv.NewOutput(w)
	// Sky to sunset, one colour per line
	lines := []struct {
		text  string
		color string
	}{
		{`   ___                _              `, "#38bdf8"},
		{`  / __|___ _ _  __ __(_)___ _ _ __ _ ___ `, "#60a5fa"},
		{` | (__/ _ \ ' \/ _/ _| / -_) '_/ _' / -_)`, "#818cf8"},
		{`  \___\___/_||_\__\__|_\___|_| \__, \___|`, "#a78bfa"},
		{`                               |___/     `, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  ✈️  Autonomous Travel Concierge").Bold())
	if tagline != "" {
		fmt.Fprintln(w, out.String("  "+tagline).Faint())
	}
	fmt.Fprintln(w)
}
