package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// GraphOverlay contains dynamic session data to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []domain.Step
	CurrentStep  domain.Step
}

// GenerateMermaid produces a Mermaid flowchart of the planning flow.
// It applies semantic styling:
// - Initial step: ((Circle))
// - Steps whose exit calls the travel provider: [[Subroutine]]
// - Default: [Rectangle]
// Re-prompts (self loops) are dotted. Overlay styles are applied if provided.
func GenerateMermaid(steps []domain.Step, transitions []domain.Transition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, step := range steps {
		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case callsProvider(step):
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(string(step)), opener, step, closer)
	}

	for _, t := range transitions {
		arrow := "-->"
		if t.From == t.To {
			arrow = "-.->"
		}
		if t.Trigger != "" {
			// Escape double quotes in trigger for Mermaid label
			label := strings.ReplaceAll(t.Trigger, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if t.From == t.To {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(string(t.From)), arrow, sanitizeMermaidID(string(t.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, step := range overlay.VisitedSteps {
			id := sanitizeMermaidID(string(step))
			if id != "" && !seen[id] {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}

		if overlay.CurrentStep != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentStep)))
		}
	}

	return sb.String()
}

// VisitedSteps lists the steps a session has gone through, in flow order,
// from the initial step up to and including current.
func VisitedSteps(current domain.Step) []domain.Step {
	var out []domain.Step
	for _, s := range domain.Steps {
		out = append(out, s)
		if s == current {
			return out
		}
	}
	return nil
}

func callsProvider(step domain.Step) bool {
	return step == domain.StepAwaitingDate || step == domain.StepSelecting
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
