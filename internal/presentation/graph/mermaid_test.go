package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/concierge/internal/presentation/graph"
	"github.com/aretw0/concierge/internal/runtime"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(domain.Steps, runtime.Transitions(), nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{"Header", []string{"graph TD\n"}},
		{"Initial Step Shape", []string{`awaiting_destination(("awaiting_destination"))`}},
		{"Provider Step Shape", []string{`awaiting_date[["awaiting_date"]]`, `selecting[["selecting"]]`}},
		{"Plain Step Shape", []string{`presenting["presenting"]`, `booked["booked"]`}},
		{"Forward Edge", []string{`awaiting_date -- "valid YYYY-MM-DD" --> presenting`}},
		{"Self Loop", []string{`presenting -. "neither" .-> presenting`}},
		{"Quotes Escaped", []string{`-- "text contains 'yes' or 'another'" --> awaiting_destination`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	overlay := &graph.GraphOverlay{
		VisitedSteps: graph.VisitedSteps(domain.StepPresenting),
		CurrentStep:  domain.StepPresenting,
	}
	out := graph.GenerateMermaid(domain.Steps, runtime.Transitions(), overlay)

	assert.Contains(t, out, "classDef current")
	assert.Contains(t, out, "class awaiting_destination visited;")
	assert.Contains(t, out, "class presenting current;")
	assert.NotContains(t, out, "class booked visited;")
	assert.Equal(t, 1, strings.Count(out, "class presenting visited;"))
}

func TestVisitedSteps(t *testing.T) {
	assert.Equal(t, []domain.Step{domain.StepAwaitingDestination}, graph.VisitedSteps(domain.StepAwaitingDestination))
	assert.Len(t, graph.VisitedSteps(domain.StepBooked), 5)
	assert.Nil(t, graph.VisitedSteps("unknown"))
}
