package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/internal/presentation/graph"
	"github.com/aretw0/concierge/internal/runtime"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// PrintGraph writes the Mermaid flowchart of the planning flow. With a
// session ID, the steps that session went through are highlighted.
func PrintGraph(ctx context.Context, cfg config.Config, w io.Writer, sessionID string) error {
	var overlay *graph.GraphOverlay
	if sessionID != "" {
		err := withStore(cfg, func(store ports.StateStore) error {
			state, err := store.Load(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = &graph.GraphOverlay{
				VisitedSteps: graph.VisitedSteps(state.Step),
				CurrentStep:  state.Step,
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, graph.GenerateMermaid(domain.Steps, runtime.Transitions(), overlay))
	return err
}
