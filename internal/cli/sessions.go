package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/pkg/ports"
)

// openSharedStore opens the configured store for the session commands.
func openSharedStore(cfg config.Config) (*Storage, error) {
	if cfg.Store.Driver != config.StoreRedis {
		return nil, ErrNeedsSharedStore
	}
	return NewStorage(cfg)
}

func withStore(cfg config.Config, fn func(ports.StateStore) error) error {
	storage, err := openSharedStore(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()
	return fn(storage.Store)
}

// ListSessions prints the stored session IDs.
func ListSessions(ctx context.Context, cfg config.Config, w io.Writer) error {
	return withStore(cfg, func(store ports.StateStore) error {
		ids, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}
		if len(ids) == 0 {
			fmt.Fprintln(w, "No active sessions found.")
			return nil
		}
		fmt.Fprintln(w, "Active Sessions:")
		for _, id := range ids {
			fmt.Fprintln(w, "- "+id)
		}
		return nil
	})
}

// InspectSession prints a session as indented JSON.
func InspectSession(ctx context.Context, cfg config.Config, w io.Writer, sessionID string) error {
	return withStore(cfg, func(store ports.StateStore) error {
		state, err := store.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	})
}

// RemoveSessions deletes sessions, reporting each one. It fails if any removal failed.
func RemoveSessions(ctx context.Context, cfg config.Config, w io.Writer, sessionIDs []string) error {
	return withStore(cfg, func(store ports.StateStore) error {
		failed := 0
		for _, id := range sessionIDs {
			if err := store.Delete(ctx, id); err != nil {
				fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(w, "Removed session '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d sessions could not be removed", failed, len(sessionIDs))
		}
		return nil
	})
}
