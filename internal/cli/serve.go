package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/concierge/internal/config"
	httpAdapter "github.com/aretw0/concierge/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer builds the HTTP chat API around app.
func NewHTTPServer(app *App) *http.Server {
	handler := httpAdapter.NewHandler(app.Concierge,
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithAllowedOrigin(app.Config.HTTP.AllowedOrigin),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})),
	)
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Config.HTTP.Port),
		Handler: handler,
	}
}

// RunServe serves the HTTP API until ctx is cancelled, then shuts down
// within the configured timeout.
func RunServe(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	app, err := NewApp(cfg, logOut)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := NewHTTPServer(app)

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting Concierge server", "addr", srv.Addr, "store", cfg.Store.Driver)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("Shutting down server", "timeout", cfg.HTTP.ShutdownTimeout)

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("Concierge server stopped gracefully")
		return nil
	}
}
