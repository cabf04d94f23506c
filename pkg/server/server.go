package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"domly/pkg/config"
)

const shutdownTimeout = 5 * time.Second

// Run serves handler until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log *zap.Logger) error {
	settings := TLSSettingsFrom(cfg)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("TLS settings invalid: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if settings.EnableTLS {
		tlsConfig, err := settings.BuildTLSConfig()
		if err != nil {
			return fmt.Errorf("TLS setup error: %w", err)
		}
		srv.TLSConfig = tlsConfig
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.Bool("tls", settings.EnableTLS))
		var err error
		if settings.EnableTLS {
			// certificates come from TLSConfig
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
