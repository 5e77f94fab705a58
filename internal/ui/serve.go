package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/calendo/internal/server"
)

const shutdownTimeout = 5 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar as a local JSON API",
		Long: `Serve the calendar over HTTP until interrupted.

Example:
  calendo serve --addr 127.0.0.1:8089
  curl localhost:8089/api/v1/month`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			coord, err := a.coordinator()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}

			srv := server.New(coord, a.store, a.logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigChan:
				a.logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutting down server: %w", err)
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
