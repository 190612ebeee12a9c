package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-admin/internal/config"
	"github.com/jonathan/jd-admin/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin UI server",
		Long:  `Start an HTTP server that renders the JD creation, list and ranking screens on top of the JD service.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := a.newServer(port)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides "+config.EnvPort+")")
	return cmd
}

// newServer builds the admin UI server. A non-zero port overrides the configuration.
func (a *app) newServer(port int) (*server.Server, error) {
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("--port must be between 0 and 65535")
	}
	if port == 0 {
		port = a.cfg.Port
	}

	session, err := a.cfg.NewSessionConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid session configuration: %w", err)
	}
	if session.Ephemeral {
		a.logger.Warn().Msg("no session secret configured; sessions end when the server restarts")
	}

	srv, err := server.New(server.Config{
		Port:    port,
		API:     a.client(),
		Session: session,
		Logger:  a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	a.logger.Info().Str("api", a.cfg.APIBaseURL).Int("port", port).Msg("admin UI configured")
	return srv, nil
}
