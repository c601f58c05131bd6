package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/soundscout/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port > 0 {
		cfg.Port = port
	}
	if env := cmd.String("environment"); env != "" {
		cfg.Environment = env
	}

	svc, err := r.music()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, svc, r.logger).ListenAndServe(ctx)
}
