package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/talgya/sengoku/internal/api"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a game over HTTP",
		Long:  "Starts a game and accepts commands for any clan on POST /api/v1/command.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, port int) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if cfg.Server.AdminKey == "" {
		slog.Warn("SENGOKU_ADMIN_KEY not set, POST endpoints will be disabled")
	}

	sess, err := startSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer sess.Close(context.WithoutCancel(ctx))

	fmt.Fprintf(cmd.OutOrStdout(), "API: http://localhost:%d/api/v1/status\n", cfg.Server.Port)
	srv := &api.Server{
		Game:     sess.game,
		Port:     cfg.Server.Port,
		AdminKey: cfg.Server.AdminKey,
	}
	return srv.Run(ctx)
}
