package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, cmd, autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, cmd *cobra.Command, autoMigrate bool) error {
	cfg, log, err := root.loadConfig(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if autoMigrate {
		runner, err := db.migrator(log)
		if err != nil {
			db.close(log)
			return err
		}
		applied, err := runner.Up(ctx)
		if err != nil {
			db.close(log)
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("migrations applied", slog.Int("count", applied))
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		db.close(log)
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}
