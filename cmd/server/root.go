package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/postpone/internal/config"
	"github.com/phrazzld/postpone/internal/platform/logger"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "postpone",
		Short: "Task manager that postpones every task to a random due date",
		Long: "postpone serves the task API and provides commands to migrate the database,\n" +
			"mint development tokens and export a user's tasks.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"path to a config file (default ./config.yaml if present)")

	cmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newTokenCommand(opts),
		newExportCommand(opts),
	)
	return cmd
}

// loadConfig loads the configuration and installs a logger writing to w as
// the default. serve logs to stdout; the other commands log to stderr so
// their output stays clean.
func (o *rootOptions) loadConfig(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(w, cfg.Server.LogLevel)
	slog.SetDefault(log)

	log.Debug("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("jwt_secret_present", cfg.Auth.JWTSecret != ""))
	return cfg, log, nil
}
