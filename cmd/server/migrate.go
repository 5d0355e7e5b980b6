package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/postpone/internal/platform/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version|reset]",
		Short: "Apply or inspect the bundled database migrations",
		Args:  cobra.MaximumNArgs(1),
		ValidArgs: []string{
			migrate.CommandUp, migrate.CommandDown, migrate.CommandStatus,
			migrate.CommandVersion, migrate.CommandReset,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrate.CommandUp
			if len(args) == 1 {
				command = strings.ToLower(args[0])
			}

			cfg, log, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.close(log)

			runner, err := db.migrator(log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch command {
			case migrate.CommandStatus:
				statuses, err := runner.Status(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
				for _, s := range statuses {
					state, appliedAt := "pending", "-"
					if s.Applied {
						state, appliedAt = "applied", s.AppliedAt.UTC().Format(time.RFC3339)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, state, appliedAt, s.Source)
				}
				return tw.Flush()
			case migrate.CommandVersion:
				version, err := runner.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, version)
				return nil
			default:
				return runner.Run(cmd.Context(), command)
			}
		},
	}
}
