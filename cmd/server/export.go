package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/postpone/internal/domain"
	"github.com/phrazzld/postpone/internal/domain/query"
	"github.com/phrazzld/postpone/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// exportDocument is the top-level export structure.
type exportDocument struct {
	UserID     uuid.UUID    `json:"user_id"     yaml:"user_id"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Count      int          `json:"count"       yaml:"count"`
	Tasks      []exportTask `json:"tasks"       yaml:"tasks"`
}

type exportTask struct {
	ID          uuid.UUID `json:"id"                    yaml:"id"`
	Title       string    `json:"title"                 yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     time.Time `json:"due_date"              yaml:"due_date"`
	Completed   bool      `json:"completed"             yaml:"completed"`
	Tags        []string  `json:"tags,omitempty"        yaml:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"            yaml:"created_at"`
}

type exportOptions struct {
	user   string
	format string
	status string
	sort   string
	tags   []string
}

func newExportCommand(root *rootOptions) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump a user's tasks as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := parseUserFlag(opts.user)
			if err != nil {
				return err
			}
			format := strings.ToLower(opts.format)
			if format != formatYAML && format != formatJSON {
				return fmt.Errorf("unsupported format %q, want yaml or json", opts.format)
			}
			status, err := query.ParseStatus(opts.status)
			if err != nil {
				return err
			}
			sortMode, err := query.ParseSortMode(opts.sort)
			if err != nil {
				return err
			}

			cfg, log, err := root.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, log, db)
			if err != nil {
				db.close(log)
				return err
			}
			defer app.cleanup()

			tasks, err := app.taskService.ListTasks(cmd.Context(), userID, service.ListTasksInput{
				Status: status,
				Tags:   opts.tags,
				Sort:   sortMode,
			})
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			return writeExport(cmd.OutOrStdout(), format, newExportDocument(userID, tasks, time.Now()))
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", "", "user ID (UUID) whose tasks are exported")
	cmd.Flags().StringVar(&opts.format, "format", formatYAML, "output format: yaml or json")
	cmd.Flags().StringVar(&opts.status, "status", string(query.StatusAll), "all, pending or completed")
	cmd.Flags().StringVar(&opts.sort, "sort", string(query.SortDueDate), "due_date, created_at or random")
	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, "only tasks carrying one of these tags")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newExportDocument(userID uuid.UUID, tasks []*domain.Task, now time.Time) exportDocument {
	doc := exportDocument{
		UserID:     userID,
		ExportedAt: now.UTC().Truncate(time.Second),
		Count:      len(tasks),
		Tasks:      make([]exportTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, exportTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate.UTC(),
			Completed:   t.Completed,
			Tags:        t.TagNames(),
			CreatedAt:   t.CreatedAt.UTC(),
		})
	}
	return doc
}

func writeExport(w io.Writer, format string, doc exportDocument) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
