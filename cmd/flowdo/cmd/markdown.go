package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"flowdo/internal/markdown"
	"flowdo/internal/store"
	"flowdo/internal/utils"
)

type importResponse struct {
	Imported int        `json:"imported"`
	Tasks    []taskJSON `json:"tasks"`
	Result   string     `json:"result"`
}

// newExportCmd creates the 'export' subcommand
func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current view as a markdown checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewName, _ := cmd.Flags().GetString("view")
			output, _ := cmd.Flags().GetString("output")
			return a.run(func(ctx context.Context, s *store.Store) error {
				if viewName != "" {
					view, err := store.ParseView(viewName)
					if err != nil {
						return err
					}
					s.SetCurrentView(ctx, view)
				}
				title := store.ViewTitle(s.Snapshot())
				tasks := s.VisibleTasks()

				if output == "" || output == "-" {
					return markdown.WriteTasks(a.stdout, title, tasks)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				if err := markdown.WriteTasks(f, title, tasks); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				a.done("Exported %d tasks to %s", len(tasks), output)
				return nil
			})
		},
	}
	cmd.Flags().String("view", "", "Switch to a view first")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// newImportCmd creates the 'import' subcommand
func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the tasks of a markdown checklist to the active project",
		Long:  "Add every '- [ ] text @YYYY-MM-DD #label' line of a markdown file as a task. Checked items are imported as completed; '-' reads stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				var r io.Reader = a.stdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("failed to open %s: %w", args[0], err)
					}
					defer func() { _ = f.Close() }()
					r = f
				}

				items, err := markdown.Parse(r)
				if err != nil {
					return err
				}

				// AddTask prepends, so add in reverse to keep file order.
				added := make([]store.Task, len(items))
				for i := len(items) - 1; i >= 0; i-- {
					item := items[i]
					task := s.AddTask(ctx, item.Text, item.DueDate, item.Labels)
					if item.Completed {
						s.ToggleTaskCompletion(ctx, task.ID)
						task.Completed = true
					}
					if item.Priority != "" && item.Priority != store.PriorityP4 {
						utils.Debugf("Ignoring priority %s of %q; new tasks start at p4", item.Priority, item.Text)
					}
					added[i] = task
				}

				if a.json {
					snap := s.Snapshot()
					resp := importResponse{Imported: len(added), Tasks: make([]taskJSON, 0, len(added)), Result: ResultActionCompleted}
					for _, t := range added {
						resp.Tasks = append(resp.Tasks, toTaskJSON(t, snap))
					}
					return a.writeJSON(resp)
				}
				a.done("Imported %d tasks", len(added))
				return nil
			})
		},
	}
}
