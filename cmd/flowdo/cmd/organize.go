package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowdo/internal/store"
	"flowdo/internal/utils"
)

type projectJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tasks  int    `json:"tasks"`
	Active bool   `json:"active"`
}

type filterJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
	Active bool   `json:"active"`
}

type labelJSON struct {
	Label string `json:"label"`
	Tasks int    `json:"tasks"`
}

// itemResponse is the JSON response for project, label, filter and view actions
type itemResponse struct {
	Action string      `json:"action"`
	Item   interface{} `json:"item"`
	Result string      `json:"result"`
}

type listResponse struct {
	Items  interface{} `json:"items"`
	Count  int         `json:"count"`
	Result string      `json:"result"`
}

// report prints an action outcome in the selected output format.
func (a *app) report(action string, item interface{}, format string, args ...interface{}) error {
	if a.json {
		return a.writeJSON(itemResponse{Action: action, Item: item, Result: ResultActionCompleted})
	}
	a.done(format, args...)
	return nil
}

// pick resolves several same-named matches, prompting when interactive.
func pick[T any](a *app, what, ref string, matches []T, name func(T) string) (T, error) {
	var zero T
	if len(matches) == 1 {
		return matches[0], nil
	}
	if !a.interactive() {
		return zero, utils.WrapWithSuggestion(
			fmt.Errorf("%d %ss are named %q", len(matches), what, ref),
			fmt.Sprintf("Use the %s id shown by 'flowdo %s list --json'", what, what))
	}
	idx, err := utils.PromptSelectionWithReader(matches, fmt.Sprintf("Select %s", what), a.stdin(), a.stdout,
		func(i int, item T) {
			_, _ = fmt.Fprintf(a.stdout, "  %d) %s\n", i+1, name(item))
		})
	if err != nil {
		return zero, err
	}
	return matches[idx], nil
}

// findProject looks a project up by id, then by case-insensitive name.
func (a *app) findProject(snap store.Snapshot, ref string) (store.Project, error) {
	ref = strings.TrimSpace(ref)
	if p, ok := snap.Project(ref); ok {
		return p, nil
	}
	var matches []store.Project
	for _, p := range snap.Projects {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return store.Project{}, utils.ErrProjectNotFound(ref)
	}
	return pick(a, "project", ref, matches, func(p store.Project) string {
		return fmt.Sprintf("%s (%s)", p.Name, shortID(p.ID))
	})
}

// findFilter looks a saved filter up by id, then by case-insensitive name.
func (a *app) findFilter(snap store.Snapshot, ref string) (store.Filter, error) {
	ref = strings.TrimSpace(ref)
	if f, ok := snap.Filter(ref); ok {
		return f, nil
	}
	var matches []store.Filter
	for _, f := range snap.Filters {
		if strings.EqualFold(f.Name, ref) {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return store.Filter{}, utils.ErrFilterNotFound(ref)
	}
	return pick(a, "filter", ref, matches, func(f store.Filter) string {
		return fmt.Sprintf("%s %s (%s)", f.Name, f.Query.Label, shortID(f.ID))
	})
}

func isActive(id string, active *string) bool {
	return active != nil && *active == id
}

// newProjectCmd creates the 'project' command group
func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				name, err := utils.ValidateText("project name", strings.Join(args, " "))
				if err != nil {
					return err
				}
				p := s.AddProject(ctx, name)
				return a.report("add", projectJSON{ID: p.ID, Name: p.Name}, "Created project: %s", p.Name)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project and move its tasks to the Inbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				p, err := a.findProject(s.Snapshot(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				// The Inbox goes straight to the store so the refusal is reported.
				if p.Name != store.InboxName && a.interactive() {
					question := fmt.Sprintf("Delete project %q? Its tasks move to the Inbox.", p.Name)
					if !utils.PromptYesNoWithReader(question, a.stdin(), a.stdout) {
						_, _ = fmt.Fprintln(a.stdout, "Cancelled")
						return nil
					}
				}
				if err := s.DeleteProject(ctx, p.ID); err != nil {
					return err
				}
				return a.report("delete", projectJSON{ID: p.ID, Name: p.Name}, "Deleted project: %s", p.Name)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects with their task counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				snap := s.Snapshot()
				counts := make(map[string]int)
				for _, t := range snap.Tasks {
					counts[t.ProjectID]++
				}
				items := make([]projectJSON, 0, len(snap.Projects))
				for _, p := range snap.Projects {
					items = append(items, projectJSON{
						ID:     p.ID,
						Name:   p.Name,
						Tasks:  counts[p.ID],
						Active: isActive(p.ID, snap.ActiveProjectID),
					})
				}
				if a.json {
					return a.writeJSON(listResponse{Items: items, Count: len(items), Result: ResultInfoOnly})
				}
				for _, p := range items {
					marker := " "
					if p.Active {
						marker = "*"
					}
					_, _ = fmt.Fprintf(a.stdout, "%s %s (%d)  %s\n", marker, p.Name, p.Tasks, shortID(p.ID))
				}
				a.info()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Make a project active; new tasks go there",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				p, err := a.findProject(s.Snapshot(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				s.SetActiveProjectID(ctx, p.ID)
				return a.report("use", projectJSON{ID: p.ID, Name: p.Name, Active: true}, "Active project: %s", p.Name)
			})
		},
	})

	return cmd
}

// newLabelCmd creates the 'label' command group
func newLabelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Manage labels",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <label>",
		Short: "Add a label (the @ prefix is optional)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				raw, err := utils.ValidateText("label", strings.TrimPrefix(args[0], "@"))
				if err != nil {
					return err
				}
				label := s.AddLabel(ctx, raw)
				return a.report("add", labelJSON{Label: label}, "Label: %s", label)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <label>",
		Short: "Delete a label and remove it from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				label := store.NormalizeLabel(args[0])
				s.DeleteLabel(ctx, label)
				return a.report("delete", labelJSON{Label: label}, "Deleted label: %s", label)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List labels with their task counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				snap := s.Snapshot()
				items := make([]labelJSON, 0, len(snap.Labels))
				for _, l := range snap.Labels {
					n := 0
					for _, t := range snap.Tasks {
						if t.HasLabel(l) {
							n++
						}
					}
					items = append(items, labelJSON{Label: l, Tasks: n})
				}
				if a.json {
					return a.writeJSON(listResponse{Items: items, Count: len(items), Result: ResultInfoOnly})
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "No labels")
				}
				for _, l := range items {
					_, _ = fmt.Fprintf(a.stdout, "%s (%d)\n", l.Label, l.Tasks)
				}
				a.info()
				return nil
			})
		},
	})

	return cmd
}

// newFilterCmd creates the 'filter' command group
func newFilterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage saved filters",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save a filter matching tasks with a label",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, _ := cmd.Flags().GetString("label")
			return a.run(func(ctx context.Context, s *store.Store) error {
				name, err := utils.ValidateText("filter name", strings.Join(args, " "))
				if err != nil {
					return err
				}
				if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(label), "@")) == "" {
					return utils.ErrMissingFilterLabel(name)
				}
				f := s.AddFilter(ctx, name, store.Query{Label: store.NormalizeLabel(label)})
				return a.report("add", filterJSON{ID: f.ID, Name: f.Name, Label: f.Query.Label},
					"Created filter: %s (%s)", f.Name, f.Query.Label)
			})
		},
	}
	addCmd.Flags().StringP("label", "l", "", "Label the filter matches (required)")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved filter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				f, err := a.findFilter(s.Snapshot(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				s.DeleteFilter(ctx, f.ID)
				return a.report("delete", filterJSON{ID: f.ID, Name: f.Name, Label: f.Query.Label},
					"Deleted filter: %s", f.Name)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				snap := s.Snapshot()
				items := make([]filterJSON, 0, len(snap.Filters))
				for _, f := range snap.Filters {
					items = append(items, filterJSON{
						ID:     f.ID,
						Name:   f.Name,
						Label:  f.Query.Label,
						Active: isActive(f.ID, snap.ActiveFilterID),
					})
				}
				if a.json {
					return a.writeJSON(listResponse{Items: items, Count: len(items), Result: ResultInfoOnly})
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(a.stdout, "No filters")
				}
				for _, f := range items {
					marker := " "
					if f.Active {
						marker = "*"
					}
					_, _ = fmt.Fprintf(a.stdout, "%s %s %s  %s\n", marker, f.Name, f.Label, shortID(f.ID))
				}
				a.info()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Show the tasks a saved filter matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				f, err := a.findFilter(s.Snapshot(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				s.SetActiveFilterID(ctx, f.ID)
				return a.printTasks(s)
			})
		},
	})

	return cmd
}

// newViewCmd creates the 'view' subcommand
func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [name]",
		Short: "Show or switch the current view",
		Long:  "Without a name, show the current view and when the data was last saved. With one of inbox, today, upcoming, filters or projects, switch to it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(func(ctx context.Context, sess *session) error {
				s := sess.store
				if len(args) == 1 {
					view, err := store.ParseView(args[0])
					if err != nil {
						return err
					}
					s.SetCurrentView(ctx, view)
					title := store.ViewTitle(s.Snapshot())
					return a.report("view", map[string]string{"view": string(view), "title": title},
						"Current view: %s", title)
				}

				snap := s.Snapshot()
				title := store.ViewTitle(snap)
				saved := sess.lastSaved(ctx)
				if a.json {
					item := map[string]string{"view": string(snap.CurrentView), "title": title}
					if saved != nil {
						item["last_saved"] = saved.UTC().Format(time.RFC3339)
					}
					return a.writeJSON(itemResponse{
						Action: "show",
						Item:   item,
						Result: ResultInfoOnly,
					})
				}
				for _, v := range store.Views() {
					marker := " "
					if v == snap.CurrentView {
						marker = "*"
					}
					_, _ = fmt.Fprintf(a.stdout, "%s %s\n", marker, v)
				}
				_, _ = fmt.Fprintf(a.stdout, "Current view: %s\n", title)
				if saved != nil {
					_, _ = fmt.Fprintf(a.stdout, "Last saved: %s\n", saved.Local().Format("2006-01-02 15:04:05"))
				} else {
					_, _ = fmt.Fprintln(a.stdout, "Last saved: never")
				}
				a.info()
				return nil
			})
		},
	}
}
