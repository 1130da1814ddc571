package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"flowdo/internal/cli/prompt"
	"flowdo/internal/store"
	"flowdo/internal/utils"
)

// shortIDLen is how much of an id text output shows.
const shortIDLen = 8

// taskJSON represents a task in JSON output
type taskJSON struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	DueDate   *string  `json:"due_date"`
	Priority  string   `json:"priority"`
	ProjectID string   `json:"project_id"`
	Project   string   `json:"project,omitempty"`
	Labels    []string `json:"labels"`
}

// listTasksResponse represents the JSON response for the list command
type listTasksResponse struct {
	View   string     `json:"view"`
	Title  string     `json:"title"`
	Tasks  []taskJSON `json:"tasks"`
	Count  int        `json:"count"`
	Result string     `json:"result"`
}

// actionResponse represents the JSON response for task actions
type actionResponse struct {
	Action string   `json:"action"`
	Task   taskJSON `json:"task"`
	Result string   `json:"result"`
}

func toTaskJSON(t store.Task, snap store.Snapshot) taskJSON {
	tj := taskJSON{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Priority:  string(t.Priority),
		ProjectID: t.ProjectID,
		Labels:    t.Labels,
	}
	if tj.Labels == nil {
		tj.Labels = []string{}
	}
	if t.DueDate != nil {
		d := t.DueDate.String()
		tj.DueDate = &d
	}
	if p, ok := snap.Project(t.ProjectID); ok {
		tj.Project = p.Name
	}
	return tj
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// formatTask renders one line of text output.
func formatTask(t store.Task, today store.Date) string {
	var sb strings.Builder
	if t.Completed {
		sb.WriteString("[x] ")
	} else {
		sb.WriteString("[ ] ")
	}
	sb.WriteString(t.Text)
	for _, l := range t.Labels {
		sb.WriteString(" " + l)
	}
	switch store.DueStatusOf(t, today) {
	case store.DueOverdue:
		sb.WriteString(" (overdue " + t.DueDate.String() + ")")
	case store.DueToday:
		sb.WriteString(" (due today)")
	case store.DueScheduled:
		sb.WriteString(" (due " + t.DueDate.String() + ")")
	}
	sb.WriteString("  " + shortID(t.ID))
	return sb.String()
}

// parseDue converts a --due value relative to the command clock.
func (a *app) parseDue(value string) (*store.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := utils.ParseDateFlagAt(value, a.now())
	if err != nil {
		return nil, err
	}
	d := store.DateOf(*t)
	return &d, nil
}

// parseLabelFlags normalizes repeated or comma-separated --label values.
func parseLabelFlags(values []string) []string {
	return prompt.ParseLabels(strings.Join(values, ","))
}

// resolveTask finds the task a reference points at. Ids and id prefixes match
// any task; text matches only candidates. Ambiguous matches prompt when
// interactive.
func (a *app) resolveTask(s *store.Store, ref string, candidates []store.Task) (store.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return store.Task{}, utils.ErrEmptyText("task reference")
	}
	snap := s.Snapshot()

	if t, ok := snap.Task(ref); ok {
		return t, nil
	}

	var matches []store.Task
	for _, t := range snap.Tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		for _, t := range candidates {
			if t.Text == ref {
				matches = append(matches, t)
			}
		}
	}
	if len(matches) == 0 {
		lower := strings.ToLower(ref)
		for _, t := range candidates {
			if strings.Contains(strings.ToLower(t.Text), lower) {
				matches = append(matches, t)
			}
		}
	}

	switch len(matches) {
	case 0:
		return store.Task{}, utils.ErrTaskNotFound(ref)
	case 1:
		return matches[0], nil
	}

	if !a.interactive() {
		return store.Task{}, utils.ErrAmbiguousTask(ref, len(matches))
	}
	projects := make(map[string]string, len(snap.Projects))
	for _, p := range snap.Projects {
		projects[p.ID] = p.Name
	}
	selector := &prompt.TaskSelector{
		Tasks:    matches,
		Projects: projects,
		Prompt:   fmt.Sprintf("Multiple tasks match %q:", ref),
		Reader:   a.stdin(),
		Writer:   a.stdout,
	}
	t, err := selector.Run()
	if err != nil {
		return store.Task{}, err
	}
	return *t, nil
}

// reportTask prints the outcome of a task action.
func (a *app) reportTask(s *store.Store, action, verb string, t store.Task) error {
	if a.json {
		return a.writeJSON(actionResponse{
			Action: action,
			Task:   toTaskJSON(t, s.Snapshot()),
			Result: ResultActionCompleted,
		})
	}
	a.done("%s task: %s (%s)", verb, t.Text, shortID(t.ID))
	return nil
}

// newAddCmd creates the 'add' subcommand
func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a task to the active project",
		Long:  "Add a task to the active project, or to the Inbox when none is active. Without text, prompts for the fields when interactive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dueStr, _ := cmd.Flags().GetString("due")
			labelFlags, _ := cmd.Flags().GetStringSlice("label")
			return a.run(func(ctx context.Context, s *store.Store) error {
				return a.doAdd(ctx, s, strings.Join(args, " "), dueStr, labelFlags)
			})
		},
	}
	cmd.Flags().StringP("due", "d", "", "Due date (YYYY-MM-DD, today, tomorrow, +Nd, +Nw, +Nm)")
	cmd.Flags().StringSliceP("label", "l", nil, "Label for the task (repeatable, @ optional)")
	return cmd
}

func (a *app) doAdd(ctx context.Context, s *store.Store, text, dueStr string, labelFlags []string) error {
	var due *store.Date
	labels := parseLabelFlags(labelFlags)

	if strings.TrimSpace(text) == "" && a.interactive() {
		adder := &prompt.InteractiveAdder{
			Reader: a.stdin(),
			Writer: a.stdout,
			Now:    a.now(),
		}
		fields, err := adder.Run()
		if err != nil {
			return err
		}
		text, due = fields.Text, fields.DueDate
		labels = prompt.ParseLabels(strings.Join(append(labels, fields.Labels...), ","))
	} else {
		var err error
		if text, err = utils.ValidateText("task text", text); err != nil {
			return err
		}
		if due, err = a.parseDue(dueStr); err != nil {
			return err
		}
	}

	task := s.AddTask(ctx, text, due, labels)
	return a.reportTask(s, "add", "Created", task)
}

// newListCmd creates the 'list' subcommand
func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of the current view",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			viewName, _ := cmd.Flags().GetString("view")
			return a.run(func(ctx context.Context, s *store.Store) error {
				if viewName != "" {
					view, err := store.ParseView(viewName)
					if err != nil {
						return err
					}
					s.SetCurrentView(ctx, view)
				}
				return a.printTasks(s)
			})
		},
	}
	cmd.Flags().String("view", "", "Switch to a view first (inbox, today, upcoming, filters, projects)")
	return cmd
}

// printTasks prints the derived view of the current selection.
func (a *app) printTasks(s *store.Store) error {
	snap := s.Snapshot()
	tasks := s.VisibleTasks()
	title := store.ViewTitle(snap)

	if a.json {
		resp := listTasksResponse{
			View:   string(snap.CurrentView),
			Title:  title,
			Tasks:  make([]taskJSON, 0, len(tasks)),
			Count:  len(tasks),
			Result: ResultInfoOnly,
		}
		for _, t := range tasks {
			resp.Tasks = append(resp.Tasks, toTaskJSON(t, snap))
		}
		return a.writeJSON(resp)
	}

	_, _ = fmt.Fprintf(a.stdout, "%s (%d)\n", title, len(tasks))
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(a.stdout, "  No tasks")
	}
	today := s.Today()
	for _, t := range tasks {
		_, _ = fmt.Fprintln(a.stdout, "  "+formatTask(t, today))
	}
	a.info()
	return nil
}

// newDoneCmd creates the 'done' subcommand
func newDoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task>",
		Short: "Toggle a task between open and completed",
		Long:  "Toggle completion of a task given by id, id prefix or text. Completed tasks are only matched by text with --all.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showAll, _ := cmd.Flags().GetBool("all")
			return a.run(func(ctx context.Context, s *store.Store) error {
				candidates := prompt.FilterTasksByAction(s.Snapshot().Tasks, "complete", showAll)
				t, err := a.resolveTask(s, strings.Join(args, " "), candidates)
				if err != nil {
					return err
				}
				s.ToggleTaskCompletion(ctx, t.ID)
				t, _ = s.Task(t.ID)
				if t.Completed {
					return a.reportTask(s, "complete", "Completed", t)
				}
				return a.reportTask(s, "reopen", "Reopened", t)
			})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Also match completed tasks by text")
	return cmd
}

// newEditCmd creates the 'edit' subcommand
func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change the text, due date or labels of a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				return a.doEdit(ctx, cmd, s, strings.Join(args, " "))
			})
		},
	}
	cmd.Flags().StringP("text", "t", "", "New task text")
	cmd.Flags().StringP("due", "d", "", "New due date")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")
	cmd.Flags().StringSliceP("label", "l", nil, "Replace all labels")
	cmd.Flags().StringSlice("add-label", nil, "Add labels")
	cmd.Flags().StringSlice("remove-label", nil, "Remove labels")
	return cmd
}

func (a *app) doEdit(ctx context.Context, cmd *cobra.Command, s *store.Store, ref string) error {
	flags := cmd.Flags()
	if !flags.Changed("text") && !flags.Changed("due") && !flags.Changed("clear-due") &&
		!flags.Changed("label") && !flags.Changed("add-label") && !flags.Changed("remove-label") {
		return utils.WrapWithSuggestion(errors.New("nothing to change"),
			"Pass --text, --due, --clear-due, --label, --add-label or --remove-label")
	}

	t, err := a.resolveTask(s, ref, s.Snapshot().Tasks)
	if err != nil {
		return err
	}
	s.SetEditingTask(&t)

	text := t.Text
	if flags.Changed("text") {
		value, _ := flags.GetString("text")
		if text, err = utils.ValidateText("task text", value); err != nil {
			s.SetEditingTask(nil)
			return err
		}
	}

	due := t.DueDate
	if clearDue, _ := flags.GetBool("clear-due"); clearDue {
		due = nil
	} else if flags.Changed("due") {
		value, _ := flags.GetString("due")
		if due, err = a.parseDue(value); err != nil {
			s.SetEditingTask(nil)
			return err
		}
	}

	labels := slices.Clone(t.Labels)
	if flags.Changed("label") {
		values, _ := flags.GetStringSlice("label")
		labels = parseLabelFlags(values)
	}
	added, _ := flags.GetStringSlice("add-label")
	for _, l := range parseLabelFlags(added) {
		if !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	removed, _ := flags.GetStringSlice("remove-label")
	for _, l := range parseLabelFlags(removed) {
		labels = slices.DeleteFunc(labels, func(x string) bool { return x == l })
	}

	s.EditTask(ctx, t.ID, text, due, labels)
	t, _ = s.Task(t.ID)
	return a.reportTask(s, "edit", "Updated", t)
}

// newDeleteCmd creates the 'delete' subcommand
func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(ctx context.Context, s *store.Store) error {
				t, err := a.resolveTask(s, strings.Join(args, " "), s.Snapshot().Tasks)
				if err != nil {
					return err
				}
				snap := s.Snapshot()
				s.DeleteTask(ctx, t.ID)
				if a.json {
					return a.writeJSON(actionResponse{
						Action: "delete",
						Task:   toTaskJSON(t, snap),
						Result: ResultActionCompleted,
					})
				}
				a.done("Deleted task: %s (%s)", t.Text, shortID(t.ID))
				return nil
			})
		},
	}
}
