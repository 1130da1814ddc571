// Package prompt handles interactive prompts with no-prompt mode support.
// It provides filter-then-pick task selection, action-aware candidate
// filtering and an interactive add mode with field validation.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"flowdo/internal/store"
	"flowdo/internal/utils"
)

// Sentinel errors for prompt operations.
var (
	ErrSelectionCancelled = errors.New("selection cancelled")
	ErrNoPromptMode       = errors.New("interactive prompts disabled (--no-prompt / -y)")
	ErrNoTasks            = errors.New("no tasks available")
	ErrNoMatches          = errors.New("no tasks match the filter")
)

// TaskSelector lets the user narrow a candidate list by text and pick one task.
type TaskSelector struct {
	Tasks    []store.Task
	Projects map[string]string // project id -> name, for display
	Prompt   string
	Reader   io.Reader
	Writer   io.Writer
	NoPrompt bool
}

// Run executes the task selection prompt.
// If NoPrompt is true, returns ErrNoPromptMode.
// If there is exactly one task, auto-selects it.
// Otherwise, prompts the user to filter and select a task.
func (s *TaskSelector) Run() (*store.Task, error) {
	if s.NoPrompt {
		return nil, ErrNoPromptMode
	}

	if len(s.Tasks) == 0 {
		return nil, ErrNoTasks
	}

	if len(s.Tasks) == 1 {
		return &s.Tasks[0], nil
	}

	writer := s.Writer
	if writer == nil {
		writer = io.Discard
	}

	scanner := bufio.NewScanner(s.Reader)

	// Step 1: Prompt for filter text
	_, _ = fmt.Fprintf(writer, "%s\nFilter (or press Enter to show all): ", s.Prompt)
	if !scanner.Scan() {
		return nil, ErrSelectionCancelled
	}
	filter := strings.TrimSpace(scanner.Text())

	// Step 2: Apply filter
	var filtered []store.Task
	if filter == "" {
		filtered = s.Tasks
	} else {
		filterLower := strings.ToLower(filter)
		for _, t := range s.Tasks {
			if strings.Contains(strings.ToLower(t.Text), filterLower) {
				filtered = append(filtered, t)
			}
		}
	}

	if len(filtered) == 0 {
		return nil, ErrNoMatches
	}

	if len(filtered) == 1 {
		_, _ = fmt.Fprintf(writer, "Auto-selected: %s\n", filtered[0].Text)
		return &filtered[0], nil
	}

	// Step 3: Display candidates
	for i, t := range filtered {
		_, _ = fmt.Fprintf(writer, "  %d) %s\n", i+1, formatTaskLine(t, s.Projects))
	}

	// Step 4: Prompt for selection number
	_, _ = fmt.Fprintf(writer, "Select (0 to cancel): ")
	if !scanner.Scan() {
		return nil, ErrSelectionCancelled
	}

	input := strings.TrimSpace(scanner.Text())
	num, err := strconv.Atoi(input)
	if err != nil {
		return nil, fmt.Errorf("invalid selection: %s", input)
	}

	if num == 0 {
		return nil, ErrSelectionCancelled
	}

	if num < 1 || num > len(filtered) {
		return nil, fmt.Errorf("selection out of range: %d", num)
	}

	return &filtered[num-1], nil
}

// formatTaskLine renders text followed by state, project, due date and labels.
func formatTaskLine(t store.Task, projects map[string]string) string {
	meta := []string{"open"}
	if t.Completed {
		meta[0] = "done"
	}

	if name, ok := projects[t.ProjectID]; ok {
		meta = append(meta, "project: "+name)
	}

	if t.DueDate != nil {
		meta = append(meta, "due: "+t.DueDate.String())
	}

	if len(t.Labels) > 0 {
		meta = append(meta, "labels: "+strings.Join(t.Labels, " "))
	}

	return fmt.Sprintf("%s [%s]", t.Text, strings.Join(meta, ", "))
}

// FilterTasksByAction returns the candidates for an action. "complete" only
// offers open tasks unless showAll is set; other actions offer every task.
func FilterTasksByAction(tasks []store.Task, action string, showAll bool) []store.Task {
	if showAll || action != "complete" {
		result := make([]store.Task, len(tasks))
		copy(result, tasks)
		return result
	}

	var filtered []store.Task
	for _, t := range tasks {
		if !t.Completed {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// AddFields holds the field values collected during interactive add mode.
type AddFields struct {
	Text    string
	DueDate *store.Date
	Labels  []string
}

// InteractiveAdder provides sequential field prompts with validation
// for adding a task when no text is given on the command line.
type InteractiveAdder struct {
	Reader   io.Reader
	Writer   io.Writer
	NoPrompt bool
	Now      time.Time // anchors relative due dates; zero means time.Now
}

// Run prompts for text (required), due date and labels.
func (a *InteractiveAdder) Run() (*AddFields, error) {
	if a.NoPrompt {
		return nil, ErrNoPromptMode
	}

	writer := a.Writer
	if writer == nil {
		writer = io.Discard
	}
	now := a.Now
	if now.IsZero() {
		now = time.Now()
	}

	scanner := bufio.NewScanner(a.Reader)
	fields := &AddFields{}

	// Text (required, non-blank)
	for {
		_, _ = fmt.Fprint(writer, "Task (required): ")
		if !scanner.Scan() {
			return nil, errors.New("no input for task text")
		}
		text, err := utils.ValidateText("task text", scanner.Text())
		if err == nil {
			fields.Text = text
			break
		}
		_, _ = fmt.Fprintln(writer, "Task text cannot be empty.")
	}

	// Due date (optional, validated)
	for {
		_, _ = fmt.Fprint(writer, "Due date (YYYY-MM-DD, today, tomorrow, +Nd, optional): ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			break
		}
		t, err := utils.ParseDateFlagAt(input, now)
		if err != nil {
			_, _ = fmt.Fprintf(writer, "Invalid date: %s. Use YYYY-MM-DD, today, tomorrow, +Nd, +Nw, +Nm\n", input)
			continue
		}
		d := store.DateOf(*t)
		fields.DueDate = &d
		break
	}

	// Labels (optional)
	_, _ = fmt.Fprint(writer, "Labels (space or comma separated, optional): ")
	if scanner.Scan() {
		fields.Labels = ParseLabels(scanner.Text())
	}

	return fields, nil
}

// ParseLabels splits a space or comma separated list into normalized labels,
// dropping blanks and duplicates while keeping first-seen order.
func ParseLabels(input string) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, raw := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		label := store.NormalizeLabel(raw)
		if label == "@" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}
