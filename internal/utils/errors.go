package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProtectedProject is the sentinel behind ErrInboxProtected.
// Match it with errors.Is.
var ErrProtectedProject = errors.New("the Inbox project cannot be deleted")

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ErrTaskNotFound returns an error for when a task is not found.
func ErrTaskNotFound(searchTerm string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("task not found: %s", searchTerm),
		Suggestion: "Check the search term or use 'flowdo list' to see tasks in the current view",
	}
}

// ErrAmbiguousTask returns an error when a reference matches several tasks
// and no interactive selection is possible.
func ErrAmbiguousTask(searchTerm string, matches int) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("%d tasks match %q", matches, searchTerm),
		Suggestion: "Use the task ID (or a longer ID prefix) shown by 'flowdo list --json'",
	}
}

// ErrProjectNotFound returns an error for when a project is not found.
func ErrProjectNotFound(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("project not found: %s", name),
		Suggestion: fmt.Sprintf("Create the project with 'flowdo project add %s'", name),
	}
}

// ErrFilterNotFound returns an error for when a saved filter is not found.
func ErrFilterNotFound(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("filter not found: %s", name),
		Suggestion: "Use 'flowdo filter list' to see saved filters",
	}
}

// ErrInboxProtected returns the refusal for deleting the Inbox project.
func ErrInboxProtected() error {
	return &ErrorWithSuggestion{
		Err:        ErrProtectedProject,
		Suggestion: "Tasks of deleted projects move to the Inbox, so it always has to exist",
	}
}

// ErrInvalidDate returns an error for an invalid date string.
func ErrInvalidDate(dateStr string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid date: %s", dateStr),
		Suggestion: "Use date format YYYY-MM-DD (e.g., 2026-01-15) or today, tomorrow, +3d, +2w",
	}
}

// ErrInvalidView returns an error for an unknown view name with valid options.
func ErrInvalidView(view string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid view: %s", view),
		Suggestion: fmt.Sprintf("Valid options: %s", strings.Join(valid, ", ")),
	}
}

// ErrEmptyText returns an error for blank task, project or filter text.
func ErrEmptyText(what string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("%s cannot be empty", what),
		Suggestion: fmt.Sprintf("Provide a non-blank %s", what),
	}
}

// ErrMissingFilterLabel returns an error when a filter is created without a label.
func ErrMissingFilterLabel(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("filter %q has no label", name),
		Suggestion: "Pass --label @name; filters currently match on a single label",
	}
}
