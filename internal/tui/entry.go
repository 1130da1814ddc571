package tui

import (
	"strings"

	"flowdo/internal/store"
	"flowdo/internal/utils"
)

const (
	duePrefix = "due:"
	escape    = `\`
)

// parseEntry splits quick-entry input into text, due date and labels.
// "@word" tokens become labels and "due:<date>" sets the due date, where
// <date> is anything utils.ParseDateFlag accepts. A leading backslash keeps
// a word as literal text.
func parseEntry(input string, today store.Date) (string, *store.Date, []string, error) {
	var (
		words  []string
		labels []string
		due    *store.Date
	)
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(input) {
		switch {
		case strings.HasPrefix(tok, escape) && len(tok) > 1:
			words = append(words, tok[1:])
		case len(tok) > 1 && strings.HasPrefix(tok, "@"):
			label := store.NormalizeLabel(tok)
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		case strings.HasPrefix(tok, duePrefix):
			t, err := utils.ParseDateFlagAt(strings.TrimPrefix(tok, duePrefix), today.Time())
			if err != nil {
				return "", nil, nil, err
			}
			if t != nil {
				d := store.DateOf(*t)
				due = &d
			}
		default:
			words = append(words, tok)
		}
	}

	text, err := utils.ValidateText("task text", strings.Join(words, " "))
	if err != nil {
		return "", nil, nil, err
	}
	return text, due, labels, nil
}

// formatEntry renders a task in the syntax parseEntry reads back. Text
// words parseEntry would take for syntax are escaped.
func formatEntry(t store.Task) string {
	var parts []string
	for _, word := range strings.Fields(t.Text) {
		if needsEscape(word) {
			word = escape + word
		}
		parts = append(parts, word)
	}
	parts = append(parts, t.Labels...)
	if t.DueDate != nil {
		parts = append(parts, duePrefix+t.DueDate.String())
	}
	return strings.Join(parts, " ")
}

func needsEscape(word string) bool {
	return strings.HasPrefix(word, duePrefix) ||
		(len(word) > 1 && (strings.HasPrefix(word, "@") || strings.HasPrefix(word, escape)))
}
