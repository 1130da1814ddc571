// Package markdown converts tasks to and from markdown checklists, used by
// the export and import commands.
//
// One task per line: "- [x] Task text !1 @2024-01-15 #label1 #label2".
// Priority is written only when it is not the default p4.
package markdown

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"flowdo/internal/store"
)

var (
	itemPattern     = regexp.MustCompile(`^\s*[-*]\s+\[(.)\]\s+(.*)$`)
	priorityPattern = regexp.MustCompile(`(^|\s)!([1-4])(\s|$)`)
	dueDatePattern  = regexp.MustCompile(`(^|\s)@(\d{4}-\d{2}-\d{2})(\s|$)`)
	tagPattern      = regexp.MustCompile(`(^|\s)#([^\s#]+)`)
)

// Item is one parsed checklist line.
type Item struct {
	Text      string
	Completed bool
	Priority  store.Priority // empty when the line carries none
	DueDate   *store.Date
	Labels    []string // normalized with the @ prefix
}

// ParseStatusChar reports whether a checkbox character marks a completed item.
func ParseStatusChar(char string) bool {
	return strings.EqualFold(char, "x")
}

// FormatStatusChar returns the checkbox character for a completion state.
func FormatStatusChar(completed bool) string {
	if completed {
		return "x"
	}
	return " "
}

// ParseTaskText extracts text, priority, due date and labels from the part
// of a line after the checkbox.
func ParseTaskText(text string) Item {
	item := Item{}

	if m := priorityPattern.FindStringSubmatch(text); m != nil {
		item.Priority = store.Priority("p" + m[2])
		text = priorityPattern.ReplaceAllString(text, " ")
	}

	if m := dueDatePattern.FindStringSubmatch(text); m != nil {
		if d, err := store.ParseDate(m[2]); err == nil {
			item.DueDate = &d
			text = dueDatePattern.ReplaceAllString(text, " ")
		}
	}

	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		label := store.NormalizeLabel(m[2])
		if !slices.Contains(item.Labels, label) {
			item.Labels = append(item.Labels, label)
		}
	}
	text = tagPattern.ReplaceAllString(text, " ")

	item.Text = strings.Join(strings.Fields(text), " ")
	return item
}

// ParseLine parses one checklist line. ok is false for anything that is not
// a checklist item or has no text.
func ParseLine(line string) (item Item, ok bool) {
	m := itemPattern.FindStringSubmatch(line)
	if m == nil {
		return Item{}, false
	}
	item = ParseTaskText(m[2])
	item.Completed = ParseStatusChar(m[1])
	return item, item.Text != ""
}

// Parse reads every checklist item from r, skipping headings and prose.
func Parse(r io.Reader) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if item, ok := ParseLine(scanner.Text()); ok {
			items = append(items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}
	return items, nil
}

// FormatTaskText formats a task back to markdown text.
func FormatTaskText(task store.Task) string {
	parts := []string{task.Text}

	if task.Priority != "" && task.Priority != store.PriorityP4 {
		parts = append(parts, "!"+strings.TrimPrefix(string(task.Priority), "p"))
	}

	if task.DueDate != nil {
		parts = append(parts, "@"+task.DueDate.String())
	}

	for _, label := range task.Labels {
		parts = append(parts, "#"+store.LabelDisplay(label))
	}

	return strings.Join(parts, " ")
}

// WriteTasks writes a heading followed by one checklist line per task.
func WriteTasks(w io.Writer, title string, tasks []store.Task) error {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")
	for _, task := range tasks {
		sb.WriteString("- [")
		sb.WriteString(FormatStatusChar(task.Completed))
		sb.WriteString("] ")
		sb.WriteString(FormatTaskText(task))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
