package store

import (
	"slices"
	"strings"

	"flowdo/internal/utils"
)

// InboxName is the name of the project that always exists.
const InboxName = "Inbox"

// DefaultInboxID is the id the Inbox gets in a fresh snapshot.
const DefaultInboxID = "inbox"

// Priority is a task priority, p1 highest.
type Priority string

const (
	PriorityP1 Priority = "p1"
	PriorityP2 Priority = "p2"
	PriorityP3 Priority = "p3"
	PriorityP4 Priority = "p4"
)

// View selects which derived task list is shown.
type View string

const (
	ViewInbox    View = "inbox"
	ViewToday    View = "today"
	ViewUpcoming View = "upcoming"
	ViewFilters  View = "filters"
	ViewProjects View = "projects"
)

// Views lists every view in sidebar order.
func Views() []View {
	return []View{ViewInbox, ViewToday, ViewUpcoming, ViewFilters, ViewProjects}
}

// Valid reports whether v is one of Views.
func (v View) Valid() bool {
	return slices.Contains(Views(), v)
}

// ParseView parses a view name case-insensitively.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	names := make([]string, 0, len(Views()))
	for _, view := range Views() {
		names = append(names, string(view))
	}
	return "", utils.ErrInvalidView(s, names)
}

// Task is a single to-do item.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	DueDate   *Date    `json:"dueDate"`
	Priority  Priority `json:"priority"`
	ProjectID string   `json:"projectId"`
	Labels    []string `json:"labels,omitempty"`
}

// HasLabel reports whether the task carries label.
func (t Task) HasLabel(label string) bool {
	return slices.Contains(t.Labels, label)
}

func (t Task) clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	c.Labels = cloneLabels(t.Labels)
	return c
}

// Project groups tasks.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Query is the predicate of a saved filter.
type Query struct {
	Label string `json:"label,omitempty"`
}

// Filter is a saved, named query over tasks.
type Filter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query Query  `json:"query"`
}

// Snapshot is the complete store state at a point in time.
// Slices are never nil; EditingTask is transient and never persisted.
type Snapshot struct {
	Tasks           []Task
	Projects        []Project
	Labels          []string
	Filters         []Filter
	CurrentView     View
	ActiveProjectID *string
	ActiveFilterID  *string
	EditingTask     *Task
}

// DefaultSnapshot is the state of a store that has never been written:
// only the Inbox project, inbox view selected.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Tasks:           []Task{},
		Projects:        []Project{{ID: DefaultInboxID, Name: InboxName}},
		Labels:          []string{},
		Filters:         []Filter{},
		CurrentView:     ViewInbox,
		ActiveProjectID: strPtr(DefaultInboxID),
	}
}

// Inbox returns the Inbox project, matched by name.
func (s Snapshot) Inbox() (Project, bool) {
	for _, p := range s.Projects {
		if p.Name == InboxName {
			return p, true
		}
	}
	return Project{}, false
}

// Task returns the task with id.
func (s Snapshot) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Project returns the project with id.
func (s Snapshot) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Filter returns the saved filter with id.
func (s Snapshot) Filter(id string) (Filter, bool) {
	for _, f := range s.Filters {
		if f.ID == id {
			return f, true
		}
	}
	return Filter{}, false
}

// ActiveProject returns the active project, if one is selected and exists.
func (s Snapshot) ActiveProject() (Project, bool) {
	if s.ActiveProjectID == nil {
		return Project{}, false
	}
	return s.Project(*s.ActiveProjectID)
}

// ActiveFilter returns the active filter, if one is selected and exists.
func (s Snapshot) ActiveFilter() (Filter, bool) {
	if s.ActiveFilterID == nil {
		return Filter{}, false
	}
	return s.Filter(*s.ActiveFilterID)
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Tasks:           make([]Task, len(s.Tasks)),
		Projects:        slices.Clone(s.Projects),
		Labels:          slices.Clone(s.Labels),
		Filters:         slices.Clone(s.Filters),
		CurrentView:     s.CurrentView,
		ActiveProjectID: clonePtr(s.ActiveProjectID),
		ActiveFilterID:  clonePtr(s.ActiveFilterID),
	}
	for i, t := range s.Tasks {
		c.Tasks[i] = t.clone()
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	if c.Labels == nil {
		c.Labels = []string{}
	}
	if c.Filters == nil {
		c.Filters = []Filter{}
	}
	if s.EditingTask != nil {
		t := s.EditingTask.clone()
		c.EditingTask = &t
	}
	return c
}

// NormalizeLabel adds the "@" prefix when missing.
func NormalizeLabel(raw string) string {
	if strings.HasPrefix(raw, "@") {
		return raw
	}
	return "@" + raw
}

// cloneLabels copies a label set; empty sets become nil so that absent and
// empty compare equal.
func cloneLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	return slices.Clone(labels)
}

func strPtr(s string) *string {
	return &s
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	return strPtr(*p)
}
