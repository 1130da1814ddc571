package store

import "strings"

// VisibleTasks derives the task list for the snapshot's view selection:
//   - filters with an active labelled filter: tasks carrying that label
//   - today: tasks due today
//   - upcoming: tasks due from today through today+upcomingDays-1
//   - anything else: tasks of the active project
//
// Task order follows the snapshot.
func VisibleTasks(s Snapshot, today Date, upcomingDays int) []Task {
	var match func(Task) bool

	filter, hasFilter := s.ActiveFilter()
	switch {
	case s.CurrentView == ViewFilters && hasFilter && filter.Query.Label != "":
		match = func(t Task) bool { return t.HasLabel(filter.Query.Label) }
	case s.CurrentView == ViewToday:
		match = func(t Task) bool { return t.DueDate != nil && *t.DueDate == today }
	case s.CurrentView == ViewUpcoming:
		if upcomingDays <= 0 {
			upcomingDays = DefaultUpcomingDays
		}
		last := today.AddDays(upcomingDays - 1)
		match = func(t Task) bool {
			return t.DueDate != nil && !t.DueDate.Before(today) && !last.Before(*t.DueDate)
		}
	default:
		match = func(t Task) bool {
			return s.ActiveProjectID != nil && t.ProjectID == *s.ActiveProjectID
		}
	}

	out := []Task{}
	for _, t := range s.Tasks {
		if match(t) {
			out = append(out, t.clone())
		}
	}
	return out
}

// ViewTitle is the heading shown above the task list.
func ViewTitle(s Snapshot) string {
	switch s.CurrentView {
	case ViewInbox:
		return InboxName
	case ViewToday:
		return "Today"
	case ViewUpcoming:
		return "Upcoming"
	case ViewProjects:
		if p, ok := s.ActiveProject(); ok {
			return p.Name
		}
		return "Project"
	case ViewFilters:
		if f, ok := s.ActiveFilter(); ok {
			return f.Name
		}
		return "Filters & Labels"
	}
	return string(s.CurrentView)
}

// DueStatus classifies a task's due date relative to today.
type DueStatus int

const (
	DueNone DueStatus = iota
	DueOverdue
	DueToday
	DueScheduled
)

// DueStatusOf reports whether the task is undated, overdue (past and still
// open), due today or scheduled later. A completed past task is scheduled.
func DueStatusOf(t Task, today Date) DueStatus {
	switch {
	case t.DueDate == nil:
		return DueNone
	case *t.DueDate == today:
		return DueToday
	case t.DueDate.Before(today) && !t.Completed:
		return DueOverdue
	default:
		return DueScheduled
	}
}

// LabelDisplay strips the "@" prefix for display.
func LabelDisplay(label string) string {
	return strings.TrimPrefix(label, "@")
}

// SidebarProjects lists user projects, the Inbox excluded.
func SidebarProjects(s Snapshot) []Project {
	out := []Project{}
	for _, p := range s.Projects {
		if p.Name != InboxName {
			out = append(out, p)
		}
	}
	return out
}

// ShowsLabelManager reports whether the label and filter management page
// replaces the task list: the filters view with no filter selected.
func ShowsLabelManager(s Snapshot) bool {
	return s.CurrentView == ViewFilters && s.ActiveFilterID == nil
}

// AcceptsNewTasks reports whether the add-task form is offered in view.
func AcceptsNewTasks(v View) bool {
	return v != ViewToday && v != ViewFilters
}
