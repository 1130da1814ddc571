package store

import (
	"context"
	"slices"

	"flowdo/internal/notification"
	"flowdo/internal/utils"
)

// AddTask prepends a new open task with priority p4 to the active project,
// or to the Inbox when no project is active. Text is stored as given.
func (s *Store) AddTask(ctx context.Context, text string, due *Date, labels []string) Task {
	var task Task
	s.apply(ctx, true, func(st *Snapshot) bool {
		projectID := s.inbox().ID
		if st.ActiveProjectID != nil && *st.ActiveProjectID != "" {
			projectID = *st.ActiveProjectID
		}
		task = Task{
			ID:        s.newID(),
			Text:      text,
			Priority:  PriorityP4,
			ProjectID: projectID,
			Labels:    cloneLabels(labels),
		}
		if due != nil {
			d := *due
			task.DueDate = &d
		}
		st.Tasks = append([]Task{task.clone()}, st.Tasks...)
		return true
	})
	utils.Debugf("Added task %s to project %s", task.ID, task.ProjectID)
	return task
}

// DeleteTask removes the task with id. Unknown ids are ignored.
func (s *Store) DeleteTask(ctx context.Context, id string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		i := slices.IndexFunc(st.Tasks, func(t Task) bool { return t.ID == id })
		if i < 0 {
			return false
		}
		st.Tasks = slices.Delete(st.Tasks, i, i+1)
		return true
	})
}

// ToggleTaskCompletion flips the completed flag. Unknown ids are ignored.
func (s *Store) ToggleTaskCompletion(ctx context.Context, id string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		for i := range st.Tasks {
			if st.Tasks[i].ID == id {
				st.Tasks[i].Completed = !st.Tasks[i].Completed
				return true
			}
		}
		return false
	})
}

// EditTask replaces text, due date and labels of a task and closes the edit
// selection. Unknown ids are ignored and leave the selection open.
func (s *Store) EditTask(ctx context.Context, id, text string, due *Date, labels []string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		for i := range st.Tasks {
			if st.Tasks[i].ID != id {
				continue
			}
			st.Tasks[i].Text = text
			st.Tasks[i].DueDate = nil
			if due != nil {
				d := *due
				st.Tasks[i].DueDate = &d
			}
			st.Tasks[i].Labels = cloneLabels(labels)
			st.EditingTask = nil
			return true
		}
		return false
	})
}

// AddProject appends a new project.
func (s *Store) AddProject(ctx context.Context, name string) Project {
	p := Project{ID: s.newID(), Name: name}
	s.apply(ctx, true, func(st *Snapshot) bool {
		st.Projects = append(st.Projects, p)
		return true
	})
	return p
}

// DeleteProject moves the project's tasks to the Inbox, removes the project
// and selects the Inbox. Deleting the Inbox itself is refused with
// utils.ErrInboxProtected and a refusal notification; nothing changes.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	refused := false
	s.apply(ctx, true, func(st *Snapshot) bool {
		inbox, ok := st.Inbox()
		if !ok || id == inbox.ID {
			refused = true
			return false
		}
		for i := range st.Tasks {
			if st.Tasks[i].ProjectID == id {
				st.Tasks[i].ProjectID = inbox.ID
			}
		}
		st.Projects = slices.DeleteFunc(st.Projects, func(p Project) bool { return p.ID == id })
		st.ActiveProjectID = strPtr(inbox.ID)
		st.CurrentView = ViewInbox
		return true
	})

	if refused {
		utils.Debugf("Refused to delete project %s", id)
		s.notify(notification.Notification{
			Type:     notification.NotifyRefusal,
			Title:    "Project not deleted",
			Message:  "You cannot delete the default Inbox.",
			Metadata: map[string]string{"project_id": id},
		})
		return utils.ErrInboxProtected()
	}
	return nil
}

// AddLabel inserts raw with an "@" prefix, keeping labels unique and sorted.
// It returns the normalized label.
func (s *Store) AddLabel(ctx context.Context, raw string) string {
	label := NormalizeLabel(raw)
	s.apply(ctx, true, func(st *Snapshot) bool {
		if slices.Contains(st.Labels, label) {
			return false
		}
		labels := append(st.Labels, label)
		slices.Sort(labels)
		st.Labels = labels
		return true
	})
	return label
}

// DeleteLabel removes label from the label list and from every task.
// Filters that reference it are left alone and simply match nothing.
func (s *Store) DeleteLabel(ctx context.Context, label string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		changed := false
		if i := slices.Index(st.Labels, label); i >= 0 {
			st.Labels = slices.Delete(st.Labels, i, i+1)
			changed = true
		}
		for i := range st.Tasks {
			if st.Tasks[i].HasLabel(label) {
				st.Tasks[i].Labels = cloneLabels(slices.DeleteFunc(st.Tasks[i].Labels, func(l string) bool { return l == label }))
				changed = true
			}
		}
		return changed
	})
}

// AddFilter appends a new saved filter.
func (s *Store) AddFilter(ctx context.Context, name string, query Query) Filter {
	f := Filter{ID: s.newID(), Name: name, Query: query}
	s.apply(ctx, true, func(st *Snapshot) bool {
		st.Filters = append(st.Filters, f)
		return true
	})
	return f
}

// DeleteFilter removes a saved filter, clearing the selection if it was active.
func (s *Store) DeleteFilter(ctx context.Context, id string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		i := slices.IndexFunc(st.Filters, func(f Filter) bool { return f.ID == id })
		if i < 0 {
			return false
		}
		st.Filters = slices.Delete(st.Filters, i, i+1)
		if st.ActiveFilterID != nil && *st.ActiveFilterID == id {
			st.ActiveFilterID = nil
		}
		return true
	})
}

// SetCurrentView switches view and clears the active filter. Switching to
// inbox also selects the Inbox project; other views keep the active project.
func (s *Store) SetCurrentView(ctx context.Context, view View) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		st.CurrentView = view
		st.ActiveFilterID = nil
		if view == ViewInbox {
			st.ActiveProjectID = strPtr(s.inbox().ID)
		}
		return true
	})
}

// SetActiveProjectID selects a project and switches to the projects view.
func (s *Store) SetActiveProjectID(ctx context.Context, id string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		st.ActiveProjectID = strPtr(id)
		st.CurrentView = ViewProjects
		st.ActiveFilterID = nil
		return true
	})
}

// SetActiveFilterID selects a saved filter and switches to the filters view.
func (s *Store) SetActiveFilterID(ctx context.Context, id string) {
	s.apply(ctx, true, func(st *Snapshot) bool {
		st.ActiveFilterID = strPtr(id)
		st.CurrentView = ViewFilters
		st.ActiveProjectID = nil
		return true
	})
}

// SetEditingTask opens (task != nil) or closes the edit selection.
// The selection is transient and never written to the slot.
func (s *Store) SetEditingTask(task *Task) {
	s.apply(context.Background(), false, func(st *Snapshot) bool {
		if task == nil {
			st.EditingTask = nil
			return true
		}
		t := task.clone()
		st.EditingTask = &t
		return true
	})
}
