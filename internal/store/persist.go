package store

import (
	"encoding/json"
	"fmt"

	"flowdo/internal/utils"
)

// DefaultKey is the slot key the snapshot is stored under.
const DefaultKey = "flowdo-storage"

// storageVersion is written into every envelope. Older and newer versions
// are read as-is; no migrations exist yet.
const storageVersion = 0

// persistedState is the serialized form of a Snapshot. EditingTask is
// never written.
type persistedState struct {
	Tasks           []Task    `json:"tasks"`
	Projects        []Project `json:"projects"`
	Labels          []string  `json:"labels"`
	Filters         []Filter  `json:"filters"`
	CurrentView     View      `json:"currentView"`
	ActiveProjectID *string   `json:"activeProjectId"`
	ActiveFilterID  *string   `json:"activeFilterId"`
}

type envelope struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

// Encode serializes s into the persisted envelope.
func Encode(s Snapshot) ([]byte, error) {
	c := s.Clone()
	env := envelope{
		State: persistedState{
			Tasks:           c.Tasks,
			Projects:        c.Projects,
			Labels:          c.Labels,
			Filters:         c.Filters,
			CurrentView:     c.CurrentView,
			ActiveProjectID: c.ActiveProjectID,
			ActiveFilterID:  c.ActiveFilterID,
		},
		Version: storageVersion,
	}
	return json.Marshal(env)
}

// Decode parses a persisted envelope. Missing collections become empty,
// blank due dates become nil and an unknown view falls back to inbox. A
// snapshot without an Inbox project gets the default one prepended.
func Decode(data []byte) (Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.Version != storageVersion {
		utils.Debugf("Snapshot version %d differs from %d, reading as-is", env.Version, storageVersion)
	}

	st := env.State
	s := Snapshot{
		Tasks:           make([]Task, 0, len(st.Tasks)),
		Projects:        st.Projects,
		Labels:          st.Labels,
		Filters:         st.Filters,
		CurrentView:     st.CurrentView,
		ActiveProjectID: st.ActiveProjectID,
		ActiveFilterID:  st.ActiveFilterID,
	}

	for _, t := range st.Tasks {
		if t.DueDate != nil && t.DueDate.IsZero() {
			t.DueDate = nil
		}
		if t.Priority == "" {
			t.Priority = PriorityP4
		}
		t.Labels = cloneLabels(t.Labels)
		s.Tasks = append(s.Tasks, t)
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Labels == nil {
		s.Labels = []string{}
	}
	if s.Filters == nil {
		s.Filters = []Filter{}
	}
	if !s.CurrentView.Valid() {
		utils.Warnf("Unknown view %q in stored snapshot, using %s", s.CurrentView, ViewInbox)
		s.CurrentView = ViewInbox
	}

	if _, ok := s.Inbox(); !ok {
		utils.Warnf("Stored snapshot has no %s project, restoring it", InboxName)
		s.Projects = append([]Project{{ID: DefaultInboxID, Name: InboxName}}, s.Projects...)
	}

	return s, nil
}
