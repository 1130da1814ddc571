// Package tui provides a terminal user interface for the task store.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowdo/internal/notification"
	"flowdo/internal/store"
	"flowdo/internal/utils"
	"flowdo/internal/watcher"
)

// Focus indicates which pane has focus
type Focus int

const (
	FocusSidebar Focus = iota
	FocusTasks
)

// Mode indicates the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeAddProject
	ModeAddLabel
	ModeAddFilter
	ModeHelp
	ModeConfirm
)

type itemKind int

const (
	itemView itemKind = iota
	itemProject
	itemFilter
)

// sidebarItem is one selectable row of the sidebar.
type sidebarItem struct {
	kind  itemKind
	view  store.View
	id    string
	title string
}

// confirmation is a pending destructive action awaiting y/n.
type confirmation struct {
	prompt string
	run    func()
}

// Model represents the TUI state
type Model struct {
	store *store.Store
	ctx   context.Context

	// Data
	snap    store.Snapshot
	today   store.Date
	tasks   []store.Task
	sidebar []sidebarItem

	// Selection
	sideCursor int
	taskCursor int
	focus      Focus

	// Mode and input
	mode      Mode
	textInput textinput.Model
	confirm   *confirmation
	status    string
	keys      keyMap
	help      help.Model

	// Change feeds
	changes     chan struct{}
	unsubscribe func()
	statusFeed  *StatusChannel
	watchPaths  []string
	watcher     *watcher.Watcher
	external    chan struct{}

	// UI dimensions
	width  int
	height int

	// Styles
	sidebarStyle   lipgloss.Style
	taskPaneStyle  lipgloss.Style
	selectedStyle  lipgloss.Style
	activeStyle    lipgloss.Style
	completedStyle lipgloss.Style
	labelStyle     lipgloss.Style
	overdueStyle   lipgloss.Style
	todayStyle     lipgloss.Style
	mutedStyle     lipgloss.Style
	dialogStyle    lipgloss.Style
	statusBarStyle lipgloss.Style
}

// Option configures a Model.
type Option func(*Model)

// WithStatusChannel shows notifications delivered to ch in the status bar.
func WithStatusChannel(ch *StatusChannel) Option {
	return func(m *Model) {
		m.statusFeed = ch
	}
}

// WithWatchPaths reloads the store whenever one of paths changes on disk.
func WithWatchPaths(paths []string) Option {
	return func(m *Model) {
		m.watchPaths = paths
	}
}

// WithContext sets the context passed to store commands.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// Message types
type storeChangedMsg struct{}

type externalChangeMsg struct{}

type statusMsg struct {
	n notification.Notification
}

// New creates a new TUI model
func New(s *store.Store, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter text..."
	ti.CharLimit = 256

	m := &Model{
		store:     s,
		ctx:       context.Background(),
		textInput: ti,
		focus:     FocusTasks,
		mode:      ModeNormal,
		keys:      newKeyMap(),
		help:      help.New(),
		changes:   make(chan struct{}, 1),
		external:  make(chan struct{}, 1),
		sidebarStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		taskPaneStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		activeStyle: lipgloss.NewStyle().
			Bold(true),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")),
		overdueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		todayStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")),
		mutedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		dialogStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		statusBarStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.unsubscribe = s.Subscribe(func(store.Snapshot) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

// Init starts the change feeds.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	if m.statusFeed != nil {
		cmds = append(cmds, m.waitForStatus())
	}
	if len(m.watchPaths) > 0 {
		if err := m.startWatcher(); err != nil {
			utils.Warnf("File watching disabled: %v", err)
		} else {
			cmds = append(cmds, m.waitForExternal())
		}
	}
	return tea.Batch(cmds...)
}

// Close releases the store subscription and stops the file watcher.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func (m *Model) startWatcher() error {
	w, err := watcher.New(watcher.DefaultConfig(m.watchPaths, func() {
		select {
		case m.external <- struct{}{}:
		default:
		}
	}))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	m.watcher = w
	return nil
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return storeChangedMsg{}
	}
}

func (m *Model) waitForExternal() tea.Cmd {
	return func() tea.Msg {
		<-m.external
		return externalChangeMsg{}
	}
}

func (m *Model) waitForStatus() tea.Cmd {
	feed := m.statusFeed
	return func() tea.Msg {
		select {
		case n := <-feed.ch:
			return statusMsg{n}
		case <-feed.closed:
			return nil
		}
	}
}

// refresh re-reads the snapshot and rebuilds the sidebar and task list.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.today = m.store.Today()
	m.tasks = store.VisibleTasks(m.snap, m.today, m.store.UpcomingDays())

	m.sidebar = []sidebarItem{
		{kind: itemView, view: store.ViewInbox, title: "Inbox"},
		{kind: itemView, view: store.ViewToday, title: "Today"},
		{kind: itemView, view: store.ViewUpcoming, title: "Upcoming"},
		{kind: itemView, view: store.ViewFilters, title: "Filters & Labels"},
	}
	for _, p := range store.SidebarProjects(m.snap) {
		m.sidebar = append(m.sidebar, sidebarItem{kind: itemProject, id: p.ID, title: p.Name})
	}
	for _, f := range m.snap.Filters {
		m.sidebar = append(m.sidebar, sidebarItem{kind: itemFilter, id: f.ID, title: f.Name})
	}

	m.sideCursor = clamp(m.sideCursor, len(m.sidebar))
	m.taskCursor = clamp(m.taskCursor, m.paneLen())
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// labelPage reports whether the task pane shows the label manager.
func (m *Model) labelPage() bool {
	return store.ShowsLabelManager(m.snap)
}

func (m *Model) paneLen() int {
	if m.labelPage() {
		return len(m.snap.Labels)
	}
	return len(m.tasks)
}

func (m *Model) selectedTask() (store.Task, bool) {
	if m.labelPage() || m.taskCursor >= len(m.tasks) {
		return store.Task{}, false
	}
	return m.tasks[m.taskCursor], true
}

func (m *Model) selectedLabel() (string, bool) {
	if !m.labelPage() || m.taskCursor >= len(m.snap.Labels) {
		return "", false
	}
	return m.snap.Labels[m.taskCursor], true
}

// isActive reports whether item is the current selection in the snapshot.
func (m *Model) isActive(item sidebarItem) bool {
	switch item.kind {
	case itemProject:
		return m.snap.CurrentView == store.ViewProjects &&
			m.snap.ActiveProjectID != nil && *m.snap.ActiveProjectID == item.id
	case itemFilter:
		return m.snap.CurrentView == store.ViewFilters &&
			m.snap.ActiveFilterID != nil && *m.snap.ActiveFilterID == item.id
	default:
		if item.view == store.ViewFilters {
			return m.labelPage()
		}
		return m.snap.CurrentView == item.view
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, m.waitForChange()

	case externalChangeMsg:
		changed, err := m.store.Reload(m.ctx)
		switch {
		case err != nil:
			m.status = "Reload failed: " + err.Error()
		case changed:
			m.status = "Reloaded changes made elsewhere"
		}
		return m, m.waitForExternal()

	case statusMsg:
		if msg.n.Title != "" {
			m.status = msg.n.Title + ": " + msg.n.Message
		} else {
			m.status = msg.n.Message
		}
		return m, m.waitForStatus()

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeEditTask, ModeAddProject, ModeAddLabel, ModeAddFilter:
			return m.handleInputMode(msg)
		case ModeHelp:
			return m.handleHelpMode(msg)
		case ModeConfirm:
			return m.handleConfirmMode(msg)
		}
		m.status = ""
		return m.handleNormalMode(msg)
	}

	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == FocusSidebar {
			m.focus = FocusTasks
		} else {
			m.focus = FocusSidebar
		}

	case key.Matches(msg, m.keys.Up):
		if m.focus == FocusSidebar {
			m.sideCursor = clamp(m.sideCursor-1, len(m.sidebar))
		} else {
			m.taskCursor = clamp(m.taskCursor-1, m.paneLen())
		}

	case key.Matches(msg, m.keys.Down):
		if m.focus == FocusSidebar {
			m.sideCursor = clamp(m.sideCursor+1, len(m.sidebar))
		} else {
			m.taskCursor = clamp(m.taskCursor+1, m.paneLen())
		}

	case key.Matches(msg, m.keys.Select):
		if m.focus == FocusSidebar && m.sideCursor < len(m.sidebar) {
			m.openItem(m.sidebar[m.sideCursor])
			m.focus = FocusTasks
		}

	case key.Matches(msg, m.keys.Add):
		switch {
		case m.labelPage():
			return m.startInput(ModeAddLabel, "New label...", "")
		case store.AcceptsNewTasks(m.snap.CurrentView):
			return m.startInput(ModeAddTask, "Task text @label due:tomorrow", "")
		default:
			m.status = "Tasks cannot be added in the " + store.ViewTitle(m.snap) + " view"
		}

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selectedTask(); ok {
			m.store.SetEditingTask(&task)
			return m.startInput(ModeEditTask, "", formatEntry(task))
		}

	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selectedTask(); ok {
			m.store.ToggleTaskCompletion(m.ctx, task.ID)
			m.refresh()
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selectedTask(); ok {
			m.askConfirm(fmt.Sprintf("Delete task %q?", task.Text), func() {
				m.store.DeleteTask(m.ctx, task.ID)
			})
		} else if label, ok := m.selectedLabel(); ok {
			m.askConfirm(fmt.Sprintf("Delete label %s from every task?", label), func() {
				m.store.DeleteLabel(m.ctx, label)
			})
		}

	case key.Matches(msg, m.keys.Remove):
		if m.focus == FocusSidebar && m.sideCursor < len(m.sidebar) {
			m.removeItem(m.sidebar[m.sideCursor])
		}

	case key.Matches(msg, m.keys.Project):
		return m.startInput(ModeAddProject, "New project name...", "")

	case key.Matches(msg, m.keys.Filter):
		if _, ok := m.selectedLabel(); ok {
			return m.startInput(ModeAddFilter, "New filter name...", "")
		}
		m.status = "Select a label on the Filters & Labels page first"

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		m.help.ShowAll = true
	}

	return m, nil
}

func (m *Model) openItem(item sidebarItem) {
	switch item.kind {
	case itemProject:
		m.store.SetActiveProjectID(m.ctx, item.id)
	case itemFilter:
		m.store.SetActiveFilterID(m.ctx, item.id)
	default:
		m.store.SetCurrentView(m.ctx, item.view)
	}
	m.taskCursor = 0
	m.refresh()
}

func (m *Model) removeItem(item sidebarItem) {
	switch item.kind {
	case itemProject:
		m.askConfirm(fmt.Sprintf("Delete project %q? Its tasks move to the Inbox.", item.title), func() {
			m.deleteProject(item.id)
		})
	case itemFilter:
		m.askConfirm(fmt.Sprintf("Delete filter %q?", item.title), func() {
			m.store.DeleteFilter(m.ctx, item.id)
		})
	case itemView:
		if item.view == store.ViewInbox {
			m.askConfirm("Delete the Inbox project?", func() {
				m.deleteProject(m.store.Inbox().ID)
			})
		}
	}
}

func (m *Model) deleteProject(id string) {
	if err := m.store.DeleteProject(m.ctx, id); err != nil && m.statusFeed == nil {
		m.status = statusText(err)
	}
}

// statusText renders err on one line, suggestion in parentheses.
func statusText(err error) string {
	var ews *utils.ErrorWithSuggestion
	if errors.As(err, &ews) {
		return ews.Err.Error() + " (" + ews.GetSuggestion() + ")"
	}
	return err.Error()
}

func (m *Model) askConfirm(prompt string, run func()) {
	m.confirm = &confirmation{prompt: prompt, run: run}
	m.mode = ModeConfirm
}

func (m *Model) startInput(mode Mode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.status = ""
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.textInput.Focus()
	return m, textinput.Blink
}

func (m *Model) endInput() {
	if m.mode == ModeEditTask {
		m.store.SetEditingTask(nil)
	}
	m.textInput.Blur()
	m.mode = ModeNormal
}

func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		if err := m.submitInput(m.textInput.Value()); err != nil {
			m.status = statusText(err)
			return m, nil
		}
		m.endInput()
		m.refresh()
		return m, nil

	case tea.KeyEsc:
		m.endInput()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submitInput applies the pending input. An error keeps the dialog open.
func (m *Model) submitInput(value string) error {
	switch m.mode {
	case ModeAddTask:
		text, due, labels, err := parseEntry(value, m.today)
		if err != nil {
			return err
		}
		m.store.AddTask(m.ctx, text, due, labels)
		m.taskCursor = 0

	case ModeEditTask:
		editing := m.store.Snapshot().EditingTask
		if editing == nil || value == formatEntry(*editing) {
			return nil
		}
		text, due, labels, err := parseEntry(value, m.today)
		if err != nil {
			return err
		}
		m.store.EditTask(m.ctx, editing.ID, text, due, labels)

	case ModeAddProject:
		name, err := utils.ValidateText("project name", value)
		if err != nil {
			return err
		}
		p := m.store.AddProject(m.ctx, name)
		m.store.SetActiveProjectID(m.ctx, p.ID)

	case ModeAddLabel:
		raw, err := utils.ValidateText("label", value)
		if err != nil {
			return err
		}
		m.store.AddLabel(m.ctx, raw)

	case ModeAddFilter:
		name, err := utils.ValidateText("filter name", value)
		if err != nil {
			return err
		}
		label, ok := m.selectedLabel()
		if !ok {
			return utils.ErrMissingFilterLabel(name)
		}
		m.store.AddFilter(m.ctx, name, store.Query{Label: label})
	}
	return nil
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || key.Matches(msg, m.keys.Help, m.keys.Quit) {
		m.mode = ModeNormal
		m.help.ShowAll = false
	}
	return m, nil
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		pending := m.confirm
		m.confirm = nil
		m.mode = ModeNormal
		if pending != nil {
			pending.run()
		}
		m.refresh()
	case "n", "N", "esc":
		m.confirm = nil
		m.mode = ModeNormal
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		m.width = 80
		m.height = 24
	}

	switch m.mode {
	case ModeAddTask:
		return m.renderInputDialog("Add Task to " + store.ViewTitle(m.snap))
	case ModeEditTask:
		return m.renderInputDialog("Edit Task")
	case ModeAddProject:
		return m.renderInputDialog("New Project")
	case ModeAddLabel:
		return m.renderInputDialog("New Label")
	case ModeAddFilter:
		label, _ := m.selectedLabel()
		return m.renderInputDialog("New Filter on " + label)
	case ModeHelp:
		return m.renderHelpDialog()
	case ModeConfirm:
		return m.renderConfirmDialog()
	}

	sideWidth := m.width / 4
	taskWidth := m.width - sideWidth - 4
	paneHeight := m.height - 4

	side := m.sidebarStyle.Width(sideWidth).Height(paneHeight).Render(m.renderSidebar(sideWidth - 4))

	var content string
	if m.labelPage() {
		content = m.renderLabelPage(taskWidth - 4)
	} else {
		content = m.renderTaskPane(taskWidth - 4)
	}
	tasks := m.taskPaneStyle.Width(taskWidth).Height(paneHeight).Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, side, tasks) + "\n" + m.renderStatusBar()
}

func (m *Model) renderSidebar(width int) string {
	var b strings.Builder
	b.WriteString("flowdo\n")
	b.WriteString(strings.Repeat("─", max(width, 1)))
	b.WriteString("\n")

	for i, item := range m.sidebar {
		if i > 0 && item.kind != m.sidebar[i-1].kind {
			header := "Projects"
			if item.kind == itemFilter {
				header = "Filters"
			}
			b.WriteString("\n" + m.mutedStyle.Render(header) + "\n")
		}

		cursor := " "
		if i == m.sideCursor && m.focus == FocusSidebar {
			cursor = ">"
		}
		title := item.title
		switch {
		case i == m.sideCursor && m.focus == FocusSidebar:
			title = m.selectedStyle.Render(title)
		case m.isActive(item):
			title = m.activeStyle.Render("• " + title)
		}
		b.WriteString(cursor + " " + title + "\n")
	}

	return b.String()
}

func (m *Model) renderTaskPane(width int) string {
	var b strings.Builder
	b.WriteString(store.ViewTitle(m.snap) + "\n")
	b.WriteString(strings.Repeat("─", max(width, 1)))
	b.WriteString("\n")

	if len(m.tasks) == 0 {
		b.WriteString(m.mutedStyle.Render("No tasks") + "\n")
		return b.String()
	}

	for i, task := range m.tasks {
		b.WriteString(m.renderTask(task, i == m.taskCursor && m.focus == FocusTasks))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderTask(task store.Task, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}

	status := "[ ]"
	text := task.Text
	switch {
	case task.Completed:
		status = "[✓]"
		text = m.completedStyle.Render(text)
	case selected:
		text = m.selectedStyle.Render(text)
	}

	parts := []string{cursor, status, text}
	for _, l := range task.Labels {
		parts = append(parts, m.labelStyle.Render("#"+store.LabelDisplay(l)))
	}

	switch store.DueStatusOf(task, m.today) {
	case store.DueOverdue:
		parts = append(parts, m.overdueStyle.Render("overdue "+task.DueDate.String()))
	case store.DueToday:
		parts = append(parts, m.todayStyle.Render("today"))
	case store.DueScheduled:
		parts = append(parts, m.mutedStyle.Render(task.DueDate.String()))
	}

	return strings.Join(parts, " ")
}

func (m *Model) renderLabelPage(width int) string {
	var b strings.Builder
	b.WriteString("Labels\n")
	b.WriteString(strings.Repeat("─", max(width, 1)))
	b.WriteString("\n")

	if len(m.snap.Labels) == 0 {
		b.WriteString(m.mutedStyle.Render("No labels created yet.") + "\n")
	}
	for i, label := range m.snap.Labels {
		cursor := " "
		name := store.LabelDisplay(label)
		if i == m.taskCursor && m.focus == FocusTasks {
			cursor = ">"
			name = m.selectedStyle.Render(name)
		}
		b.WriteString(cursor + " " + m.labelStyle.Render("#") + name + "\n")
	}

	b.WriteString("\nSaved Filters\n")
	if len(m.snap.Filters) == 0 {
		b.WriteString(m.mutedStyle.Render("No filters created yet.") + "\n")
	}
	for _, f := range m.snap.Filters {
		b.WriteString("  " + f.Name + " " + m.mutedStyle.Render("(Label: "+f.Query.Label+")") + "\n")
	}
	return b.String()
}

func (m *Model) renderStatusBar() string {
	left := store.ViewTitle(m.snap)
	if m.status != "" {
		left = m.status
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return m.statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderInputDialog(title string) string {
	body := title + "\n\n" + m.textInput.View() + "\n\n"
	if m.status != "" {
		body += m.overdueStyle.Render(m.status) + "\n\n"
	}
	body += m.mutedStyle.Render("Enter: confirm  Esc: cancel")
	return m.centerDialog(m.dialogStyle.Render(body))
}

func (m *Model) renderHelpDialog() string {
	body := "Help - Key Bindings\n\n" + m.help.View(m.keys) + "\n\n" +
		m.mutedStyle.Render("Quick entry: @label adds a label, due:<date> sets the due date\n(YYYY-MM-DD, today, tomorrow, +3d, +1w)") + "\n\n" +
		m.mutedStyle.Render("Press Esc to close")
	return m.centerDialog(m.dialogStyle.Render(body))
}

func (m *Model) renderConfirmDialog() string {
	prompt := "Are you sure?"
	if m.confirm != nil {
		prompt = m.confirm.prompt
	}
	return m.centerDialog(m.dialogStyle.Render(prompt + "\n\n" + m.mutedStyle.Render("y: yes  n: no")))
}

func (m *Model) centerDialog(dialog string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
