package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo-api/pkg/logger"
	"todo-api/pkg/preferences"
	"todo-api/pkg/todoclient"
)

// Mode of the view. Adding, Editing and the confirmations capture the
// keyboard until they are submitted or cancelled.
type Mode int

const (
	ModeIdle Mode = iota
	ModeAdding
	ModeEditing       // id holds the record being edited
	ModeConfirmDelete // id holds the record to delete
	ModeConfirmClear
)

func (m Mode) String() string {
	switch m {
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	case ModeConfirmDelete:
		return "confirm-delete"
	case ModeConfirmClear:
		return "confirm-clear"
	default:
		return "idle"
	}
}

// State the current mode and, for Editing and ConfirmDelete, its target id
type State struct {
	Mode Mode
	ID   string
}

// ThemeStore is satisfied by *preferences.Store
type ThemeStore interface {
	Load() (preferences.Theme, error)
	Toggle() (preferences.Theme, error)
}

type banner struct {
	text  string
	isErr bool
	seq   int
}

const (
	fieldTask = iota
	fieldDue
)

type Model struct {
	manager *todoclient.Manager
	prefs   ThemeStore

	state  State
	filter todoclient.FilterStatus
	cursor int

	inputs []textinput.Model
	focus  int

	theme  preferences.Theme
	styles styles

	banner  banner
	loading bool

	width, height int
}

type Options struct {
	Filter todoclient.FilterStatus
}

func New(manager *todoclient.Manager, prefs ThemeStore, opts Options) Model {
	theme := preferences.DefaultTheme
	if prefs != nil {
		t, err := prefs.Load()
		if err != nil {
			logger.Warn("Failed to load preferences, using default theme", "error", err)
		}
		theme = t
	}

	filter := opts.Filter
	if filter == "" {
		filter = todoclient.FilterAll
	}

	task := textinput.New()
	task.Prompt = "Task > "
	task.Placeholder = "What needs doing?"
	task.CharLimit = 500

	due := textinput.New()
	due.Prompt = "Due  > "
	due.Placeholder = "YYYY-MM-DD (optional)"
	due.CharLimit = 64

	return Model{
		manager: manager,
		prefs:   prefs,
		state:   State{Mode: ModeIdle},
		filter:  filter,
		inputs:  []textinput.Model{task, due},
		theme:   theme,
		styles:  newStyles(theme),
		loading: true,
		width:   80,
		height:  24,
	}
}

func Run(manager *todoclient.Manager, prefs ThemeStore, opts Options) error {
	_, err := tea.NewProgram(New(manager, prefs, opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) State() State                      { return m.state }
func (m Model) Filter() todoclient.FilterStatus   { return m.filter }
func (m Model) Theme() preferences.Theme          { return m.theme }
func (m Model) Banner() (text string, isErr bool) { return m.banner.text, m.banner.isErr }

func (m Model) Init() tea.Cmd {
	return fetchCmd(m.manager)
}

func (m Model) visible() []todoclient.Todo {
	return m.manager.Filter(m.filter)
}

func (m Model) selected() (todoclient.Todo, bool) {
	rows := m.visible()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return todoclient.Todo{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setBanner(text string, isErr bool) tea.Cmd {
	m.banner = banner{text: text, isErr: isErr, seq: m.banner.seq + 1}
	return expireBanner(m.banner.seq)
}

func (m *Model) fail(action string, err error) tea.Cmd {
	logger.Debug("Action failed", "action", action, "error", err)
	return m.setBanner(action+": "+describeError(err), true)
}

func describeError(err error) string {
	var cerr *todoclient.Error
	switch {
	case errors.Is(err, todoclient.ErrNetwork):
		return "cannot reach the server"
	case errors.Is(err, todoclient.ErrNotFound):
		return "todo no longer exists"
	case errors.As(err, &cerr) && cerr.Message != "":
		return cerr.Message
	default:
		return err.Error()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case bannerExpiredMsg:
		// a newer banner replaced the one this tick was for
		if msg.seq == m.banner.seq {
			m.banner.text = ""
		}
		return m, nil

	case fetchedMsg:
		m.loading = false
		m.clampCursor()
		if msg.err != nil {
			return m, m.fail("Load failed", msg.err)
		}
		return m, nil

	case addedMsg:
		if msg.err != nil {
			return m, m.fail("Add failed", msg.err)
		}
		m.cursor = 0
		return m, m.setBanner("Added \""+truncateTask(msg.todo.Task)+"\"", false)

	case editedMsg:
		if msg.err != nil {
			return m, m.fail("Edit failed", msg.err)
		}
		m.clampCursor()
		return m, m.setBanner("Saved \""+truncateTask(msg.todo.Task)+"\"", false)

	case toggledMsg:
		if msg.err != nil {
			return m, m.fail("Update failed", msg.err)
		}
		m.clampCursor()
		status := "pending"
		if msg.todo.Completed {
			status = "completed"
		}
		return m, m.setBanner("Marked "+status, false)

	case deletedMsg:
		if msg.err != nil {
			return m, m.fail("Delete failed", msg.err)
		}
		m.clampCursor()
		return m, m.setBanner("Deleted", false)

	case clearedMsg:
		if msg.err != nil {
			return m, m.fail("Clear failed", msg.err)
		}
		m.cursor = 0
		return m, m.setBanner(fmt.Sprintf("Cleared %d todos", msg.n), false)

	case themeMsg:
		if msg.err != nil {
			return m, m.fail("Theme not saved", msg.err)
		}
		m.theme = msg.theme
		m.styles = newStyles(msg.theme)
		return m, m.setBanner("Theme: "+string(msg.theme), false)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state.Mode {
		case ModeAdding, ModeEditing:
			return m.updateForm(msg)
		case ModeConfirmDelete, ModeConfirmClear:
			return m.updateConfirm(msg)
		default:
			return m.updateIdle(msg)
		}
	}

	return m, nil
}

func (m Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case "a":
		m.state = State{Mode: ModeAdding}
		return m, m.openForm("", "")

	case "e":
		if t, ok := m.selected(); ok {
			m.state = State{Mode: ModeEditing, ID: t.ID}
			return m, m.openForm(t.Task, t.DueDate)
		}

	case " ":
		if t, ok := m.selected(); ok {
			return m, toggleCmd(m.manager, t.ID)
		}

	case "d":
		if t, ok := m.selected(); ok {
			m.state = State{Mode: ModeConfirmDelete, ID: t.ID}
		}

	case "D":
		m.state = State{Mode: ModeConfirmClear}

	case "f":
		m.filter = m.filter.Next()
		m.clampCursor()
	case "1", "2", "3":
		m.filter = todoclient.Filters[int(msg.String()[0]-'1')]
		m.clampCursor()

	case "r":
		m.loading = true
		return m, fetchCmd(m.manager)

	case "t":
		if m.prefs != nil {
			return m, themeCmd(m.prefs)
		}
		m.theme = m.theme.Toggle()
		m.styles = newStyles(m.theme)
	}

	return m, nil
}

func (m *Model) openForm(task, dueDate string) tea.Cmd {
	m.inputs[fieldTask].SetValue(task)
	m.inputs[fieldTask].CursorEnd()
	m.inputs[fieldDue].SetValue(dueDate)
	m.inputs[fieldDue].CursorEnd()
	m.inputs[fieldDue].Blur()
	m.focus = fieldTask
	return m.inputs[fieldTask].Focus()
}

func (m *Model) closeForm() {
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
	m.state = State{Mode: ModeIdle}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()

	case "enter":
		task := strings.TrimSpace(m.inputs[fieldTask].Value())
		if task == "" {
			return m, m.setBanner("Task is required", true)
		}
		due := strings.TrimSpace(m.inputs[fieldDue].Value())

		var cmd tea.Cmd
		if m.state.Mode == ModeEditing {
			cmd = editCmd(m.manager, m.state.ID, task, due)
		} else {
			cmd = addCmd(m.manager, task, due)
		}
		m.closeForm()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		st := m.state
		m.state = State{Mode: ModeIdle}
		if st.Mode == ModeConfirmDelete {
			return m, deleteCmd(m.manager, st.ID)
		}
		return m, clearCmd(m.manager)

	case "n", "N", "esc", "q":
		m.state = State{Mode: ModeIdle}
	}
	return m, nil
}
