package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todo-api/pkg/preferences"
	"todo-api/pkg/todoclient"
)

type fakeAPI struct {
	todos []todoclient.Todo // newest first
	seq   int
	calls int
	err   error
}

func (f *fakeAPI) List() ([]todoclient.Todo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]todoclient.Todo(nil), f.todos...), nil
}

func (f *fakeAPI) Create(in todoclient.CreateInput) (todoclient.Todo, error) {
	f.calls++
	if f.err != nil {
		return todoclient.Todo{}, f.err
	}
	f.seq++
	t := todoclient.Todo{ID: fmt.Sprintf("id-%d", f.seq), Task: in.Task, DueDate: in.DueDate, CreatedAt: time.Unix(int64(f.seq), 0)}
	f.todos = append([]todoclient.Todo{t}, f.todos...)
	return t, nil
}

func (f *fakeAPI) Update(id string, in todoclient.UpdateInput) (todoclient.Todo, error) {
	f.calls++
	if f.err != nil {
		return todoclient.Todo{}, f.err
	}
	for i, t := range f.todos {
		if t.ID != id {
			continue
		}
		if in.Task != nil {
			t.Task = *in.Task
		}
		if in.DueDate != nil {
			t.DueDate = *in.DueDate
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
		}
		f.todos[i] = t
		return t, nil
	}
	return todoclient.Todo{}, &todoclient.Error{Kind: todoclient.KindNotFound, Status: 404}
}

func (f *fakeAPI) Delete(id string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return &todoclient.Error{Kind: todoclient.KindNotFound, Status: 404}
}

func (f *fakeAPI) DeleteAll() (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	n := int64(len(f.todos))
	f.todos = nil
	return n, nil
}

type memThemes struct {
	theme preferences.Theme
}

func (s *memThemes) Load() (preferences.Theme, error) { return s.theme, nil }

func (s *memThemes) Toggle() (preferences.Theme, error) {
	s.theme = s.theme.Toggle()
	return s.theme, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// act sends msg, runs the request command it returns and feeds the result back.
func act(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := send(t, m, msg)
	if cmd == nil {
		t.Fatalf("%v issued no command", msg)
	}
	m, _ = send(t, m, cmd())
	return m
}

func newTestModel(t *testing.T, api *fakeAPI) (Model, *todoclient.Manager) {
	t.Helper()
	mgr := todoclient.NewManager(api)
	m := New(mgr, &memThemes{theme: preferences.ThemeDark}, Options{})
	m, _ = send(t, m, m.Init()())
	return m, mgr
}

func seeded(tasks ...string) *fakeAPI {
	api := &fakeAPI{}
	for _, task := range tasks {
		api.Create(todoclient.CreateInput{Task: task})
	}
	api.calls = 0
	return api
}

func TestTruncateTask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Buy milk", "Buy milk"},
		{"exactly14chars", "exactly14chars"},
		{"Write the quarterly report", "Write the quar..."},
		{"日本語のタスクはとても長い説明です", "日本語のタスクはとても長い説..."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := truncateTask(tt.in); got != tt.want {
			t.Errorf("truncateTask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddFlow(t *testing.T) {
	api := &fakeAPI{}
	m, mgr := newTestModel(t, api)

	m, _ = send(t, m, key("a"))
	if m.State().Mode != ModeAdding {
		t.Fatalf("mode = %v, want adding", m.State().Mode)
	}
	m, _ = send(t, m, key("Buy milk"))
	m, _ = send(t, m, key("tab"))
	m, _ = send(t, m, key("2024-06-01"))

	callsBefore := api.calls
	m = act(t, m, key("enter"))

	if api.calls != callsBefore+1 {
		t.Errorf("submit issued %d requests, want 1", api.calls-callsBefore)
	}
	if m.State().Mode != ModeIdle {
		t.Errorf("mode after submit = %v, want idle", m.State().Mode)
	}
	recs := mgr.Records()
	if len(recs) != 1 || recs[0].Task != "Buy milk" || recs[0].DueDate != "2024-06-01" {
		t.Fatalf("records = %+v", recs)
	}
	if text, isErr := m.Banner(); isErr || !strings.Contains(text, "Added") {
		t.Errorf("banner = %q (err %v)", text, isErr)
	}
}

func TestAddBlankTaskRejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	m, _ := newTestModel(t, api)
	callsBefore := api.calls

	m, _ = send(t, m, key("a"))
	m, _ = send(t, m, key("   "))
	m, _ = send(t, m, key("enter"))

	if api.calls != callsBefore {
		t.Error("blank task reached the server")
	}
	if m.State().Mode != ModeAdding {
		t.Errorf("mode = %v, want adding", m.State().Mode)
	}
	if text, isErr := m.Banner(); !isErr || text == "" {
		t.Errorf("banner = %q (err %v), want an error", text, isErr)
	}
}

func TestEditTargetsCapturedID(t *testing.T) {
	api := seeded("A", "B") // list order: B, A
	m, mgr := newTestModel(t, api)

	m, _ = send(t, m, key("j"))
	m, _ = send(t, m, key("e"))
	st := m.State()
	if st.Mode != ModeEditing || st.ID != "id-1" {
		t.Fatalf("state = %+v, want editing id-1", st)
	}
	if got := m.inputs[fieldTask].Value(); got != "A" {
		t.Errorf("task input prefilled with %q", got)
	}

	// the selection moving while the form is open does not change the target
	m.cursor = 0
	m, _ = send(t, m, key(" renamed"))
	m = act(t, m, key("enter"))

	if m.State().Mode != ModeIdle {
		t.Errorf("mode = %v, want idle", m.State().Mode)
	}
	if a, _ := mgr.Get("id-1"); a.Task != "A renamed" {
		t.Errorf("id-1 task = %q", a.Task)
	}
	if b, _ := mgr.Get("id-2"); b.Task != "B" {
		t.Errorf("id-2 changed: %q", b.Task)
	}
}

func TestEditCancel(t *testing.T) {
	api := seeded("A")
	m, _ := newTestModel(t, api)
	callsBefore := api.calls

	m, _ = send(t, m, key("e"))
	m, _ = send(t, m, key("esc"))
	if m.State().Mode != ModeIdle || api.calls != callsBefore {
		t.Errorf("esc: mode %v, calls %d", m.State().Mode, api.calls-callsBefore)
	}
}

func TestToggleIssuesOneRequest(t *testing.T) {
	api := seeded("A")
	m, mgr := newTestModel(t, api)
	callsBefore := api.calls

	m = act(t, m, key(" "))
	if api.calls != callsBefore+1 {
		t.Errorf("toggle issued %d requests", api.calls-callsBefore)
	}
	if a, _ := mgr.Get("id-1"); !a.Completed {
		t.Error("todo not completed after toggle")
	}
	m = act(t, m, key(" "))
	if a, _ := mgr.Get("id-1"); a.Completed {
		t.Error("second toggle did not revert")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	api := seeded("A", "B")
	m, mgr := newTestModel(t, api)

	m, _ = send(t, m, key("d"))
	if st := m.State(); st.Mode != ModeConfirmDelete || st.ID != "id-2" {
		t.Fatalf("state = %+v, want confirm-delete id-2", st)
	}
	m, cmd := send(t, m, key("n"))
	if cmd != nil || m.State().Mode != ModeIdle || len(mgr.Records()) != 2 {
		t.Fatalf("cancel did not return to idle untouched")
	}

	m, _ = send(t, m, key("d"))
	m = act(t, m, key("y"))
	if _, ok := mgr.Get("id-2"); ok {
		t.Error("id-2 still cached after confirmed delete")
	}
	if m.State().Mode != ModeIdle {
		t.Errorf("mode = %v", m.State().Mode)
	}
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	api := seeded("A", "B", "C")
	m, mgr := newTestModel(t, api)

	m, _ = send(t, m, key("D"))
	if m.State().Mode != ModeConfirmClear {
		t.Fatalf("mode = %v, want confirm-clear", m.State().Mode)
	}
	m = act(t, m, key("y"))

	if len(mgr.Records()) != 0 {
		t.Error("cache not empty after clear")
	}
	if text, _ := m.Banner(); !strings.Contains(text, "3") {
		t.Errorf("banner = %q, want count", text)
	}
}

func TestFilterKeys(t *testing.T) {
	api := seeded("A", "B")
	api.todos[0].Completed = true
	m, _ := newTestModel(t, api)

	tests := []struct {
		key  string
		want todoclient.FilterStatus
		rows int
	}{
		{"f", todoclient.FilterPending, 1},
		{"f", todoclient.FilterCompleted, 1},
		{"f", todoclient.FilterAll, 2},
		{"2", todoclient.FilterPending, 1},
		{"3", todoclient.FilterCompleted, 1},
		{"1", todoclient.FilterAll, 2},
	}
	for _, tt := range tests {
		m, _ = send(t, m, key(tt.key))
		if m.Filter() != tt.want || len(m.visible()) != tt.rows {
			t.Errorf("after %q: filter %s rows %d, want %s rows %d", tt.key, m.Filter(), len(m.visible()), tt.want, tt.rows)
		}
	}
}

func TestFailureShowsBanner(t *testing.T) {
	api := seeded("A")
	m, mgr := newTestModel(t, api)
	api.err = &todoclient.Error{Kind: todoclient.KindNetwork, Err: errors.New("connection refused")}

	m = act(t, m, key(" "))
	text, isErr := m.Banner()
	if !isErr || !strings.Contains(text, "cannot reach the server") {
		t.Errorf("banner = %q (err %v)", text, isErr)
	}
	if a, _ := mgr.Get("id-1"); a.Completed {
		t.Error("failed toggle changed the cache")
	}
}

func TestBannerExpires(t *testing.T) {
	m, _ := newTestModel(t, &fakeAPI{})

	m, _ = send(t, m, key("a"))
	m, _ = send(t, m, key("enter")) // validation banner, seq 1
	first := m.banner.seq
	m, _ = send(t, m, key("enter")) // replaced, seq 2

	m, _ = send(t, m, bannerExpiredMsg{seq: first})
	if text, _ := m.Banner(); text == "" {
		t.Fatal("stale tick cleared the newer banner")
	}

	m, _ = send(t, m, bannerExpiredMsg{seq: m.banner.seq})
	if text, _ := m.Banner(); text != "" {
		t.Errorf("banner %q still shown after its tick", text)
	}
}

func TestThemeToggle(t *testing.T) {
	m, _ := newTestModel(t, &fakeAPI{})
	if m.Theme() != preferences.ThemeDark {
		t.Fatalf("initial theme = %s, want dark", m.Theme())
	}

	m = act(t, m, key("t"))
	if m.Theme() != preferences.ThemeLight {
		t.Errorf("theme = %s, want light", m.Theme())
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &fakeAPI{})
	_, cmd := send(t, m, key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestViewShowsTruncatedTask(t *testing.T) {
	api := seeded("Write the quarterly report")
	m, mgr := newTestModel(t, api)

	view := m.View()
	if !strings.Contains(view, "Write the quar...") {
		t.Errorf("view missing truncated task:\n%s", view)
	}
	if strings.Contains(view, "quarterly report") {
		t.Error("view shows the full task")
	}
	if got := mgr.Records()[0].Task; got != "Write the quarterly report" {
		t.Errorf("stored task changed to %q", got)
	}
}
