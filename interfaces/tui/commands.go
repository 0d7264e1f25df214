package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"todo-api/pkg/preferences"
	"todo-api/pkg/todoclient"
)

const bannerTTL = 3 * time.Second

type (
	fetchedMsg struct {
		err error
	}
	addedMsg struct {
		todo todoclient.Todo
		err  error
	}
	editedMsg struct {
		todo todoclient.Todo
		err  error
	}
	toggledMsg struct {
		todo todoclient.Todo
		err  error
	}
	deletedMsg struct {
		id  string
		err error
	}
	clearedMsg struct {
		n   int64
		err error
	}
	themeMsg struct {
		theme preferences.Theme
		err   error
	}
	bannerExpiredMsg struct {
		seq int
	}
)

func fetchCmd(m *todoclient.Manager) tea.Cmd {
	return func() tea.Msg {
		_, err := m.Fetch()
		return fetchedMsg{err: err}
	}
}

func addCmd(m *todoclient.Manager, task, dueDate string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.Add(task, dueDate)
		return addedMsg{todo: todo, err: err}
	}
}

func editCmd(m *todoclient.Manager, id, task, dueDate string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.Edit(id, todoclient.UpdateInput{Task: &task, DueDate: &dueDate})
		return editedMsg{todo: todo, err: err}
	}
}

func toggleCmd(m *todoclient.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.Toggle(id)
		return toggledMsg{todo: todo, err: err}
	}
}

func deleteCmd(m *todoclient.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.Delete(id)}
	}
}

func clearCmd(m *todoclient.Manager) tea.Cmd {
	return func() tea.Msg {
		n, err := m.ClearAll()
		return clearedMsg{n: n, err: err}
	}
}

func themeCmd(store ThemeStore) tea.Cmd {
	return func() tea.Msg {
		theme, err := store.Toggle()
		return themeMsg{theme: theme, err: err}
	}
}

func expireBanner(seq int) tea.Cmd {
	return tea.Tick(bannerTTL, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}
