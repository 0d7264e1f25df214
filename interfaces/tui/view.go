package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"todo-api/pkg/todoclient"
)

const maxTaskRunes = 14

// truncateTask shortens task for display only; the stored value is untouched.
func truncateTask(task string) string {
	r := []rune(task)
	if len(r) <= maxTaskRunes {
		return task
	}
	return string(r[:maxTaskRunes]) + "..."
}

func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.filterTabs())
	b.WriteString("\n\n")

	rows := m.visible()
	switch {
	case m.loading && len(rows) == 0:
		b.WriteString(s.muted.Render("Loading..."))
	case len(rows) == 0:
		b.WriteString(s.muted.Render("Nothing here. Press a to add a todo."))
	default:
		b.WriteString(m.renderTable(rows))
	}
	b.WriteString("\n")

	switch m.state.Mode {
	case ModeAdding, ModeEditing:
		title := "Add todo"
		if m.state.Mode == ModeEditing {
			title = "Edit todo"
		}
		form := s.title.Render(title) + "\n" +
			m.inputs[fieldTask].View() + "\n" +
			m.inputs[fieldDue].View()
		b.WriteString(s.panel.Render(form))
		b.WriteString("\n")
	case ModeConfirmDelete:
		task := m.state.ID
		if t, ok := m.manager.Get(m.state.ID); ok {
			task = truncateTask(t.Task)
		}
		b.WriteString(s.err.Render(fmt.Sprintf("Delete %q? (y/n)", task)))
		b.WriteString("\n")
	case ModeConfirmClear:
		b.WriteString(s.err.Render("Delete ALL todos? (y/n)"))
		b.WriteString("\n")
	}

	if m.banner.text != "" {
		if m.banner.isErr {
			b.WriteString(s.err.Render("✖ " + m.banner.text))
		} else {
			b.WriteString(s.success.Render("✔ " + m.banner.text))
		}
		b.WriteString("\n")
	}

	b.WriteString(s.muted.Render(m.help()))
	return b.String()
}

func (m Model) header() string {
	s := m.styles
	done, pending := m.manager.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		s.title.Render("Todos"),
		s.success.Render("✔"), done,
		s.pending.Render("•"), pending,
		s.accent.Render("Total"), done+pending,
	)
}

func (m Model) filterTabs() string {
	tabs := make([]string, 0, len(todoclient.Filters))
	for i, f := range todoclient.Filters {
		label := fmt.Sprintf("%d %s", i+1, f)
		if f == m.filter {
			tabs = append(tabs, m.styles.tabOn.Render(label))
		} else {
			tabs = append(tabs, m.styles.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderTable(todos []todoclient.Todo) string {
	s := m.styles

	rows := make([][]string, 0, len(todos))
	for _, t := range todos {
		box := "☐"
		if t.Completed {
			box = "☑"
		}
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		rows = append(rows, []string{
			box,
			truncateTask(t.Task),
			due,
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers("", "Task", "Due", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.header
			case row == m.cursor:
				return s.selected
			case row >= 0 && row < len(todos) && todos[row].Completed:
				return s.done
			default:
				return s.cell
			}
		})

	return tbl.Render()
}

func (m Model) help() string {
	switch m.state.Mode {
	case ModeAdding, ModeEditing:
		return "enter save • tab next field • esc cancel"
	case ModeConfirmDelete, ModeConfirmClear:
		return "y confirm • n cancel"
	default:
		return "a add • e edit • space toggle • d delete • D clear all • f/1-3 filter • r refresh • t theme • q quit"
	}
}
