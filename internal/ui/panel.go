// Package ui renders the interactive task panel.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mstodo/internal/service"
	"mstodo/internal/todo"
)

// keyMap holds the panel key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "enter")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7aa2f7")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#565f89"))
	dueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
)

type tasksMsg struct {
	tasks []service.TaskItem
	err   error
}

type toggledMsg struct {
	item service.TaskItem
	err  error
}

// Model is the panel's bubbletea model.
type Model struct {
	orch   *todo.Orchestrator
	ctx    context.Context
	tasks  []service.TaskItem
	cursor int
	status string
	errMsg string
	height int
}

// NewModel creates a panel model over the orchestrator.
func NewModel(ctx context.Context, orch *todo.Orchestrator) *Model {
	return &Model{orch: orch, ctx: ctx}
}

func (m *Model) Init() tea.Cmd {
	return m.loadTasks(false)
}

func (m *Model) loadTasks(refresh bool) tea.Cmd {
	return func() tea.Msg {
		var (
			tasks *service.TaskMap
			err   error
		)
		if refresh {
			tasks, err = m.orch.RefreshTaskCache(m.ctx)
		} else {
			tasks, err = m.orch.GetTasksFromSelectedList(m.ctx)
		}
		if err != nil {
			return tasksMsg{err: err}
		}
		return tasksMsg{tasks: tasks.Items()}
	}
}

func (m *Model) toggleCurrent() tea.Cmd {
	if m.cursor >= len(m.tasks) {
		return nil
	}
	title := m.tasks[m.cursor].Title
	return func() tea.Msg {
		item, err := m.orch.ToggleTask(m.ctx, title)
		return toggledMsg{item: item, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case tasksMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.tasks = m.visible(msg.tasks)
		if m.cursor >= len(m.tasks) && len(m.tasks) > 0 {
			m.cursor = len(m.tasks) - 1
		}

	case toggledMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		if msg.item.Completed() {
			m.status = "completed " + msg.item.Title
			if m.orch.Settings().EnableConfetti {
				m.status += " 🎉"
			}
		} else {
			m.status = "reopened " + msg.item.Title
		}
		return m, m.loadTasks(false)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle):
			return m, m.toggleCurrent()
		case key.Matches(msg, keys.Refresh):
			m.status = "refreshing..."
			return m, m.loadTasks(true)
		}
	}
	return m, nil
}

// visible filters completed tasks out when showComplete is off.
func (m *Model) visible(tasks []service.TaskItem) []service.TaskItem {
	if m.orch.Settings().ShowComplete {
		return tasks
	}
	var open []service.TaskItem
	for _, t := range tasks {
		if !t.Completed() {
			open = append(open, t)
		}
	}
	return open
}

func (m *Model) View() string {
	settings := m.orch.Settings()

	title := settings.SelectedTaskListTitle
	if title == "" {
		title = "(no list selected)"
	}
	s := titleStyle.Render(title) + "\n"

	if len(m.tasks) == 0 {
		s += "  no tasks\n"
	}
	for i, task := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		line := task.Title
		if task.Completed() {
			box = "[x]"
			line = doneStyle.Render(line)
		}
		if settings.ShowDueDate && task.DueDate != nil {
			line += " " + dueStyle.Render(fmt.Sprintf("(due %s)", task.DueDate.Format("2006-01-02")))
		}
		s += fmt.Sprintf("%s%s %s\n", cursor, box, line)
	}

	s += "\n"
	if m.errMsg != "" {
		s += errStyle.Render("error: "+m.errMsg) + "\n"
	} else if m.status != "" {
		s += statusStyle.Render(m.status) + "\n"
	}
	s += "j/k move · space toggle · r refresh · q quit\n"
	return s
}
