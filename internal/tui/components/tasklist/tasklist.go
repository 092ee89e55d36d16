package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/momentumx/momentumx/internal/models"
)

type AddTaskMsg struct{}

// AdvanceTaskMsg asks for the task to move to its next status.
type AdvanceTaskMsg struct {
	Task models.Task
}

type DeleteTaskMsg struct {
	ID string
}

type Item struct {
	Task    models.Task
	Overdue bool
}

func (i Item) Title() string {
	switch i.Task.Status {
	case models.StatusCompleted:
		return "✓ " + i.Task.Title
	case models.StatusCancelled:
		return "✗ " + i.Task.Title
	case models.StatusInProgress:
		return "▶ " + i.Task.Title
	}
	return "○ " + i.Task.Title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s", i.Task.Priority, i.Task.Status)
	if i.Task.DueDate != "" {
		desc += " | due " + i.Task.DueDate
	}
	if i.Overdue {
		desc += " | overdue"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Task.Title }

// NextStatus cycles pending → in-progress → completed → pending.
func NextStatus(s models.TaskStatus) models.TaskStatus {
	switch s {
	case models.StatusPending:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusCompleted
	}
	return models.StatusPending
}

type KeyMap struct {
	Add     key.Binding
	Advance key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Advance: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "next status"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(tasks []models.Task, today string, width, height int) Model {
	l := list.New(items(tasks, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Advance, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(tasks []models.Task, today string) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t, Overdue: t.Overdue(today)}
	}
	return out
}

func (m *Model) SetTasks(tasks []models.Task, today string) {
	m.list.SetItems(items(tasks, today))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddTaskMsg{} }
		}
		if i, ok := m.list.SelectedItem().(Item); ok {
			switch {
			case key.Matches(msg, m.keys.Advance):
				return m, func() tea.Msg { return AdvanceTaskMsg{Task: i.Task} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteTaskMsg{ID: i.Task.ID} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the filter prompt has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
