// Package tui is the interactive dashboard for habits, tasks and the plan tier.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/license"
	"github.com/momentumx/momentumx/internal/tracker"
	"github.com/momentumx/momentumx/internal/tui/components/habitlist"
	"github.com/momentumx/momentumx/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateTasks
	StatePlan
	StateAddHabit
	StateAddTask
	StateActivate
)

// tabCount is the number of states reachable with tab.
const tabCount = 3

type HabitFormModel struct {
	Title       string
	Description string
	Category    string
	Frequency   string
	Target      string
}

type TaskFormModel struct {
	Title    string
	DueDate  string
	Priority string
}

type ActivateFormModel struct {
	Key string
}

type Model struct {
	tracker *tracker.Service
	license *license.Manager // nil when licensing is not configured

	state    SessionState
	keys     KeyMap
	help     help.Model
	quitting bool
	width    int
	height   int

	habits habitlist.Model
	tasks  tasklist.Model

	usage  tracker.Usage
	status string
	err    error

	form         *huh.Form
	habitForm    *HabitFormModel
	taskForm     *TaskFormModel
	activateForm *ActivateFormModel
}

// NewModel builds the dashboard. The tracker's tier must already be resolved.
func NewModel(tr *tracker.Service, lic *license.Manager) Model {
	m := Model{
		tracker: tr,
		license: lic,
		state:   StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		habits:  habitlist.New(nil, tr.Today(), 0, 0),
		tasks:   tasklist.New(nil, tr.Today(), 0, 0),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload re-reads habits, tasks and usage from the tracker.
func (m *Model) reload() {
	today := m.tracker.Today()

	habits, err := m.tracker.Habits(false)
	if err != nil {
		m.err = err
		return
	}
	m.habits.SetHabits(habits, today)

	tasks, err := m.tracker.Store().GetAllTasks(false)
	if err != nil {
		m.err = err
		return
	}
	m.tasks.SetTasks(tasks, today)

	usage, err := m.tracker.Usage()
	if err != nil {
		m.err = err
		return
	}
	m.usage = usage
}

// Tier returns the tier the dashboard is enforcing.
func (m Model) Tier() entitlement.Tier {
	return m.tracker.Tier()
}

func (m Model) Err() error {
	return m.err
}

// State returns the active screen.
func (m Model) State() SessionState {
	return m.state
}
