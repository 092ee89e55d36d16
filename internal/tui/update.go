package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/momentumx/momentumx/internal/license"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/tracker"
	"github.com/momentumx/momentumx/internal/tui/components/habitlist"
	"github.com/momentumx/momentumx/internal/tui/components/tasklist"
)

const licenseTimeout = 30 * time.Second

// licenseMsg carries the result of an activation or refresh.
type licenseMsg struct {
	status license.Status
	err    error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(msg.Width-h, msg.Height-v-4)
		m.tasks.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case licenseMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tracker.SetTier(msg.status.Tier)
		m.status = fmt.Sprintf("Plan: %s", msg.status.Tier)
		if msg.status.Stale {
			m.status += " (could not reach license server, cached tier kept)"
		}
		m.reload()
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.filtering() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Tab):
				m.state = (m.state + 1) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.ShiftTab):
				m.state = (m.state - 1 + tabCount) % tabCount
				return m, nil
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			}
		}
		if m.state == StatePlan {
			return m.updatePlan(msg)
		}

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Category:  string(models.CategoryGeneral),
			Frequency: string(models.FrequencyDaily),
			Target:    "1",
		}
		return m.openForm(StateAddHabit, newHabitForm(m.habitForm))

	case habitlist.ToggleHabitMsg:
		h, done, err := m.tracker.ToggleHabit(msg.ID, "")
		if m.setErr(err) {
			return m, nil
		}
		if done {
			m.status = fmt.Sprintf("Marked %q complete, streak %d", h.Title, h.CurrentStreak)
		} else {
			m.status = fmt.Sprintf("Unmarked %q, streak %d", h.Title, h.CurrentStreak)
		}
		m.reload()
		return m, nil

	case habitlist.ArchiveHabitMsg:
		h, err := m.tracker.ArchiveHabit(msg.ID)
		if m.setErr(err) {
			return m, nil
		}
		m.status = fmt.Sprintf("Archived %q", h.Title)
		m.reload()
		return m, nil

	case habitlist.DeleteHabitMsg:
		h, err := m.tracker.DeleteHabit(msg.ID)
		if m.setErr(err) {
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted %q", h.Title)
		m.reload()
		return m, nil

	case tasklist.AddTaskMsg:
		m.taskForm = &TaskFormModel{Priority: string(models.PriorityMedium)}
		return m.openForm(StateAddTask, newTaskForm(m.taskForm))

	case tasklist.AdvanceTaskMsg:
		next := tasklist.NextStatus(msg.Task.Status)
		t, err := m.tracker.SetTaskStatus(msg.Task.ID, string(next))
		if m.setErr(err) {
			return m, nil
		}
		m.status = fmt.Sprintf("%q is now %s", t.Title, t.Status)
		m.reload()
		return m, nil

	case tasklist.DeleteTaskMsg:
		if m.setErr(m.tracker.DeleteTask(msg.ID)) {
			return m, nil
		}
		m.status = "Task deleted"
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case StateHabits:
		m.habits, cmd = m.habits.Update(msg)
	case StateTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	}
	return m, cmd
}

func (m Model) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Activate):
		if m.license == nil {
			m.status = "Licensing is not configured"
			return m, nil
		}
		m.activateForm = &ActivateFormModel{}
		return m.openForm(StateActivate, newActivateForm(m.activateForm))
	case key.Matches(msg, m.keys.Refresh):
		if m.license == nil {
			m.status = "Licensing is not configured"
			return m, nil
		}
		m.status = "Checking license..."
		return m, m.licenseCmd(func(ctx context.Context) (license.Status, error) {
			return m.license.Refresh(ctx)
		})
	}
	return m, nil
}

func (m Model) openForm(state SessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.state = state
	m.form = form
	m.err = nil
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m.closeForm(), nil
	case huh.StateCompleted:
		return m.submitForm()
	}
	return m, cmd
}

func (m Model) closeForm() Model {
	switch m.state {
	case StateAddHabit:
		m.state = StateHabits
	case StateAddTask:
		m.state = StateTasks
	case StateActivate:
		m.state = StatePlan
	}
	m.form = nil
	m.habitForm = nil
	m.taskForm = nil
	m.activateForm = nil
	return m
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateAddHabit:
		target, _ := strconv.Atoi(m.habitForm.Target)
		h, err := m.tracker.AddHabit(tracker.HabitInput{
			Title:       m.habitForm.Title,
			Description: m.habitForm.Description,
			Category:    m.habitForm.Category,
			Frequency:   m.habitForm.Frequency,
			Target:      target,
		})
		if !m.setErr(err) {
			m.status = fmt.Sprintf("Added habit %q", h.Title)
		}
	case StateAddTask:
		t, err := m.tracker.AddTask(tracker.TaskInput{
			Title:    m.taskForm.Title,
			DueDate:  m.taskForm.DueDate,
			Priority: m.taskForm.Priority,
		})
		if !m.setErr(err) {
			m.status = fmt.Sprintf("Added task %q", t.Title)
		}
	case StateActivate:
		licenseKey := m.activateForm.Key
		m.status = "Activating license..."
		cmd = m.licenseCmd(func(ctx context.Context) (license.Status, error) {
			return m.license.Activate(ctx, licenseKey)
		})
	}

	m = m.closeForm()
	m.reload()
	return m, cmd
}

func (m Model) licenseCmd(fn func(context.Context) (license.Status, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), licenseTimeout)
		defer cancel()
		st, err := fn(ctx)
		return licenseMsg{status: st, err: err}
	}
}

// setErr records err for display and reports whether it was non-nil.
func (m *Model) setErr(err error) bool {
	if err != nil {
		m.err = err
		m.status = ""
		return true
	}
	m.err = nil
	return false
}

func (m Model) filtering() bool {
	switch m.state {
	case StateHabits:
		return m.habits.Filtering()
	case StateTasks:
		return m.tasks.Filtering()
	}
	return false
}
