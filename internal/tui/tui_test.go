package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentumx/momentumx/internal/cli/clitest"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/tracker"
	"github.com/momentumx/momentumx/internal/tui/components/habitlist"
	"github.com/momentumx/momentumx/internal/tui/components/tasklist"
)

func newTestModel(t *testing.T, tier entitlement.Tier) (Model, *tracker.Service) {
	t.Helper()
	ctx := clitest.NewContext(t, tier)
	m := NewModel(ctx.Tracker, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), ctx.Tracker
}

// send feeds msg to the model and runs any command it returns once,
// feeding the resulting message back in.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

// update feeds msg to the model without running the returned command.
func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabsCycle(t *testing.T) {
	m, _ := newTestModel(t, entitlement.Starter)
	assert.Equal(t, StateHabits, m.State())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateTasks, m.State())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StatePlan, m.State())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, StateHabits, m.State())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, StatePlan, m.State())
}

func TestToggleHabitFromList(t *testing.T) {
	m, tr := newTestModel(t, entitlement.Starter)
	_, err := tr.AddHabit(tracker.HabitInput{Title: "Read"})
	require.NoError(t, err)
	m.reload()

	m = send(t, m, space())
	require.NoError(t, m.Err())

	h, err := tr.FindHabit("Read")
	require.NoError(t, err)
	assert.True(t, h.CompletedOn(tr.Today()))
	assert.Equal(t, 1, h.CurrentStreak)
	assert.Contains(t, m.View(), "done today")

	m = send(t, m, space())
	require.NoError(t, m.Err())
	h, err = tr.FindHabit("Read")
	require.NoError(t, err)
	assert.False(t, h.CompletedOn(tr.Today()))
}

func TestArchiveHabitFromList(t *testing.T) {
	m, tr := newTestModel(t, entitlement.Starter)
	_, err := tr.AddHabit(tracker.HabitInput{Title: "Stretch"})
	require.NoError(t, err)
	m.reload()

	m = send(t, m, runes("x"))
	require.NoError(t, m.Err())

	h, err := tr.FindHabit("Stretch")
	require.NoError(t, err)
	assert.NotNil(t, h.ArchivedAt)
	assert.Contains(t, m.View(), "No habits yet")
}

func TestAddHabitOpensForm(t *testing.T) {
	m, _ := newTestModel(t, entitlement.Starter)

	m = send(t, m, runes("a"))
	assert.Equal(t, StateAddHabit, m.State())
	require.NotNil(t, m.habitForm)
	assert.Equal(t, string(models.FrequencyDaily), m.habitForm.Frequency)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateHabits, m.State())
	assert.Nil(t, m.form)
}

func TestSubmitHabitFormEnforcesLimit(t *testing.T) {
	m, tr := newTestModel(t, entitlement.Starter)
	limit := entitlement.TierLimits(entitlement.Starter).MaxHabits
	for i := 0; i < limit; i++ {
		_, err := tr.AddHabit(tracker.HabitInput{Title: "Habit " + string(rune('A'+i))})
		require.NoError(t, err)
	}

	m = update(m, habitlist.AddHabitMsg{})
	m.habitForm.Title = "One too many"
	next, _ := m.submitForm()
	m = next.(Model)

	assert.Equal(t, StateHabits, m.State())
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), tracker.ErrLimitReached)
}

func TestSubmitTaskFormAddsTask(t *testing.T) {
	m, tr := newTestModel(t, entitlement.Coach)

	m = update(m, tasklist.AddTaskMsg{})
	require.Equal(t, StateAddTask, m.State())
	m.taskForm.Title = "Write report"
	m.taskForm.DueDate = "2026-03-10"
	next, _ := m.submitForm()
	m = next.(Model)

	require.NoError(t, m.Err())
	assert.Equal(t, StateTasks, m.State())
	tasks, err := tr.Store().GetAllTasks(false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2026-03-10", tasks[0].DueDate)
	assert.Equal(t, models.PriorityMedium, tasks[0].Priority)
}

func TestAdvanceTaskStatus(t *testing.T) {
	m, tr := newTestModel(t, entitlement.Starter)
	task, err := tr.AddTask(tracker.TaskInput{Title: "Call mom"})
	require.NoError(t, err)
	m.reload()
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = send(t, m, space())
	require.NoError(t, m.Err())
	got, err := tr.Store().GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	m = send(t, m, space())
	got, err = tr.Store().GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestPlanViewShowsUsage(t *testing.T) {
	m, tr := newTestModel(t, entitlement.Starter)
	_, err := tr.AddHabit(tracker.HabitInput{Title: "Walk"})
	require.NoError(t, err)
	m.reload()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	view := m.View()
	assert.Contains(t, view, "starter")
	assert.Contains(t, view, "1 / 5")
	assert.Contains(t, view, "csv_export")
}

func TestPlanActivateWithoutLicensing(t *testing.T) {
	m, _ := newTestModel(t, entitlement.Starter)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})

	m = send(t, m, runes("k"))
	assert.Equal(t, StatePlan, m.State())
	assert.Contains(t, m.View(), "Licensing is not configured")
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, models.StatusInProgress, tasklist.NextStatus(models.StatusPending))
	assert.Equal(t, models.StatusCompleted, tasklist.NextStatus(models.StatusInProgress))
	assert.Equal(t, models.StatusPending, tasklist.NextStatus(models.StatusCompleted))
	assert.Equal(t, models.StatusPending, tasklist.NextStatus(models.StatusCancelled))
}
