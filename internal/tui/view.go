package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/momentumx/momentumx/internal/entitlement"
)

var tabTitles = []string{"Habits", "Tasks", "Plan"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habits.View())
	case StateTasks:
		content = docStyle.Render(m.tasks.View())
	case StatePlan:
		content = docStyle.Render(m.viewPlan())
	case StateAddHabit, StateAddTask, StateActivate:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case StateAddHabit:
		active = StateHabits
	case StateAddTask:
		active = StateTasks
	case StateActivate:
		active = StatePlan
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("❌ " + m.err.Error())
	}
	if m.status != "" {
		return okStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewPlan() string {
	tier := m.tracker.Tier()
	style, ok := tierStyles[tier.String()]
	if !ok {
		style = headingStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", headingStyle.Render("Plan:"), style.Render(tier.String()))

	b.WriteString(headingStyle.Render("Usage") + "\n")
	limits := entitlement.TierLimits(tier)
	for _, r := range []entitlement.Resource{entitlement.Habits, entitlement.Tasks, entitlement.JournalEntries} {
		b.WriteString("  " + usageLine(r, m.usage[r], limits.Limit(r)) + "\n")
	}

	b.WriteString("\n" + headingStyle.Render("Features") + "\n")
	for _, f := range entitlement.AllFeatures() {
		if entitlement.HasFeature(tier, f) {
			b.WriteString("  " + okStyle.Render("✓ "+string(f)) + "\n")
		} else {
			b.WriteString("  " + mutedStyle.Render("✗ "+string(f)) + "\n")
		}
	}

	if m.license != nil {
		b.WriteString("\n" + mutedStyle.Render("k: enter license key | r: refresh license"))
	}
	return b.String()
}

func usageLine(r entitlement.Resource, count, limit int) string {
	label := fmt.Sprintf("%-16s", r.String())
	if entitlement.IsUnlimited(limit) {
		return fmt.Sprintf("%s %d / ∞", label, count)
	}
	line := fmt.Sprintf("%s %d / %d", label, count, limit)
	switch {
	case count >= limit:
		return dangerStyle.Render(line + " (limit reached)")
	case entitlement.Remaining(limit, count) <= 1:
		return warnStyle.Render(line)
	}
	return line
}
