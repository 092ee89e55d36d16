package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/momentumx/momentumx/internal/entitlement"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tierStyles   = map[entitlement.Tier]lipgloss.Style{
		entitlement.Starter:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		entitlement.Coach:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		entitlement.Business: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
	}
)

func Heading(s string) string { return headingStyle.Render(s) }
func OK(s string) string      { return okStyle.Render("✓ " + s) }
func Warn(s string) string    { return warnStyle.Render("⚠ " + s) }
func Fail(s string) string    { return failStyle.Render("❌ " + s) }
func Muted(s string) string   { return mutedStyle.Render(s) }

// Tier renders a tier name in its badge colour.
func Tier(t entitlement.Tier) string {
	return tierStyles[t].Render(strings.ToUpper(t.String()))
}

// Usage renders "count/limit", or "count/∞" for unlimited resources.
func Usage(count, limit int) string {
	if entitlement.IsUnlimited(limit) {
		return fmt.Sprintf("%d/∞", count)
	}
	s := fmt.Sprintf("%d/%d", count, limit)
	if count >= limit {
		return warnStyle.Render(s)
	}
	return s
}

// Flame renders a streak count.
func Flame(n int) string {
	if n == 0 {
		return Muted("0")
	}
	return okStyle.Render(fmt.Sprintf("%d🔥", n))
}
