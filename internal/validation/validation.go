// Package validation audits stored records for inconsistencies: streak caches
// that drifted from their completion dates, record counts above the tier
// limit, suspicious content and malformed dates.
package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/sanitize"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/streak"
)

// IssueType represents the kind of problem found
type IssueType string

const (
	IssueStreakDrift       IssueType = "streak_drift"
	IssueLongestBelowRun   IssueType = "longest_below_run"
	IssueOverLimit         IssueType = "over_limit"
	IssueSuspiciousContent IssueType = "suspicious_content"
	IssueInvalidDate       IssueType = "invalid_date"
)

// Issue is a single finding
type Issue struct {
	Type        IssueType
	Description string
	RecordID    string // habit/task/entry id when the issue concerns one record
	Fixable     bool
}

// Result contains all findings
type Result struct {
	Issues []Issue
}

// FixAction describes a change made by Fix
type FixAction struct {
	Action string
	Issue  Issue
}

func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// Fixable returns the issues Fix can repair.
func (r *Result) Fixable() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Fixable {
			out = append(out, is)
		}
	}
	return out
}

// Advisory reports whether the issue is informational only. Suspicious
// content is flagged but never treated as corruption.
func (is Issue) Advisory() bool {
	return is.Type == IssueSuspiciousContent
}

// Blocking returns the issues that indicate inconsistent data.
func (r *Result) Blocking() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if !is.Advisory() {
			out = append(out, is)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all issues
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}

	var b strings.Builder
	b.WriteString("Issues detected:\n")
	for _, is := range r.Issues {
		mark := ""
		if is.Fixable {
			mark = " (fixable)"
		}
		fmt.Fprintf(&b, "- [%s] %s%s\n", is.Type, is.Description, mark)
	}
	return b.String()
}

// ValidateHabits checks each habit's streak cache against its completion
// dates as of today. A stored longest above the recomputed value is the
// high-water mark and is not an issue.
func ValidateHabits(habits []models.Habit, today time.Time) Result {
	result := Result{Issues: []Issue{}}

	for _, h := range habits {
		if h.DeletedAt != nil {
			continue
		}

		var bad []string
		for _, d := range h.CompletionDates {
			if _, err := time.Parse(constants.DateFormat, d); err != nil {
				bad = append(bad, d)
			}
		}
		if len(bad) > 0 {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDate,
				Description: fmt.Sprintf("Habit %q has unparseable completion dates: %s", h.Title, strings.Join(bad, ", ")),
				RecordID:    h.ID,
				Fixable:     true,
			})
		}

		dates := streak.ParseDays(h.CompletionDates)
		current := streak.Current(dates, today)
		longest := max(streak.Longest(dates), current)

		if h.CurrentStreak != current {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueStreakDrift,
				Description: fmt.Sprintf("Habit %q stores current streak %d, completions give %d", h.Title, h.CurrentStreak, current),
				RecordID:    h.ID,
				Fixable:     true,
			})
		}
		if h.LongestStreak < longest {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueLongestBelowRun,
				Description: fmt.Sprintf("Habit %q stores longest streak %d, below its completed run of %d", h.Title, h.LongestStreak, longest),
				RecordID:    h.ID,
				Fixable:     true,
			})
		}

		checkContent(&result, "Habit", h.ID, h.Title, h.Title, h.Description)
	}
	return result
}

// ValidateTasks checks due dates and content of live tasks.
func ValidateTasks(tasks []models.Task) Result {
	result := Result{Issues: []Issue{}}
	for _, t := range tasks {
		if t.DeletedAt != nil {
			continue
		}
		if t.DueDate != "" {
			if _, err := time.Parse(constants.DateFormat, t.DueDate); err != nil {
				result.Issues = append(result.Issues, Issue{
					Type:        IssueInvalidDate,
					Description: fmt.Sprintf("Task %q has invalid due date: %s", t.Title, t.DueDate),
					RecordID:    t.ID,
				})
			}
		}
		if t.Status == models.StatusCompleted && t.CompletedAt == nil {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDate,
				Description: fmt.Sprintf("Task %q is completed but has no completion time", t.Title),
				RecordID:    t.ID,
			})
		}
		checkContent(&result, "Task", t.ID, t.Title, t.Title, t.Description)
	}
	return result
}

// ValidateJournal checks journal entry days and content.
func ValidateJournal(entries []models.JournalEntry, reviews []models.WeeklyReview) Result {
	result := Result{Issues: []Issue{}}
	for _, e := range entries {
		if _, err := time.Parse(constants.DateFormat, e.Day); err != nil {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDate,
				Description: fmt.Sprintf("Journal entry %s has invalid day: %s", e.ID, e.Day),
				RecordID:    e.ID,
			})
		}
		checkContent(&result, "Journal entry", e.ID, e.Day, e.Title, e.Content)
	}
	for _, r := range reviews {
		if d, err := time.Parse(constants.DateFormat, r.WeekStart); err != nil || d.Weekday() != time.Monday {
			result.Issues = append(result.Issues, Issue{
				Type:        IssueInvalidDate,
				Description: fmt.Sprintf("Weekly review %s does not start on a Monday: %s", r.ID, r.WeekStart),
				RecordID:    r.ID,
			})
		}
		checkContent(&result, "Weekly review", r.ID, r.WeekStart, r.Wins, r.Challenges, r.Lessons, r.NextFocus)
	}
	return result
}

// Counts holds the number of live records per limited resource.
type Counts map[entitlement.Resource]int

// ValidateCounts reports resources holding more records than tier allows,
// which happens after a downgrade.
func ValidateCounts(tier entitlement.Tier, counts Counts) Result {
	result := Result{Issues: []Issue{}}
	limits := entitlement.TierLimits(tier)

	resources := []entitlement.Resource{entitlement.Habits, entitlement.Tasks, entitlement.JournalEntries}
	for _, r := range resources {
		limit := limits.Limit(r)
		if entitlement.IsUnlimited(limit) || counts[r] <= limit {
			continue
		}
		result.Issues = append(result.Issues, Issue{
			Type:        IssueOverLimit,
			Description: fmt.Sprintf("%d %s stored, the %s tier allows %d", counts[r], r, tier, limit),
		})
	}
	return result
}

func checkContent(result *Result, kind, id, label string, fields ...string) {
	var warnings []string
	for _, f := range fields {
		for _, w := range sanitize.Suspicious(f) {
			if !slices.Contains(warnings, w) {
				warnings = append(warnings, w)
			}
		}
	}
	if len(warnings) == 0 {
		return
	}
	result.Issues = append(result.Issues, Issue{
		Type:        IssueSuspiciousContent,
		Description: fmt.Sprintf("%s %q: %s", kind, label, strings.Join(warnings, "; ")),
		RecordID:    id,
	})
}

func (r *Result) merge(other Result) {
	r.Issues = append(r.Issues, other.Issues...)
}

// Audit runs every check against store.
func Audit(store storage.Provider, tier entitlement.Tier, today time.Time) (Result, error) {
	result := Result{Issues: []Issue{}}

	habits, err := store.GetAllHabits(true, false)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load habits: %w", err)
	}
	tasks, err := store.GetAllTasks(false)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	entries, err := store.GetJournalEntries("", "")
	if err != nil {
		return Result{}, fmt.Errorf("failed to load journal entries: %w", err)
	}
	reviews, err := store.GetWeeklyReviews()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load weekly reviews: %w", err)
	}
	settings, err := store.GetSettings()
	if err != nil {
		return Result{}, fmt.Errorf("failed to load settings: %w", err)
	}

	counts := Counts{}
	if counts[entitlement.Habits], err = store.CountHabits(settings.UserID); err != nil {
		return Result{}, err
	}
	if counts[entitlement.Tasks], err = store.CountTasks(settings.UserID); err != nil {
		return Result{}, err
	}
	if counts[entitlement.JournalEntries], err = store.CountJournalEntries(settings.UserID); err != nil {
		return Result{}, err
	}

	result.merge(ValidateHabits(habits, today))
	result.merge(ValidateTasks(tasks))
	result.merge(ValidateJournal(entries, reviews))
	result.merge(ValidateCounts(tier, counts))
	return result, nil
}

// Fix repairs fixable habit issues: unparseable completion dates are dropped
// and the streak cache is recomputed, keeping the stored longest streak as a
// floor.
func Fix(store storage.Provider, result Result, today time.Time) ([]FixAction, error) {
	var actions []FixAction
	done := make(map[string]bool)

	for _, is := range result.Fixable() {
		if done[is.RecordID] {
			continue
		}
		done[is.RecordID] = true

		h, err := store.GetHabit(is.RecordID)
		if err != nil {
			return actions, fmt.Errorf("failed to load habit %s: %w", is.RecordID, err)
		}

		days := make([]string, 0, len(h.CompletionDates))
		for _, d := range h.CompletionDates {
			if _, err := time.Parse(constants.DateFormat, d); err == nil {
				days = append(days, d)
			}
		}
		stats := streak.Recompute(days, today, h.LongestStreak)

		if len(days) != len(h.CompletionDates) {
			h.CompletionDates = days
			h.ApplyStats(stats)
			h.UpdatedAt = today.UTC()
			if err := store.UpdateHabit(h); err != nil {
				return actions, fmt.Errorf("failed to update habit %s: %w", h.ID, err)
			}
		} else if err := store.SaveHabitStats(h.ID, stats); err != nil {
			return actions, fmt.Errorf("failed to save streaks for habit %s: %w", h.ID, err)
		}

		actions = append(actions, FixAction{
			Action: fmt.Sprintf("Recomputed streaks for %q: current %d, longest %d", h.Title, stats.Current, stats.Longest),
			Issue:  is,
		})
	}
	return actions, nil
}
