// Package export writes a user's records as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

// ErrExportNotAllowed is returned when the tier lacks the export capability.
var ErrExportNotAllowed = errors.New("export is not available on this tier")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (use csv or json)", s)
}

// Dataset is everything an export contains.
type Dataset struct {
	ExportedAt     time.Time             `json:"exported_at"`
	Tier           entitlement.Tier      `json:"tier"`
	Habits         []models.Habit        `json:"habits"`
	Tasks          []models.Task         `json:"tasks"`
	JournalEntries []models.JournalEntry `json:"journal_entries"`
	WeeklyReviews  []models.WeeklyReview `json:"weekly_reviews"`
}

// Collect gathers live records from store. Archived habits are included,
// deleted records are not.
func Collect(store storage.Provider, tier entitlement.Tier, now time.Time) (Dataset, error) {
	habits, err := store.GetAllHabits(true, false)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to load habits: %w", err)
	}
	tasks, err := store.GetAllTasks(false)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	entries, err := store.GetJournalEntries("", "")
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to load journal entries: %w", err)
	}
	reviews, err := store.GetWeeklyReviews()
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to load weekly reviews: %w", err)
	}
	return Dataset{
		ExportedAt:     now.UTC(),
		Tier:           tier,
		Habits:         habits,
		Tasks:          tasks,
		JournalEntries: entries,
		WeeklyReviews:  reviews,
	}, nil
}

// Write checks the tier's export capability and writes ds in format.
func Write(w io.Writer, format Format, tier entitlement.Tier, ds Dataset) error {
	if !entitlement.CanUseFeature(tier, entitlement.CanExport) {
		return fmt.Errorf("%w (%s)", ErrExportNotAllowed, tier)
	}
	switch format {
	case FormatCSV:
		return CSV(w, ds)
	case FormatJSON:
		return JSON(w, ds)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// JSON writes ds as an indented document.
func JSON(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

// CSV writes one section per record kind. Each section starts with a
// "# name" line and a header row; sections are separated by a blank line.
func CSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)

	habits := make([][]string, 0, len(ds.Habits))
	for _, h := range ds.Habits {
		habits = append(habits, []string{
			h.ID, h.Title, h.Description, string(h.Category), string(h.Frequency), strconv.Itoa(h.Target),
			strconv.Itoa(h.CurrentStreak), strconv.Itoa(h.LongestStreak), strconv.FormatBool(h.IsActive),
			strings.Join(h.CompletionDates, " "), stamp(&h.CreatedAt), stamp(h.ArchivedAt),
		})
	}
	tasks := make([][]string, 0, len(ds.Tasks))
	for _, t := range ds.Tasks {
		tasks = append(tasks, []string{
			t.ID, t.Title, t.Description, t.DueDate, string(t.Priority), string(t.Status),
			stamp(t.CompletedAt), stamp(&t.CreatedAt),
		})
	}
	entries := make([][]string, 0, len(ds.JournalEntries))
	for _, e := range ds.JournalEntries {
		entries = append(entries, []string{
			e.ID, e.Day, e.Title, e.Content, strconv.Itoa(e.Mood), strings.Join(e.Tags, " "), stamp(&e.CreatedAt),
		})
	}
	reviews := make([][]string, 0, len(ds.WeeklyReviews))
	for _, r := range ds.WeeklyReviews {
		reviews = append(reviews, []string{
			r.ID, r.WeekStart, r.Wins, r.Challenges, r.Lessons, r.NextFocus, strconv.Itoa(r.Rating), stamp(&r.UpdatedAt),
		})
	}

	sections := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"habits", []string{"id", "title", "description", "category", "frequency", "target",
			"current_streak", "longest_streak", "is_active", "completion_dates", "created_at", "archived_at"}, habits},
		{"tasks", []string{"id", "title", "description", "due_date", "priority", "status",
			"completed_at", "created_at"}, tasks},
		{"journal_entries", []string{"id", "day", "title", "content", "mood", "tags", "created_at"}, entries},
		{"weekly_reviews", []string{"id", "week_start", "wins", "challenges", "lessons", "next_focus",
			"rating", "updated_at"}, reviews},
	}

	for i, sec := range sections {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "# "+sec.name+"\n"); err != nil {
			return err
		}
		if err := cw.Write(sec.header); err != nil {
			return err
		}
		for _, row := range sec.rows {
			for j := range row {
				row[j] = neutralize(row[j])
			}
		}
		if err := cw.WriteAll(sec.rows); err != nil {
			return fmt.Errorf("failed to write %s: %w", sec.name, err)
		}
	}
	return nil
}

// neutralize prefixes cells that a spreadsheet would evaluate as a formula.
func neutralize(cell string) string {
	if cell == "" {
		return cell
	}
	switch cell[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + cell
	}
	return cell
}

func stamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
