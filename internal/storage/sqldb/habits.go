package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/streak"
)

const habitColumns = `id, user_id, title, description, category, frequency, target,
	current_streak, longest_streak, is_active, created_at, updated_at, archived_at, deleted_at`

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, frequency, createdAt, updatedAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &category, &frequency, &h.Target,
		&h.CurrentStreak, &h.LongestStreak, &h.IsActive, &createdAt, &updatedAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}
	h.Category = models.Category(category)
	h.Frequency = models.Frequency(frequency)

	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = parseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func habitNotFound(id string) error {
	return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
}

func (s *Store) AddHabit(habit models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = s.txExec(tx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Title, habit.Description, string(habit.Category), string(habit.Frequency),
		habit.Target, habit.CurrentStreak, habit.LongestStreak, habit.IsActive,
		formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt), nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	if err := s.insertCompletions(tx, habit.ID, habit.CompletionDates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) insertCompletions(tx *sql.Tx, habitID string, days []string) error {
	for _, day := range days {
		if _, err := s.txExec(tx, `
			INSERT INTO habit_completions (habit_id, day) VALUES (?, ?)
			ON CONFLICT (habit_id, day) DO NOTHING`, habitID, day); err != nil {
			return fmt.Errorf("failed to insert completion %s: %w", day, err)
		}
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ? AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, habitNotFound(id)
		}
		return models.Habit{}, err
	}
	if h.CompletionDates, err = s.completionsFor(h.ID); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) GetHabitByTitle(title string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`
		SELECT `+habitColumns+` FROM habits
		WHERE lower(title) = lower(?) AND deleted_at IS NULL
		ORDER BY created_at LIMIT 1`, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("habit %q: %w", title, storage.ErrNotFound)
		}
		return models.Habit{}, err
	}
	if h.CompletionDates, err = s.completionsFor(h.ID); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) completionsFor(habitID string) ([]string, error) {
	rows, err := s.query("SELECT day FROM habit_completions WHERE habit_id = ? ORDER BY day", habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []string{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *Store) allCompletions() (map[string][]string, error) {
	rows, err := s.query("SELECT habit_id, day FROM habit_completions ORDER BY habit_id, day")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byHabit := make(map[string][]string)
	for rows.Next() {
		var habitID, day string
		if err := rows.Scan(&habitID, &day); err != nil {
			return nil, err
		}
		byHabit[habitID] = append(byHabit[habitID], day)
	}
	return byHabit, rows.Err()
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	var where []string
	if !includeDeleted {
		where = append(where, "deleted_at IS NULL")
	}
	if !includeArchived {
		where = append(where, "archived_at IS NULL")
	}
	query := "SELECT " + habitColumns + " FROM habits"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	completions, err := s.allCompletions()
	if err != nil {
		return nil, err
	}
	for i := range habits {
		habits[i].CompletionDates = completions[habits[i].ID]
		if habits[i].CompletionDates == nil {
			habits[i].CompletionDates = []string{}
		}
	}
	return habits, nil
}

// UpdateHabit rewrites the habit row and replaces its completion set.
func (s *Store) UpdateHabit(habit models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := s.txExec(tx, `
		UPDATE habits SET title = ?, description = ?, category = ?, frequency = ?, target = ?,
			current_streak = ?, longest_streak = ?, is_active = ?, updated_at = ?, archived_at = ?, deleted_at = ?
		WHERE id = ?`,
		habit.Title, habit.Description, string(habit.Category), string(habit.Frequency), habit.Target,
		habit.CurrentStreak, habit.LongestStreak, habit.IsActive, formatTime(habit.UpdatedAt),
		nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt), habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	if err := affected(res, habitNotFound(habit.ID)); err != nil {
		return err
	}

	if _, err := s.txExec(tx, "DELETE FROM habit_completions WHERE habit_id = ?", habit.ID); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if err := s.insertCompletions(tx, habit.ID, habit.CompletionDates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) ArchiveHabit(id string) error {
	now := formatTime(s.now())
	res, err := s.exec(`
		UPDATE habits SET archived_at = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`, now, false, now, id)
	if err != nil {
		return err
	}
	return affected(res, habitNotFound(id))
}

func (s *Store) UnarchiveHabit(id string) error {
	res, err := s.exec(`
		UPDATE habits SET archived_at = NULL, is_active = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`, true, formatTime(s.now()), id)
	if err != nil {
		return err
	}
	return affected(res, habitNotFound(id))
}

func (s *Store) DeleteHabit(id string) error {
	now := formatTime(s.now())
	res, err := s.exec(`
		UPDATE habits SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	return affected(res, habitNotFound(id))
}

func (s *Store) RestoreHabit(id string) error {
	res, err := s.exec(`
		UPDATE habits SET deleted_at = NULL, updated_at = ?
		WHERE id = ? AND deleted_at IS NOT NULL`, formatTime(s.now()), id)
	if err != nil {
		return err
	}
	return affected(res, habitNotFound(id))
}

func (s *Store) ApplyHabitToggle(habitID, day string, completed bool, stats streak.Stats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := s.txExec(tx, `
		UPDATE habits SET current_streak = ?, longest_streak = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, stats.Current, stats.Longest, formatTime(s.now()), habitID)
	if err != nil {
		return fmt.Errorf("failed to update streak cache: %w", err)
	}
	if err := affected(res, habitNotFound(habitID)); err != nil {
		return err
	}

	if completed {
		err = s.insertCompletions(tx, habitID, []string{day})
	} else {
		_, err = s.txExec(tx, "DELETE FROM habit_completions WHERE habit_id = ? AND day = ?", habitID, day)
	}
	if err != nil {
		return fmt.Errorf("failed to toggle completion: %w", err)
	}

	return tx.Commit()
}

func (s *Store) SaveHabitStats(habitID string, stats streak.Stats) error {
	res, err := s.exec(`
		UPDATE habits SET current_streak = ?, longest_streak = ?
		WHERE id = ? AND deleted_at IS NULL`, stats.Current, stats.Longest, habitID)
	if err != nil {
		return err
	}
	return affected(res, habitNotFound(habitID))
}

func (s *Store) CountHabits(userID string) (int, error) {
	return s.count("SELECT COUNT(*) FROM habits WHERE user_id = ? AND deleted_at IS NULL", userID)
}
