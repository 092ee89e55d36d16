package sqldb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

const journalColumns = `id, user_id, day, title, content, mood, tags, created_at, updated_at`

func scanJournalEntry(row scanner) (models.JournalEntry, error) {
	var e models.JournalEntry
	var tags, createdAt, updatedAt string

	err := row.Scan(&e.ID, &e.UserID, &e.Day, &e.Title, &e.Content, &e.Mood, &tags, &createdAt, &updatedAt)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return models.JournalEntry{}, fmt.Errorf("failed to parse tags for entry %s: %w", e.ID, err)
		}
	}
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.JournalEntry{}, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}

func (s *Store) AddJournalEntry(entry models.JournalEntry) error {
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.exec(`
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Day, entry.Title, entry.Content, entry.Mood, string(encoded),
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// GetJournalEntries returns entries between startDay and endDay inclusive,
// newest first. An empty bound is open.
func (s *Store) GetJournalEntries(startDay, endDay string) ([]models.JournalEntry, error) {
	var where []string
	var args []any
	if startDay != "" {
		where = append(where, "day >= ?")
		args = append(args, startDay)
	}
	if endDay != "" {
		where = append(where, "day <= ?")
		args = append(args, endDay)
	}
	query := "SELECT " + journalColumns + " FROM journal_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day DESC, created_at DESC"

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteJournalEntry(id string) error {
	res, err := s.exec("DELETE FROM journal_entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affected(res, fmt.Errorf("journal entry %s: %w", id, storage.ErrNotFound))
}

func (s *Store) CountJournalEntries(userID string) (int, error) {
	return s.count("SELECT COUNT(*) FROM journal_entries WHERE user_id = ?", userID)
}

const reviewColumns = `id, user_id, week_start, wins, challenges, lessons, next_focus, rating, created_at, updated_at`

func scanWeeklyReview(row scanner) (models.WeeklyReview, error) {
	var r models.WeeklyReview
	var createdAt, updatedAt string

	err := row.Scan(&r.ID, &r.UserID, &r.WeekStart, &r.Wins, &r.Challenges, &r.Lessons, &r.NextFocus,
		&r.Rating, &createdAt, &updatedAt)
	if err != nil {
		return models.WeeklyReview{}, err
	}
	if r.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.WeeklyReview{}, err
	}
	if r.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.WeeklyReview{}, err
	}
	return r, nil
}

// SaveWeeklyReview inserts the review or replaces the fields of the existing
// review for the same owner and week. The original id and created_at are kept.
func (s *Store) SaveWeeklyReview(review models.WeeklyReview) error {
	_, err := s.exec(`
		INSERT INTO weekly_reviews (`+reviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			wins = excluded.wins,
			challenges = excluded.challenges,
			lessons = excluded.lessons,
			next_focus = excluded.next_focus,
			rating = excluded.rating,
			updated_at = excluded.updated_at`,
		review.ID, review.UserID, review.WeekStart, review.Wins, review.Challenges, review.Lessons,
		review.NextFocus, review.Rating, formatTime(review.CreatedAt), formatTime(review.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save weekly review: %w", err)
	}
	return nil
}

func (s *Store) GetWeeklyReview(weekStart string) (models.WeeklyReview, error) {
	r, err := scanWeeklyReview(s.queryRow(`SELECT `+reviewColumns+` FROM weekly_reviews WHERE week_start = ?`, weekStart))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WeeklyReview{}, fmt.Errorf("weekly review %s: %w", weekStart, storage.ErrNotFound)
		}
		return models.WeeklyReview{}, err
	}
	return r, nil
}

func (s *Store) GetWeeklyReviews() ([]models.WeeklyReview, error) {
	rows, err := s.query("SELECT " + reviewColumns + " FROM weekly_reviews ORDER BY week_start DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.WeeklyReview
	for rows.Next() {
		r, err := scanWeeklyReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
