package models

import "time"

// JournalEntry is a free-form daily reflection.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      int       `json:"mood"` // 1-10
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeeklyReview summarizes one week, keyed by the Monday that starts it.
type WeeklyReview struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	WeekStart  string    `json:"week_start"` // YYYY-MM-DD, always a Monday
	Wins       string    `json:"wins"`
	Challenges string    `json:"challenges"`
	Lessons    string    `json:"lessons"`
	NextFocus  string    `json:"next_focus"`
	Rating     int       `json:"rating"` // 1-5
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WeekStart returns the Monday on or before t as YYYY-MM-DD.
func WeekStart(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}
