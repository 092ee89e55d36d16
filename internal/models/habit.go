package models

import (
	"time"

	"github.com/momentumx/momentumx/internal/streak"
)

type Category string

const (
	CategoryHealth        Category = "health"
	CategoryFitness       Category = "fitness"
	CategoryWork          Category = "work"
	CategoryPersonal      Category = "personal"
	CategoryLearning      Category = "learning"
	CategoryFinance       Category = "finance"
	CategoryRelationships Category = "relationships"
	CategoryHobbies       Category = "hobbies"
	CategorySpiritual     Category = "spiritual"
	CategoryGeneral       Category = "general"
)

// Categories lists every habit category.
var Categories = []Category{
	CategoryHealth, CategoryFitness, CategoryWork, CategoryPersonal, CategoryLearning,
	CategoryFinance, CategoryRelationships, CategoryHobbies, CategorySpiritual, CategoryGeneral,
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// Frequencies lists every habit frequency.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom}

// Habit represents a recurring practice to track.
//
// CurrentStreak and LongestStreak are a cache of streak.Recompute over
// CompletionDates and are only written through ApplyStats.
type Habit struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        Category   `json:"category"`
	Frequency       Frequency  `json:"frequency"`
	Target          int        `json:"target"`
	CompletionDates []string   `json:"completion_dates"` // YYYY-MM-DD, ascending
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// ApplyStats stores freshly computed streak stats on the habit.
func (h *Habit) ApplyStats(s streak.Stats) {
	h.CurrentStreak = s.Current
	h.LongestStreak = s.Longest
}

// Stats returns the cached streak stats.
func (h Habit) Stats() streak.Stats {
	return streak.Stats{Current: h.CurrentStreak, Longest: h.LongestStreak}
}

// CompletedOn reports whether the habit has a completion recorded for day.
func (h Habit) CompletedOn(day string) bool {
	for _, d := range h.CompletionDates {
		if d == day {
			return true
		}
	}
	return false
}
