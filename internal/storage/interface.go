package storage

import (
	"errors"

	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/streak"
)

// ErrNotFound is returned when a requested record does not exist or has been deleted.
var ErrNotFound = errors.New("record not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByTitle(title string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error
	// ApplyHabitToggle records or removes the completion for day and stores the
	// recomputed streak cache in a single transaction.
	ApplyHabitToggle(habitID, day string, completed bool, stats streak.Stats) error
	// SaveHabitStats overwrites the streak cache without touching completions.
	SaveHabitStats(habitID string, stats streak.Stats) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks(includeDeleted bool) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error
	RestoreTask(id string) error

	// Journal
	AddJournalEntry(models.JournalEntry) error
	GetJournalEntries(startDay, endDay string) ([]models.JournalEntry, error)
	DeleteJournalEntry(id string) error

	// Weekly reviews
	SaveWeeklyReview(models.WeeklyReview) error
	GetWeeklyReview(weekStart string) (models.WeeklyReview, error)
	GetWeeklyReviews() ([]models.WeeklyReview, error)

	// Counts used for tier limit enforcement. Soft-deleted records are excluded.
	CountHabits(userID string) (int, error)
	CountTasks(userID string) (int, error)
	CountJournalEntries(userID string) (int, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by providers with a versioned SQL schema.
type Migrator interface {
	// SchemaVersion returns the applied and the latest known schema versions.
	SchemaVersion() (current, latest int, err error)
	MigrationsPending() (bool, error)
	// Migrate applies pending migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
}
