package tracker

import (
	"errors"
	"fmt"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/sanitize"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/streak"
)

// HabitInput is raw user input for a new habit.
type HabitInput struct {
	Title       string
	Description string
	Category    string
	Frequency   string
	Target      int
}

// AddHabit creates a habit after sanitizing input and checking the habit limit.
func (s *Service) AddHabit(in HabitInput) (models.Habit, error) {
	warnSuspicious("habit", "title", in.Title)
	warnSuspicious("habit", "description", in.Description)

	title := sanitize.Title(in.Title, constants.MaxTitleLength)
	if title == "" {
		return models.Habit{}, fmt.Errorf("%w: habit title is required", ErrInvalidInput)
	}
	switch _, err := s.store.GetHabitByTitle(title); {
	case err == nil:
		return models.Habit{}, fmt.Errorf("%w: habit %q already exists", ErrDuplicate, title)
	case !errors.Is(err, storage.ErrNotFound):
		return models.Habit{}, fmt.Errorf("failed to check habit title: %w", err)
	}

	userID, err := s.userID()
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.checkLimit(entitlement.Habits, s.store.CountHabits, userID); err != nil {
		return models.Habit{}, err
	}

	now := s.now().UTC()
	habit := models.Habit{
		ID:              newID(),
		UserID:          userID,
		Title:           title,
		Description:     sanitize.Description(in.Description, constants.MaxDescriptionLength),
		Category:        sanitize.Category(in.Category),
		Frequency:       sanitize.Frequency(in.Frequency),
		Target:          sanitize.Target(in.Target),
		CompletionDates: []string{},
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.AddHabit(habit); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Info("Habit added", "id", habit.ID, "title", habit.Title)
	return habit, nil
}

// FindHabit resolves ref as a habit id, falling back to a case-insensitive title match.
func (s *Service) FindHabit(ref string) (models.Habit, error) {
	h, err := s.store.GetHabit(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}
	return s.store.GetHabitByTitle(ref)
}

// ToggleHabit flips the completion of habit ref on day ("" means today) and
// persists the recomputed streaks together with the completion change.
func (s *Service) ToggleHabit(ref, day string) (models.Habit, bool, error) {
	day, err := s.parseDay(day)
	if err != nil {
		return models.Habit{}, false, err
	}

	habit, err := s.FindHabit(ref)
	if err != nil {
		return models.Habit{}, false, err
	}
	if habit.ArchivedAt != nil {
		return models.Habit{}, false, fmt.Errorf("%w: habit %q is archived", ErrInvalidInput, habit.Title)
	}

	days, completed := streak.Toggle(habit.CompletionDates, day)
	stats := streak.Recompute(days, s.Now(), habit.LongestStreak)

	if err := s.store.ApplyHabitToggle(habit.ID, day, completed, stats); err != nil {
		return models.Habit{}, false, fmt.Errorf("failed to toggle habit: %w", err)
	}

	habit.CompletionDates = days
	habit.ApplyStats(stats)
	habit.UpdatedAt = s.now().UTC()
	logger.Debug("Habit toggled", "id", habit.ID, "day", day, "completed", completed,
		"current", stats.Current, "longest", stats.Longest)
	return habit, completed, nil
}

// RefreshStreaks recomputes the streaks of every live habit, archived ones
// included, for the current day, since a streak can lapse without a toggle.
// It returns the number of habits whose cache changed.
func (s *Service) RefreshStreaks() (int, error) {
	habits, err := s.store.GetAllHabits(true, false)
	if err != nil {
		return 0, fmt.Errorf("failed to load habits: %w", err)
	}

	today := s.Now()
	changed := 0
	for _, h := range habits {
		stats := streak.Recompute(h.CompletionDates, today, h.LongestStreak)
		if stats == h.Stats() {
			continue
		}
		if err := s.store.SaveHabitStats(h.ID, stats); err != nil {
			return changed, fmt.Errorf("failed to save streaks for habit %s: %w", h.ID, err)
		}
		changed++
	}
	if changed > 0 {
		logger.Debug("Refreshed habit streaks", "changed", changed)
	}
	return changed, nil
}

// Habits returns active habits with streaks refreshed for today.
func (s *Service) Habits(includeArchived bool) ([]models.Habit, error) {
	if _, err := s.RefreshStreaks(); err != nil {
		return nil, err
	}
	return s.store.GetAllHabits(includeArchived, false)
}
