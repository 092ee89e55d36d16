package tracker

import (
	"fmt"
	"strings"

	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

// ArchiveHabit hides habit ref from the active list. Archived habits still
// count toward the habit limit.
func (s *Service) ArchiveHabit(ref string) (models.Habit, error) {
	h, err := s.FindHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.ArchiveHabit(h.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to archive habit %q: %w", h.Title, err)
	}
	logger.Info("Habit archived", "id", h.ID)
	return h, nil
}

func (s *Service) UnarchiveHabit(ref string) (models.Habit, error) {
	h, err := s.FindHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.UnarchiveHabit(h.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to unarchive habit %q: %w", h.Title, err)
	}
	logger.Info("Habit unarchived", "id", h.ID)
	return h, nil
}

// DeleteHabit soft-deletes habit ref.
func (s *Service) DeleteHabit(ref string) (models.Habit, error) {
	h, err := s.FindHabit(ref)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.DeleteHabit(h.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to delete habit %q: %w", h.Title, err)
	}
	logger.Info("Habit deleted", "id", h.ID)
	return h, nil
}

// RestoreHabit brings back a soft-deleted habit, matched by id or title,
// provided the tier has room for it.
func (s *Service) RestoreHabit(ref string) (models.Habit, error) {
	all, err := s.store.GetAllHabits(true, true)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to load habits: %w", err)
	}
	var found *models.Habit
	for i := range all {
		h := &all[i]
		if h.DeletedAt == nil {
			continue
		}
		if h.ID == ref || strings.EqualFold(h.Title, ref) {
			found = h
			break
		}
	}
	if found == nil {
		return models.Habit{}, fmt.Errorf("deleted habit %q: %w", ref, storage.ErrNotFound)
	}

	userID, err := s.userID()
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.checkLimit(entitlement.Habits, s.store.CountHabits, userID); err != nil {
		return models.Habit{}, err
	}
	if err := s.store.RestoreHabit(found.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to restore habit %q: %w", found.Title, err)
	}
	found.DeletedAt = nil
	logger.Info("Habit restored", "id", found.ID)
	return *found, nil
}

// DeleteTask soft-deletes task id.
func (s *Service) DeleteTask(id string) error {
	if err := s.store.DeleteTask(id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	logger.Info("Task deleted", "id", id)
	return nil
}

// RestoreTask brings back a soft-deleted task provided the tier has room for it.
func (s *Service) RestoreTask(id string) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	if err := s.checkLimit(entitlement.Tasks, s.store.CountTasks, userID); err != nil {
		return err
	}
	if err := s.store.RestoreTask(id); err != nil {
		return fmt.Errorf("failed to restore task %s: %w", id, err)
	}
	logger.Info("Task restored", "id", id)
	return nil
}
