package tracker

import (
	"fmt"

	"github.com/momentumx/momentumx/internal/constants"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/sanitize"
)

// TaskInput is raw user input for a new task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// AddTask creates a pending task after sanitizing input and checking the task limit.
func (s *Service) AddTask(in TaskInput) (models.Task, error) {
	warnSuspicious("task", "title", in.Title)
	warnSuspicious("task", "description", in.Description)

	title := sanitize.Title(in.Title, constants.MaxTitleLength)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	due := ""
	if in.DueDate != "" {
		if due = sanitize.Date(in.DueDate); due == "" {
			return models.Task{}, fmt.Errorf("%w: due date %q is not a YYYY-MM-DD date", ErrInvalidInput, in.DueDate)
		}
	}

	userID, err := s.userID()
	if err != nil {
		return models.Task{}, err
	}
	if err := s.checkLimit(entitlement.Tasks, s.store.CountTasks, userID); err != nil {
		return models.Task{}, err
	}

	now := s.now().UTC()
	task := models.Task{
		ID:          newID(),
		UserID:      userID,
		Title:       title,
		Description: sanitize.Description(in.Description, constants.MaxDescriptionLength),
		DueDate:     due,
		Priority:    sanitize.Priority(in.Priority),
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.AddTask(task); err != nil {
		return models.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	logger.Info("Task added", "id", task.ID, "title", task.Title)
	return task, nil
}

// SetTaskStatus moves task id to status. Completion time is stamped only on
// the transition to completed and cleared when leaving it.
func (s *Service) SetTaskStatus(id, status string) (models.Task, error) {
	task, err := s.store.GetTask(id)
	if err != nil {
		return models.Task{}, err
	}
	task.SetStatus(sanitize.Status(status), s.now().UTC())
	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}
