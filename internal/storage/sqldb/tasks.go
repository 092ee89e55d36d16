package sqldb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage"
)

const taskColumns = `id, user_id, title, description, due_date, priority, status,
	completed_at, created_at, updated_at, deleted_at`

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var priority, status, createdAt, updatedAt string
	var completedAt, deletedAt sql.NullString

	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &priority, &status,
		&completedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return models.Task{}, err
	}
	t.Priority = models.Priority(priority)
	t.Status = models.TaskStatus(status)

	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = parseNullTime("completed_at", completedAt); err != nil {
		return models.Task{}, err
	}
	if t.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func taskNotFound(id string) error {
	return fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
}

func (s *Store) AddTask(task models.Task) error {
	_, err := s.exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Description, task.DueDate, string(task.Priority), string(task.Status),
		nullTime(task.CompletedAt), formatTime(task.CreatedAt), formatTime(task.UpdatedAt), nullTime(task.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	t, err := scanTask(s.queryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, taskNotFound(id)
		}
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetAllTasks(includeDeleted bool) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(task models.Task) error {
	res, err := s.exec(`
		UPDATE tasks SET title = ?, description = ?, due_date = ?, priority = ?, status = ?,
			completed_at = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.DueDate, string(task.Priority), string(task.Status),
		nullTime(task.CompletedAt), formatTime(task.UpdatedAt), nullTime(task.DeletedAt), task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return affected(res, taskNotFound(task.ID))
}

func (s *Store) DeleteTask(id string) error {
	now := formatTime(s.now())
	res, err := s.exec(`
		UPDATE tasks SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	return affected(res, taskNotFound(id))
}

func (s *Store) RestoreTask(id string) error {
	res, err := s.exec(`
		UPDATE tasks SET deleted_at = NULL, updated_at = ?
		WHERE id = ? AND deleted_at IS NOT NULL`, formatTime(s.now()), id)
	if err != nil {
		return err
	}
	return affected(res, taskNotFound(id))
}

func (s *Store) CountTasks(userID string) (int, error) {
	return s.count("SELECT COUNT(*) FROM tasks WHERE user_id = ? AND deleted_at IS NULL", userID)
}
