package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Priorities lists every task priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Statuses lists every task status.
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"due_date,omitempty"` // YYYY-MM-DD format
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// SetStatus changes the task status. CompletedAt is set to now when the task
// becomes completed and cleared for any other status.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if status == StatusCompleted {
		if t.Status != StatusCompleted || t.CompletedAt == nil {
			completed := now
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
	t.UpdatedAt = now
}

// Overdue reports whether the task is still open after its due date.
func (t Task) Overdue(today string) bool {
	if t.DueDate == "" || t.Status == StatusCompleted || t.Status == StatusCancelled {
		return false
	}
	return t.DueDate < today
}
