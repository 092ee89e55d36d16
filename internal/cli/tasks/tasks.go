package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/tracker"
)

type TaskCmd struct {
	Add     TaskAddCmd     `cmd:"" help:"Add a new task."`
	List    TaskListCmd    `cmd:"" help:"List tasks."`
	Status  TaskStatusCmd  `cmd:"" help:"Change a task's status."`
	Delete  TaskDeleteCmd  `cmd:"" help:"Delete a task (soft delete)."`
	Restore TaskRestoreCmd `cmd:"" help:"Restore a deleted task."`
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Longer description."`
	Due         string `help:"Due date in YYYY-MM-DD format."`
	Priority    string `short:"p" help:"Priority (low, medium, high)." enum:"low,medium,high" default:"medium"`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.ResolveTier(context.Background()); err != nil {
		return err
	}

	task, err := ctx.Tracker.AddTask(tracker.TaskInput{
		Title:       c.Title,
		Description: c.Description,
		DueDate:     c.Due,
		Priority:    c.Priority,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added task: %s (ID: %s)\n", task.Title, task.ID)
	return nil
}

type TaskListCmd struct {
	All     bool   `help:"Include completed and cancelled tasks."`
	Deleted bool   `help:"Include deleted tasks."`
	Status  string `help:"Only show tasks with this status."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.Status != "" && !validStatus(c.Status) {
		return fmt.Errorf("unknown status %q", c.Status)
	}

	tasks, err := ctx.Store.GetAllTasks(c.Deleted)
	if err != nil {
		return err
	}
	tasks = c.filter(tasks)
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if (a.DueDate == "") != (b.DueDate == "") {
			return a.DueDate != ""
		}
		return a.DueDate < b.DueDate
	})

	today := ctx.Tracker.Today()
	for _, t := range tasks {
		due := "-"
		if t.DueDate != "" {
			due = t.DueDate
		}
		line := fmt.Sprintf("%-12s %-8s %-11s %s", due, t.Priority, t.Status, t.Title)
		switch {
		case t.DeletedAt != nil:
			line = cli.Muted(line + " [DELETED]")
		case t.Overdue(today):
			line = cli.Warn(line + " (overdue)")
		}
		fmt.Println(line)
		fmt.Println(cli.Muted("    " + t.ID))
	}
	return nil
}

func (c *TaskListCmd) filter(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if c.Status != "" {
			if string(t.Status) != c.Status {
				continue
			}
		} else if !c.All && (t.Status == models.StatusCompleted || t.Status == models.StatusCancelled) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func validStatus(s string) bool {
	for _, st := range models.Statuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

type TaskStatusCmd struct {
	ID     string `arg:"" help:"Task ID."`
	Status string `arg:"" help:"New status (pending, in-progress, completed, cancelled)." enum:"pending,in-progress,completed,cancelled"`
}

func (c *TaskStatusCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	task, err := ctx.Tracker.SetTaskStatus(c.ID, c.Status)
	if err != nil {
		return err
	}
	fmt.Printf("Task %s is now %s\n", task.Title, task.Status)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Tracker.DeleteTask(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s (restore with 'momentumx task restore %s')\n", c.ID, c.ID)
	return nil
}

type TaskRestoreCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskRestoreCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.ResolveTier(context.Background()); err != nil {
		return err
	}
	if err := ctx.Tracker.RestoreTask(c.ID); err != nil {
		return err
	}
	fmt.Printf("Restored task %s\n", c.ID)
	return nil
}
