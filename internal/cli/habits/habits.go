package habits

import (
	"context"
	"fmt"
	"strings"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/tracker"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Toggle    HabitToggleCmd    `cmd:"" help:"Toggle a habit's completion for a day."`
	Streaks   HabitStreaksCmd   `cmd:"" help:"Show current and longest streaks."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Unarchive a habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit (soft delete)."`
	Restore   HabitRestoreCmd   `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `short:"d" help:"Longer description."`
	Category    string `short:"c" help:"Category (health, fitness, work, personal, learning, finance, relationships, hobbies, spiritual, general)." default:"general"`
	Frequency   string `short:"f" help:"Frequency (daily, weekly, monthly, custom)." default:"daily"`
	Target      int    `short:"t" help:"Target completions per period (1-100)." default:"1"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.ResolveTier(context.Background()); err != nil {
		return err
	}

	h, err := ctx.Tracker.AddHabit(tracker.HabitInput{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Frequency:   c.Frequency,
		Target:      c.Target,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added habit: %s (%s, %s)\n", h.Title, h.Category, h.Frequency)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if _, err := ctx.Tracker.RefreshStreaks(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Tracker.Today()
	for _, h := range habits {
		mark := "[ ]"
		if h.CompletedOn(today) {
			mark = "[x]"
		}
		fmt.Printf("%s %-30s %-10s %s%s\n", mark, h.Title, h.Category, cli.Flame(h.CurrentStreak), status(h))
		fmt.Println(cli.Muted("    " + h.ID))
	}
	return nil
}

func status(h models.Habit) string {
	switch {
	case h.DeletedAt != nil:
		return " [DELETED]"
	case h.ArchivedAt != nil:
		return " [ARCHIVED]"
	default:
		return ""
	}
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	h, completed, err := ctx.Tracker.ToggleHabit(c.Habit, c.Date)
	if err != nil {
		return err
	}
	day := c.Date
	if day == "" {
		day = ctx.Tracker.Today()
	}
	if completed {
		fmt.Printf("Marked %s done for %s\n", h.Title, day)
	} else {
		fmt.Printf("Unmarked %s for %s\n", h.Title, day)
	}
	fmt.Printf("Current streak: %d  Longest: %d\n", h.CurrentStreak, h.LongestStreak)
	return nil
}

type HabitStreaksCmd struct{}

func (c *HabitStreaksCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits(false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No active habits.")
		return nil
	}

	fmt.Println(cli.Heading(fmt.Sprintf("%-30s %8s %8s", "HABIT", "CURRENT", "LONGEST")))
	for _, h := range habits {
		fmt.Printf("%-30s %8d %8d\n", truncate(h.Title, 30), h.CurrentStreak, h.LongestStreak)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.ArchiveHabit(c.Habit)
	if err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", h.Title)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.UnarchiveHabit(c.Habit)
	if err != nil {
		return err
	}
	fmt.Printf("Unarchived habit: %s\n", h.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	h, err := ctx.Tracker.DeleteHabit(c.Habit)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s (restore with 'momentumx habit restore %s')\n", h.Title, h.ID)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.ResolveTier(context.Background()); err != nil {
		return err
	}
	h, err := ctx.Tracker.RestoreHabit(strings.TrimSpace(c.Habit))
	if err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", h.Title)
	return nil
}
