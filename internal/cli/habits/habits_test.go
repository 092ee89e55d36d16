package habits

import (
	"errors"
	"fmt"
	"testing"

	"github.com/momentumx/momentumx/internal/cli/clitest"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/tracker"
)

func TestHabitAddAndToggle(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)

	if err := (&HabitAddCmd{Title: "Meditate", Category: "spiritual", Frequency: "daily", Target: 1}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	for _, title := range []string{"meditate", "<b>Meditate</b>", "Meditate  "} {
		if err := (&HabitAddCmd{Title: title}).Run(ctx); !errors.Is(err, tracker.ErrDuplicate) {
			t.Errorf("add %q: expected ErrDuplicate, got %v", title, err)
		}
	}

	for _, day := range []string{"2026-03-03", ""} {
		if err := (&HabitToggleCmd{Habit: "Meditate", Date: day}).Run(ctx); err != nil {
			t.Fatalf("toggle %q failed: %v", day, err)
		}
	}
	h := clitest.Habit(t, ctx, "Meditate")
	if h.CurrentStreak != 2 || h.LongestStreak != 2 {
		t.Errorf("streaks = %d/%d, want 2/2", h.CurrentStreak, h.LongestStreak)
	}

	// Toggling today off again drops the current streak but keeps the record.
	if err := (&HabitToggleCmd{Habit: h.ID}).Run(ctx); err != nil {
		t.Fatalf("untoggle failed: %v", err)
	}
	h = clitest.Habit(t, ctx, "Meditate")
	if h.CurrentStreak != 1 || h.LongestStreak != 2 {
		t.Errorf("streaks after untoggle = %d/%d, want 1/2", h.CurrentStreak, h.LongestStreak)
	}

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&HabitStreaksCmd{}).Run(ctx); err != nil {
		t.Errorf("streaks failed: %v", err)
	}
}

func TestHabitToggleInvalidDate(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)
	if err := (&HabitAddCmd{Title: "Walk"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	err := (&HabitToggleCmd{Habit: "Walk", Date: "03/04/2026"}).Run(ctx)
	if !errors.Is(err, tracker.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHabitLimitOnStarter(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)
	limit := entitlement.TierLimits(entitlement.Starter).MaxHabits
	for i := 0; i < limit; i++ {
		if err := (&HabitAddCmd{Title: fmt.Sprintf("Habit %d", i)}).Run(ctx); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}
	err := (&HabitAddCmd{Title: "One too many"}).Run(ctx)
	if !errors.Is(err, tracker.ErrLimitReached) {
		t.Errorf("expected ErrLimitReached, got %v", err)
	}
}

func TestHabitLifecycle(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Coach)
	if err := (&HabitAddCmd{Title: "Journal"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitArchiveCmd{Habit: "Journal"}).Run(ctx); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if h := clitest.Habit(t, ctx, "Journal"); h.ArchivedAt == nil || h.IsActive {
		t.Errorf("habit not archived: %+v", h)
	}
	if err := (&HabitUnarchiveCmd{Habit: "Journal"}).Run(ctx); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}
	if err := (&HabitDeleteCmd{Habit: "Journal"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetHabitByTitle("Journal"); err == nil {
		t.Error("deleted habit is still visible")
	}
	if err := (&HabitListCmd{Deleted: true}).Run(ctx); err != nil {
		t.Errorf("list --deleted failed: %v", err)
	}
	if err := (&HabitRestoreCmd{Habit: "journal"}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	clitest.Habit(t, ctx, "Journal")
}
