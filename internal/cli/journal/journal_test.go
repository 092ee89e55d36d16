package journal

import (
	"testing"

	"github.com/momentumx/momentumx/internal/cli/clitest"
	"github.com/momentumx/momentumx/internal/entitlement"
)

func TestJournalAddListDelete(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)

	cmd := &JournalAddCmd{Content: "Slept well.\nLong walk.", Title: "Tuesday", Mood: 8, Tags: []string{"sleep", "walk"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	entries, err := ctx.Store.GetJournalEntries("", "")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry, got %d (%v)", len(entries), err)
	}
	if entries[0].Day != "2026-03-04" || len(entries[0].Tags) != 2 {
		t.Errorf("unexpected entry %+v", entries[0])
	}

	if err := (&JournalListCmd{From: "2026-03-01", To: "2026-03-31"}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := (&JournalListCmd{From: "yesterday"}).Run(ctx); err == nil {
		t.Error("expected invalid --from to be rejected")
	}

	if err := (&JournalDeleteCmd{ID: entries[0].ID}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := (&JournalDeleteCmd{ID: entries[0].ID}).Run(ctx); err == nil {
		t.Error("expected second delete to fail")
	}
}

func TestReviewSaveReplacesWeek(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)

	if err := (&ReviewSaveCmd{Wins: "Shipped", Rating: 4}).Run(ctx); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// 2026-03-06 is in the same week as the fixed clock's Wednesday.
	if err := (&ReviewSaveCmd{Week: "2026-03-06", Wins: "Shipped twice", Rating: 5}).Run(ctx); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	reviews, err := ctx.Store.GetWeeklyReviews()
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected one review for the week, got %d", len(reviews))
	}
	if reviews[0].WeekStart != "2026-03-02" || reviews[0].Wins != "Shipped twice" {
		t.Errorf("unexpected review %+v", reviews[0])
	}

	if err := (&ReviewShowCmd{Week: "2026-03-04"}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
	if err := (&ReviewShowCmd{Week: "2026-01-01"}).Run(ctx); err == nil {
		t.Error("expected missing week to fail")
	}
	if err := (&ReviewListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}
}

func TestStars(t *testing.T) {
	if got := stars(3); got != "★★★☆☆" {
		t.Errorf("stars(3) = %q", got)
	}
	if got := stars(9); got != "★★★★★" {
		t.Errorf("stars(9) = %q", got)
	}
}
