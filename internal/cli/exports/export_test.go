package exports

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/momentumx/momentumx/internal/cli/clitest"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/export"
	"github.com/momentumx/momentumx/internal/tracker"
)

func TestExportDeniedOnStarter(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)
	out := filepath.Join(t.TempDir(), "out.json")

	err := (&ExportCmd{Format: "json", Output: out}).Run(ctx)
	if !errors.Is(err, export.ErrExportNotAllowed) {
		t.Fatalf("expected ErrExportNotAllowed, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written when export is denied")
	}
}

func TestExportJSON(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Coach)
	if _, err := ctx.Tracker.AddHabit(tracker.HabitInput{Title: "Read"}); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "nested", "out.json")

	if err := (&ExportCmd{Format: "json", Output: out}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Tier   string `json:"tier"`
		Habits []struct {
			Title string `json:"title"`
		} `json:"habits"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Tier != "coach" || len(doc.Habits) != 1 || doc.Habits[0].Title != "Read" {
		t.Errorf("unexpected export %s", data)
	}
}

func TestExportDefaultPath(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Business)
	if err := (&ExportCmd{Format: "csv"}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(ctx.Config.Export.Dir, "momentumx-export-*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected one dated CSV export, found %v", matches)
	}
}
