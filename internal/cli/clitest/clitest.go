// Package clitest builds command contexts backed by a temporary SQLite database.
package clitest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/config"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/models"
	"github.com/momentumx/momentumx/internal/storage/sqlite"
	"github.com/momentumx/momentumx/internal/tracker"
)

// Now is the fixed clock used by contexts from NewContext.
var Now = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

// NewContext initializes a fresh database in t.TempDir with tier cached in
// settings, so ResolveTier returns it without a license manager.
func NewContext(t *testing.T, tier entitlement.Tier) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "momentumx.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	settings.SetTierCache(entitlement.NewCache(tier, Now), "")
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	cfg := config.Default()
	cfg.Database = store.GetConfigPath()
	cfg.Export.Dir = dir

	now := func() time.Time { return Now }
	return &cli.Context{
		Config:  cfg,
		Store:   store,
		Tracker: tracker.New(store, tier, tracker.WithClock(now), tracker.WithLocation(time.UTC)),
		Now:     now,
	}
}

// Habit returns the habit titled title, failing the test when it is missing.
func Habit(t *testing.T, ctx *cli.Context, title string) models.Habit {
	t.Helper()
	h, err := ctx.Store.GetHabitByTitle(title)
	if err != nil {
		t.Fatalf("habit %q: %v", title, err)
	}
	return h
}
