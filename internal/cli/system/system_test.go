package system

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/momentumx/momentumx/internal/backup"
	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/config"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/storage/sqlite"
	"github.com/momentumx/momentumx/internal/tracker"
)

var fixedNow = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T, initialize bool) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "momentumx.db")
	store := sqlite.NewStore(dbPath)
	if initialize {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to initialize store: %v", err)
		}
	}
	t.Cleanup(func() { store.Close() })

	now := func() time.Time { return fixedNow }
	return &cli.Context{
		Config:  config.Default(),
		Store:   store,
		Tracker: tracker.New(store, entitlement.Starter, tracker.WithClock(now), tracker.WithLocation(time.UTC)),
		Now:     now,
	}, dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := setupTestContext(t, false)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created at %s: %v", dbPath, err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if settings.UserID == "" {
		t.Error("init should seed a user id")
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupTestContext(t, false)
	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	first, _ := ctx.Store.GetSettings()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init failed (should be idempotent): %v", err)
	}
	second, _ := ctx.Store.GetSettings()
	if first.UserID != second.UserID {
		t.Errorf("user id changed on re-init: %s -> %s", first.UserID, second.UserID)
	}
}

func TestInitCmd_ForceBacksUpAndResets(t *testing.T) {
	ctx, dbPath := setupTestContext(t, true)
	if _, err := ctx.Tracker.AddHabit(tracker.HabitInput{Title: "Read"}); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatalf("failed to list habits: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected empty database after --force, got %d habits", len(habits))
	}

	backups, err := backup.NewManager(dbPath).List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup of the old database, got %d", len(backups))
	}
}

func TestMigrateCmd_UpToDate(t *testing.T) {
	ctx, _ := setupTestContext(t, true)
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _ := setupTestContext(t, true)
	// Missing backups and keyring are warnings, not failures.
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_UninitializedDB(t *testing.T) {
	ctx, _ := setupTestContext(t, false)
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the database does not exist")
	}
}

func TestDoctorCmd_DriftFails(t *testing.T) {
	ctx, _ := setupTestContext(t, true)
	h, err := ctx.Tracker.AddHabit(tracker.HabitInput{Title: "Read"})
	if err != nil {
		t.Fatal(err)
	}
	h.CompletionDates = []string{"2026-03-03", "2026-03-04"}
	if err := ctx.Store.UpdateHabit(h); err != nil {
		t.Fatal(err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when streak caches drifted")
	}
}

func TestDoctorCmd_SuspiciousContentWarns(t *testing.T) {
	ctx, _ := setupTestContext(t, true)
	if _, err := ctx.Tracker.AddHabit(tracker.HabitInput{Title: "Read; then stretch"}); err != nil {
		t.Fatal(err)
	}

	var w warning
	if err := checkValidation(ctx); !errors.As(err, &w) {
		t.Fatalf("expected a warning for suspicious content, got %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("suspicious content must not fail doctor: %v", err)
	}
}

func TestCheckLogFile(t *testing.T) {
	ctx, _ := setupTestContext(t, false)
	logger.Close()

	var w warning
	if err := checkLogFile(ctx); !errors.As(err, &w) {
		t.Errorf("expected a warning before logging starts, got %v", err)
	}

	if err := logger.Init(logger.Config{Dir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.Close() })
	if err := checkLogFile(ctx); err != nil {
		t.Errorf("active log file reported: %v", err)
	}
}

func TestCheckTimezone(t *testing.T) {
	ctx, _ := setupTestContext(t, false)
	ctx.Config.Timezone = "Europe/Berlin"
	if err := checkTimezone(ctx); err != nil {
		t.Errorf("valid timezone rejected: %v", err)
	}
	ctx.Config.Timezone = "Mars/Olympus"
	if err := checkTimezone(ctx); err == nil {
		t.Error("invalid timezone accepted")
	}
}

func TestValidateCmd_Fix(t *testing.T) {
	ctx, _ := setupTestContext(t, true)
	h, err := ctx.Tracker.AddHabit(tracker.HabitInput{Title: "Run"})
	if err != nil {
		t.Fatal(err)
	}
	h.CompletionDates = []string{"2026-03-02", "2026-03-03", "2026-03-04", "not-a-date"}
	if err := ctx.Store.UpdateHabit(h); err != nil {
		t.Fatal(err)
	}

	if err := (&ValidateCmd{Fix: true}).Run(ctx); err != nil {
		t.Fatalf("validate --fix failed: %v", err)
	}

	got, err := ctx.Store.GetHabit(h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentStreak != 3 || got.LongestStreak != 3 {
		t.Errorf("streaks = %d/%d, want 3/3", got.CurrentStreak, got.LongestStreak)
	}
	if len(got.CompletionDates) != 3 {
		t.Errorf("expected unparseable date to be dropped, got %v", got.CompletionDates)
	}
}

func TestKeyringCommands(t *testing.T) {
	gokeyring.MockInit()
	ctx, _ := setupTestContext(t, false)

	if err := (&KeyringGetCmd{}).Run(ctx); err == nil {
		t.Error("get should fail when nothing is stored")
	}
	if err := (&KeyringSetCmd{ConnectionString: "postgres://app@db.internal:5432/momentumx"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := (&KeyringStatusCmd{}).Run(ctx); err != nil {
		t.Errorf("status failed: %v", err)
	}
	if err := (&KeyringDeleteCmd{}).Run(ctx); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if err := (&KeyringSetCmd{ConnectionString: "not a connection string"}).Run(ctx); err == nil {
		t.Error("set should reject an invalid connection string")
	}
}

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		in, hidden string
	}{
		{"postgres://app:s3cret@db:5432/momentumx", "s3cret"},
		{"host=db user=app password=s3cret dbname=momentumx", "s3cret"},
	}
	for _, tt := range tests {
		got := maskPassword(tt.in)
		if strings.Contains(got, tt.hidden) {
			t.Errorf("maskPassword(%q) = %q, password still visible", tt.in, got)
		}
	}
	if got := maskPassword("postgres://app@db/momentumx"); got != "postgres://app@db/momentumx" {
		t.Errorf("connection string without password changed: %q", got)
	}
}
