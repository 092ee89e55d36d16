package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/keyring"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/validation"
)

type DoctorCmd struct{}

// warning marks a check whose failure should not fail the command.
type warning struct{ msg string }

func (w warning) Error() string { return w.msg }

type check struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{"Schema version", true, checkSchemaVersion},
	{"Migrations complete", true, checkMigrationsComplete},
	{"Backups present", false, checkBackupsPresent},
	{"OS keyring", false, checkKeyring},
	{"Timezone", false, checkTimezone},
	{"Log file", false, checkLogFile},
	{"License cache", true, checkLicenseCache},
	{"Data validation", true, checkValidation},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Println(cli.Fail("Database reachable: FAIL"))
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Println(cli.OK("Database reachable: OK"))
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Println(cli.Muted(fmt.Sprintf("⊘ %s: SKIPPED (database not reachable)", c.name)))
			continue
		}
		err := c.run(ctx)
		var w warning
		switch {
		case err == nil:
			fmt.Println(cli.OK(c.name + ": OK"))
		case errors.As(err, &w):
			fmt.Println(cli.Warn(c.name + ": WARNING"))
			fmt.Printf("   %v\n", err)
		default:
			fmt.Println(cli.Fail(c.name + ": FAIL"))
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version %d is newer than supported version %d; upgrade momentumx", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	pending, err := m.MigrationsPending()
	if err != nil {
		return err
	}
	if pending {
		return errors.New("pending migrations found; run 'momentumx migrate'")
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if errors.Is(err, cli.ErrBackupsUnsupported) {
		return warning{"backups are not managed for PostgreSQL databases"}
	}
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return warning{fmt.Sprintf("no backups found in %s", mgr.Dir())}
	}
	if age := ctx.Clock()().Sub(backups[0].Timestamp); age > 7*24*time.Hour {
		return warning{fmt.Sprintf("latest backup is %d days old", int(age.Hours()/24))}
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.IsAvailable() {
		return warning{"OS keyring is not available; license keys and connection strings cannot be stored"}
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	if _, err := time.LoadLocation(ctx.Config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	return nil
}

func checkLogFile(ctx *cli.Context) error {
	path := logger.Path()
	if path == "" {
		return warning{"file logging is not active"}
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("log directory unavailable: %w", err)
	}
	return nil
}

func checkLicenseCache(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	cache := settings.TierCache()
	if cache.FetchedAt.IsZero() {
		if cache.Tier == entitlement.Starter {
			return nil
		}
		return warning{fmt.Sprintf("tier %s has never been verified", cache.Tier)}
	}
	if cache.Expired(ctx.Clock()(), ctx.Config.License.CacheTTL) {
		return warning{fmt.Sprintf("cached tier %s expired; it is re-validated on next use", cache.Tier)}
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	result, err := validation.Audit(ctx.Store, settings.TierCache().Tier, ctx.Tracker.Now())
	if err != nil {
		return err
	}
	if blocking := result.Blocking(); len(blocking) > 0 {
		return fmt.Errorf("%d issue(s) found; run 'momentumx validate' for details", len(blocking))
	}
	if result.HasIssues() {
		return warning{fmt.Sprintf("%d advisory warning(s) about record content; run 'momentumx validate' for details", len(result.Issues))}
	}
	return nil
}
