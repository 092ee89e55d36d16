// Package cli holds the state shared by every momentumx command.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/momentumx/momentumx/internal/backup"
	"github.com/momentumx/momentumx/internal/config"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/license"
	"github.com/momentumx/momentumx/internal/logger"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/tracker"
)

// ErrBackupsUnsupported is returned by backup commands on a PostgreSQL database.
var ErrBackupsUnsupported = errors.New("backups are only supported for SQLite databases")

type Context struct {
	Config  config.Config
	Store   storage.Provider
	Tracker *tracker.Service
	// License is nil when no verification endpoint is configured.
	License *license.Manager
	Now     func() time.Time
}

// Clock returns the context clock, defaulting to time.Now.
func (c *Context) Clock() func() time.Time {
	if c.Now != nil {
		return c.Now
	}
	return time.Now
}

// ResolveTier loads the store and returns the tier in effect, re-validating
// the license when the cached tier expired. The tracker is updated to match.
func (c *Context) ResolveTier(ctx context.Context) (entitlement.Tier, error) {
	if err := c.Store.Load(); err != nil {
		return entitlement.Starter, err
	}
	tier := entitlement.Starter
	if c.License != nil {
		st, err := c.License.Current(ctx)
		if err != nil {
			return entitlement.Starter, err
		}
		tier = st.Tier
	} else if settings, err := c.Store.GetSettings(); err == nil {
		tier = settings.TierCache().Tier
	}
	if c.Tracker != nil {
		c.Tracker.SetTier(tier)
	}
	return tier, nil
}

// Backups returns the snapshot manager for a SQLite database.
func (c *Context) Backups() (*backup.Manager, error) {
	if config.IsPostgresDSN(c.Store.GetConfigPath()) {
		return nil, ErrBackupsUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

// PerformAutomaticBackup snapshots a SQLite database, logging failures
// without interrupting the command.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.Backups()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
