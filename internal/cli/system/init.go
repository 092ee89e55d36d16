package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/momentumx/momentumx/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Back up and delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized momentumx storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	mgr, err := ctx.Backups()
	if errors.Is(err, cli.ErrBackupsUnsupported) {
		return errors.New("--force is only supported for SQLite databases")
	}
	if err != nil {
		return err
	}

	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	// Close first so the snapshot and removal do not race an open handle.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	backupPath, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("failed to back up existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s (backup: %s)\n", dbPath, backupPath)
	return nil
}
