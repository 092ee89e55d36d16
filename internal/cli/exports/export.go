package exports

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/config"
	"github.com/momentumx/momentumx/internal/entitlement"
	apperrors "github.com/momentumx/momentumx/internal/errors"
	"github.com/momentumx/momentumx/internal/export"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format (csv, json)." enum:"csv,json" default:"json"`
	Output string `short:"o" help:"Output file. Use - for stdout. Defaults to a dated file in export.dir."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	tier, err := ctx.ResolveTier(context.Background())
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	if !entitlement.CanUseFeature(tier, entitlement.CanExport) {
		err := fmt.Errorf("%w (%s)", export.ErrExportNotAllowed, tier)
		return apperrors.WithHint(err, "exports need a coach or business license: 'momentumx license activate <key>'")
	}

	ds, err := export.Collect(ctx.Store, tier, ctx.Clock()())
	if err != nil {
		return err
	}

	if c.Output == "-" {
		return export.Write(os.Stdout, format, tier, ds)
	}

	path, err := c.path(ctx.Config, format, ds)
	if err != nil {
		return err
	}
	if err := writeFile(path, func(w io.Writer) error { return export.Write(w, format, tier, ds) }); err != nil {
		return err
	}
	fmt.Printf("Exported %d habits, %d tasks, %d journal entries and %d reviews to %s\n",
		len(ds.Habits), len(ds.Tasks), len(ds.JournalEntries), len(ds.WeeklyReviews), path)
	return nil
}

func (c *ExportCmd) path(cfg config.Config, format export.Format, ds export.Dataset) (string, error) {
	if c.Output != "" {
		return config.ExpandPath(c.Output)
	}
	dir, err := config.ExpandPath(cfg.Export.Dir)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("momentumx-export-%s.%s", ds.ExportedAt.Format("20060102-150405"), format)
	return filepath.Join(dir, name), nil
}

// writeFile writes through a temporary file so a failed export leaves no partial output.
func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
