package system

import (
	"context"
	"fmt"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair drifted streak caches and unparseable completion dates."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	tier, err := ctx.ResolveTier(context.Background())
	if err != nil {
		return err
	}

	today := ctx.Tracker.Now()
	result, err := validation.Audit(ctx.Store, tier, today)
	if err != nil {
		return err
	}

	fmt.Println(result.FormatReport())
	if !cmd.Fix || len(result.Fixable()) == 0 {
		return nil
	}

	ctx.PerformAutomaticBackup()
	actions, err := validation.Fix(ctx.Store, result, today)
	for _, a := range actions {
		fmt.Println(cli.OK(a.Action))
	}
	if err != nil {
		return fmt.Errorf("fix failed after %d change(s): %w", len(actions), err)
	}
	fmt.Printf("\nApplied %d fix(es).\n", len(actions))
	return nil
}
