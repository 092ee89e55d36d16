package licenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/license"
)

var errNotConfigured = errors.New("license verification is not configured; set license.endpoint in config.toml")

type LicenseCmd struct {
	Activate LicenseActivateCmd `cmd:"" help:"Verify and store a license key."`
	Status   LicenseStatusCmd   `cmd:"" help:"Show the tier in effect and current usage." default:"1"`
	Refresh  LicenseRefreshCmd  `cmd:"" help:"Re-validate the stored license key now."`
	Forget   LicenseForgetCmd   `cmd:"" help:"Remove the stored license key and revert to starter."`
	Features LicenseFeaturesCmd `cmd:"" help:"List features by tier."`
}

type LicenseActivateCmd struct {
	Key string `arg:"" optional:"" help:"License key. Prompted for when omitted."`
}

func (c *LicenseActivateCmd) Run(ctx *cli.Context) error {
	if ctx.License == nil {
		return errNotConfigured
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Key)
	if key == "" {
		err := huh.NewInput().
			Title("License key").
			EchoMode(huh.EchoModePassword).
			Value(&key).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("license key is required")
				}
				return nil
			}).
			Run()
		if err != nil {
			return err
		}
		key = strings.TrimSpace(key)
	}

	st, err := ctx.License.Activate(context.Background(), key)
	if err != nil {
		return err
	}
	fmt.Println(cli.OK("License activated"))
	printStatus(st)
	return nil
}

type LicenseStatusCmd struct{}

func (c *LicenseStatusCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.ResolveTier(context.Background()); err != nil {
		return err
	}

	var st license.Status
	if ctx.License != nil {
		var err error
		if st, err = ctx.License.Current(context.Background()); err != nil {
			return err
		}
	} else {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		cache := settings.TierCache()
		st = license.Status{Tier: cache.Tier, Product: settings.LicenseProduct, CheckedAt: cache.FetchedAt}
	}
	printStatus(st)

	usage, err := ctx.Tracker.Usage()
	if err != nil {
		return err
	}
	limits := entitlement.TierLimits(st.Tier)
	fmt.Println()
	fmt.Println(cli.Heading("Usage"))
	for _, r := range []entitlement.Resource{entitlement.Habits, entitlement.Tasks, entitlement.JournalEntries} {
		fmt.Printf("  %-16s %s\n", r, cli.Usage(usage[r], limits.Limit(r)))
	}
	return nil
}

type LicenseRefreshCmd struct{}

func (c *LicenseRefreshCmd) Run(ctx *cli.Context) error {
	if ctx.License == nil {
		return errNotConfigured
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	st, err := ctx.License.Refresh(context.Background())
	if err != nil {
		return err
	}
	printStatus(st)
	return nil
}

type LicenseForgetCmd struct{}

func (c *LicenseForgetCmd) Run(ctx *cli.Context) error {
	if ctx.License == nil {
		return errNotConfigured
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.License.Forget(); err != nil {
		return err
	}
	fmt.Println("License key removed. Tier reset to starter.")
	return nil
}

type LicenseFeaturesCmd struct {
	Tier string `help:"Only show features for this tier." enum:"starter,coach,business,all" default:"all"`
}

func (c *LicenseFeaturesCmd) Run(ctx *cli.Context) error {
	tiers := entitlement.Tiers
	if c.Tier != "all" {
		tiers = []entitlement.Tier{entitlement.Resolve(c.Tier)}
	}

	header := fmt.Sprintf("%-20s", "FEATURE")
	for _, t := range tiers {
		header += fmt.Sprintf(" %-9s", strings.ToUpper(t.String()))
	}
	fmt.Println(cli.Heading(header))
	for _, f := range entitlement.AllFeatures() {
		line := fmt.Sprintf("%-20s", f)
		for _, t := range tiers {
			mark := "-"
			if entitlement.HasFeature(t, f) {
				mark = "✓"
			}
			line += fmt.Sprintf(" %-9s", mark)
		}
		fmt.Println(line)
	}
	return nil
}

func printStatus(st license.Status) {
	fmt.Printf("Tier:     %s\n", cli.Tier(st.Tier))
	if st.Product != "" {
		fmt.Printf("Product:  %s\n", st.Product)
	}
	if !st.CheckedAt.IsZero() {
		fmt.Printf("Checked:  %s\n", st.CheckedAt.Local().Format(time.DateTime))
	}
	if st.HasKey {
		fmt.Println("Key:      stored in OS keyring")
	} else {
		fmt.Println(cli.Muted("Key:      none"))
	}
	if st.Stale {
		fmt.Println(cli.Warn("License server unreachable; using the cached tier"))
	}
}
